package handoff

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"

	"screen-snip/src/messages"
)

// Dispatcher signals that a hand-off file is ready. It does not wait for
// the preview to finish.
type Dispatcher interface {
	Dispatch(ev messages.CaptureCompleted) error
}

// SpawnDispatcher starts the preview binary with x y path arguments.
type SpawnDispatcher struct {
	Command string
}

func (d SpawnDispatcher) Dispatch(ev messages.CaptureCompleted) error {
	if d.Command == "" {
		return errors.New("no preview command configured")
	}
	cmd := exec.Command(d.Command, Args(ev)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", d.Command, err)
	}
	log.Printf("[%s] preview started: pid=%d args=%v", ev.ID, cmd.Process.Pid, cmd.Args[1:])
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("[%s] preview exited: %v", ev.ID, err)
		}
	}()
	return nil
}

// ChannelDispatcher hands events to an in-process preview.
type ChannelDispatcher struct {
	ch chan messages.CaptureCompleted
}

func NewChannelDispatcher(buffer int) *ChannelDispatcher {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelDispatcher{ch: make(chan messages.CaptureCompleted, buffer)}
}

// Dispatch never blocks; a full buffer means a preview is still pending.
func (d *ChannelDispatcher) Dispatch(ev messages.CaptureCompleted) error {
	select {
	case d.ch <- ev:
		return nil
	default:
		return errors.New("preview still pending")
	}
}

func (d *ChannelDispatcher) Events() <-chan messages.CaptureCompleted { return d.ch }
