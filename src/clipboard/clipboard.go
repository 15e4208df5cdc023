package clipboard

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"screen-snip/src/errs"

	"golang.design/x/clipboard"
)

type Mode string

const (
	ModeNative  Mode = "native"
	ModeCommand Mode = "command"
)

// DefaultCommand receives the PNG path as its final argument.
const DefaultCommand = "xclip -in -selection clipboard -target image/png"

// waitDelay bounds how long Wait lingers on output held open by a
// selection-serving child after the command itself has exited.
const waitDelay = 500 * time.Millisecond

var (
	writeMu sync.Mutex

	initOnce sync.Once
	initErr  error
)

// Init prepares the native clipboard. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// WriteText performs a mutex-guarded text write.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %v: %w", err, errs.ErrIO)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Writer publishes images either through the native clipboard or an
// external command such as xclip.
type Writer struct {
	Mode    Mode
	Command string
	Timeout time.Duration
}

func (w Writer) WriteText(text string) error { return WriteText(text) }

// WriteImageFile puts the PNG at path on the clipboard and returns once the
// clipboard owns it.
func (w Writer) WriteImageFile(path string) error {
	switch w.Mode {
	case ModeCommand:
		return w.runCommand(path)
	case ModeNative, "":
		return writeNative(path)
	default:
		return fmt.Errorf("unknown clipboard mode %q: %w", w.Mode, errs.ErrIO)
	}
}

func writeNative(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %v: %w", path, err, errs.ErrIO)
	}
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %v: %w", err, errs.ErrIO)
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (w Writer) runCommand(path string) error {
	cmdline := w.Command
	if strings.TrimSpace(cmdline) == "" {
		cmdline = DefaultCommand
	}
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return fmt.Errorf("empty clipboard command: %w", errs.ErrIO)
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// xclip forks a child that keeps serving the selection with our
	// stdout/stderr inherited. A pipe there would hold Wait open for the
	// child's lifetime, so output goes to a file instead.
	out, err := os.CreateTemp("", "screen-snip-clipboard-*.log")
	if err != nil {
		return fmt.Errorf("clipboard command output: %v: %w", err, errs.ErrIO)
	}
	defer os.Remove(out.Name())
	defer out.Close()

	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		if msg, rerr := os.ReadFile(out.Name()); rerr == nil && len(msg) > 0 {
			log.Printf("clipboard command output: %s", strings.TrimSpace(string(msg)))
		}
		return fmt.Errorf("clipboard command %s: %v: %w", fields[0], err, errs.ErrIO)
	}
	return nil
}
