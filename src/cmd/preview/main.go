package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"screen-snip/src/config"
	"screen-snip/src/errs"
	"screen-snip/src/gui"
	"screen-snip/src/handoff"
	"screen-snip/src/logutil"
	"screen-snip/src/messages"
	"screen-snip/src/monitor"
	"screen-snip/src/runtimeinit"
	"screen-snip/src/session"
)

func init() {
	// ebiten's window loop must own the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cmd := newRootCmd(runPreview)
	cmd.SetArgs(os.Args[1:])
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(errs.ExitCode(err))
}

type runFunc func(ctx context.Context, ev messages.CaptureCompleted) error

func newRootCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "screen-snip-preview <x> <y> <path>",
		Short: "Show a captured frame fullscreen and copy the selected rectangle",
		// Monitor origins can be negative, which pflag would read as flags.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(3)(cmd, args); err != nil {
				return fmt.Errorf("%v: %w", err, errs.ErrArguments)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := handoff.ParseArgs(args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), ev)
		},
	}
}

func runPreview(parent context.Context, ev messages.CaptureCompleted) error {
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{HandoffPathOverride: ev.Path},
		SetupLogging: func(enableFileLogging bool) {
			logutil.Setup(enableFileLogging, os.Stderr)
		},
		InitClipboard: true,
	})
	if err != nil {
		return err
	}

	frame, err := handoff.Load(ev.Path)
	if err != nil {
		return err
	}
	log.Printf("Preview of %s (%dx%d) on monitor at %v", ev.Path, frame.Width, frame.Height, ev.Origin)

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, err = session.Execute(ctx, session.Options{
		Frame: frame,
		Selector: gui.NewSelector(frame, gui.Options{
			Origin:    ev.Origin,
			Current:   primaryOrigin(monitor.DisplayTopology{}),
			Dim:       cfg.OverlayDim,
			CancelKey: cfg.CancelKey,
		}),
		Clipboard:  runtimeinit.ClipboardWriter(cfg),
		Path:       ev.Path,
		StatusText: cfg.StatusText,
	})
	return err
}

// primaryOrigin is where a new window lands before it is placed: the first
// display the capture side enumerates.
func primaryOrigin(topology monitor.Topology) image.Point {
	monitors, err := topology.Monitors()
	if err != nil || len(monitors) == 0 {
		return image.Point{}
	}
	return monitors[0].Origin()
}
