package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"screen-snip/src/config"
	"screen-snip/src/eventloop"
	"screen-snip/src/handoff"
	"screen-snip/src/hotkey"
	"screen-snip/src/logutil"
	"screen-snip/src/messages"
	"screen-snip/src/monitor"
	"screen-snip/src/notification"
	"screen-snip/src/runtimeinit"
	"screen-snip/src/screenshot"
	"screen-snip/src/singleinstance"
	"screen-snip/src/tray"
)

type mainOptions struct {
	hotkey      string
	handoffPath string
	detach      bool
	verbose     bool
}

func (o mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{HotkeyOverride: o.hotkey, HandoffPathOverride: o.handoffPath}
}

func main() {
	// systray wants the main OS thread.
	runtime.LockOSThread()

	if err := runWithArgs(normalizeLegacyArgs(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-snip"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-snip",
		Short:         "Listen for the capture hotkey and open the crop preview",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResident(*opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.hotkey, "hotkey", "", "Capture chord, e.g. Super+Shift+S (overrides HOTKEY)")
	cmd.PersistentFlags().StringVar(&opts.handoffPath, "handoff-path", "", "Hand-off PNG path (overrides HANDOFF_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr when file logging is off")
	cmd.Flags().BoolVar(&opts.detach, "detach", false, "Run the listener in the background")

	cmd.AddCommand(newCaptureCmd(opts))
	return cmd
}

func newCaptureCmd(opts *mainOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "capture",
		Short: "Capture the monitor under the cursor once",
		Long:  "Asks a running listener to capture; captures directly when none is running.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
				LoadOptions:  opts.loadOptions(),
				SetupLogging: loggingSetup(opts.verbose),
			})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			return handleCaptureWithDelegation(ctx, singleinstance.NewClient(), func() error {
				return captureOnce(cfg)
			})
		},
	}
}

// normalizeLegacyArgs maps single-dash long flags to cobra's double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"hotkey", "handoff-path", "detach", "verbose"} {
			single := "-" + name
			switch {
			case arg == single:
				normalized[i] = "-" + single
			case strings.HasPrefix(arg, single+"="):
				normalized[i] = "-" + arg
			}
		}
	}
	return normalized
}

func loggingSetup(verbose bool) func(bool) {
	return func(enableFileLogging bool) {
		var fallback io.Writer
		if verbose {
			fallback = os.Stderr
		}
		logutil.Setup(enableFileLogging, fallback)
	}
}

// handleCaptureWithDelegation prefers the resident and falls back to a
// direct capture when none answers or delegation fails.
func handleCaptureWithDelegation(ctx context.Context, client singleinstance.Client, fallback func() error) error {
	delegated, reply, err := client.TryCapture(ctx)
	if err != nil {
		log.Printf("Delegation error: %v; capturing directly", err)
		return fallback()
	}
	if delegated {
		log.Printf("Delegated to resident: %s", reply)
		return nil
	}
	log.Printf("No resident detected, capturing directly")
	return fallback()
}

// captureOnce runs one capture pipeline in this process.
func captureOnce(cfg *config.Config) error {
	target, err := monitor.Locate(monitor.RobotPointer{}, monitor.DisplayTopology{})
	if err != nil {
		return err
	}
	frame, err := screenshot.NewCapturer(screenshot.DisplaySource{}).Capture(target.Index)
	if err != nil {
		return err
	}
	ev, err := handoff.Publish(handoff.SpawnDispatcher{Command: cfg.PreviewCommand},
		"direct", frame, target.Geometry.Origin(), cfg.HandoffPath)
	if err != nil {
		return err
	}
	log.Printf("Preview dispatched for %s at %v", ev.Path, ev.Origin)
	return nil
}

func runResident(opts mainOptions) error {
	if opts.detach && !isDetachedChild() {
		child, err := detach()
		if err != nil {
			return err
		}
		if child != nil {
			fmt.Printf("screen-snip listening in the background (pid %d)\n", child.Pid)
			return nil
		}
	}

	// Load .env early so the port range is known for the pre-flight check.
	loadOpts := opts.loadOptions()
	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:   loadOpts,
		SetupLogging:  loggingSetup(opts.verbose),
		RequireHotkey: true,
	})
	if err != nil {
		notification.ShowBlockingError("screen-snip", err.Error())
		return err
	}

	probe, cancelProbe := context.WithTimeout(context.Background(), 300*time.Millisecond)
	port, err := singleinstance.DetectResident(probe)
	cancelProbe()
	switch {
	case err == nil:
		fmt.Printf("one is already running on port %d\n", port)
		return fmt.Errorf("resident already running on port %d", port)
	case !errors.Is(err, singleinstance.ErrNoResident):
		log.Printf("Resident probe: %v", err)
	}

	chord, err := hotkey.ParseChord(cfg.Hotkey)
	if err != nil {
		return err
	}
	tracker := hotkey.NewTracker(chord)

	log.Printf("screen-snip initialized")
	log.Printf("Hotkey: %s", chord)
	log.Printf("Hand-off: %s -> %s", cfg.HandoffPath, cfg.PreviewCommand)

	loop := eventloop.New(cfg, eventloop.Options{
		Pointer:    monitor.RobotPointer{},
		Topology:   monitor.DisplayTopology{},
		Capturer:   screenshot.NewCapturer(screenshot.DisplaySource{}),
		Dispatcher: handoff.SpawnDispatcher{Command: cfg.PreviewCommand},
		Server:     singleinstance.NewServer(),
		Tracker:    tracker,
		Tooltip:    tray.UpdateTooltip,
		Notify:     notification.ShowError,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		err := hotkey.Listen(ctx, tracker, func() { loop.Trigger(messages.SourceHotkey) })
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("hotkey listener stopped: %v", err)
			notification.ShowError("Hotkey unavailable", err.Error())
		}
	}()

	if cfg.EnvPath != "" {
		go func() {
			if err := config.Watch(ctx, cfg.EnvPath, loadOpts, loop.ApplyConfig); err != nil {
				log.Printf("config watch disabled: %v", err)
			}
		}()
	}

	if !cfg.EnableTray {
		return ignoreCanceled(loop.Run(ctx))
	}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
		tray.Quit()
	}()
	tray.Run(fmt.Sprintf("screen-snip - press %s to capture", chord), func(m *tray.Menu) {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.Capture:
					loop.Trigger(messages.SourceTray)
				case <-m.Quit:
					cancel()
					return
				}
			}
		}()
	}, cancel)
	cancel()
	return ignoreCanceled(<-loopErr)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		log.Printf("event loop stopped")
		return nil
	}
	return err
}
