package runtimeinit

import (
	"errors"
	"fmt"
	"log"

	"screen-snip/src/clipboard"
	"screen-snip/src/config"
	"screen-snip/src/hotkey"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// RequireHotkey validates HOTKEY; only the resident listens for it.
	RequireHotkey bool
	// InitClipboard prepares the native clipboard when it is the configured mode.
	InitClipboard bool
}

// Bootstrap loads configuration, sets up logging and validates what the
// caller needs before any window or hook is created.
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}
	if cfg.EnvPath != "" {
		log.Printf("Config loaded from %s", cfg.EnvPath)
	}

	if cfg.HandoffPath == "" {
		return nil, errors.New("HANDOFF_PATH resolved to an empty path")
	}
	if opts.RequireHotkey {
		if _, err := hotkey.ParseChord(cfg.Hotkey); err != nil {
			return nil, fmt.Errorf("HOTKEY: %w", err)
		}
	}

	if opts.InitClipboard && cfg.ClipboardMode == config.ClipboardNative {
		if err := clipboard.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	return cfg, nil
}

// ClipboardWriter builds the clipboard collaborator for cfg.
func ClipboardWriter(cfg *config.Config) clipboard.Writer {
	mode := clipboard.ModeNative
	if cfg.ClipboardMode == config.ClipboardCommand {
		mode = clipboard.ModeCommand
	}
	return clipboard.Writer{Mode: mode, Command: cfg.ClipboardCommand}
}
