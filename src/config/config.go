package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPathEnvVar = "SCREEN_SNIP_ENV"

	DefaultHotkey     = "Super+Shift+S"
	DefaultCancelKey  = "Escape"
	DefaultStatusText = "Image is being saved..."
	DefaultOverlayDim = 0.55
	PreviewBinaryName = "screen-snip-preview"

	ClipboardNative  = "native"
	ClipboardCommand = "command"
)

type LoadOptions struct {
	// EnvPath overrides .env discovery.
	EnvPath             string
	HotkeyOverride      string
	HandoffPathOverride string
}

type Config struct {
	EnvPath           string
	Hotkey            string
	CancelKey         string
	HandoffPath       string
	PreviewCommand    string
	ClipboardMode     string
	ClipboardCommand  string
	StatusText        string
	EnableFileLogging bool
	EnableTray        bool
	OverlayDim        float64
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions reads, in priority order: explicit overrides, process
// environment, then the .env file (next to the executable, else the file
// named by SCREEN_SNIP_ENV). The process environment is never modified so
// a reload sees the file's current contents.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	envPath := opts.EnvPath
	if envPath == "" {
		envPath = ResolveEnvPath()
	}
	values := readDotenvValues(envPath)
	get := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(values[key]); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		EnvPath:           envPath,
		Hotkey:            get("HOTKEY", DefaultHotkey),
		CancelKey:         get("CANCEL_KEY", DefaultCancelKey),
		HandoffPath:       get("HANDOFF_PATH", defaultHandoffPath()),
		PreviewCommand:    get("PREVIEW_COMMAND", defaultPreviewCommand()),
		ClipboardMode:     resolveClipboardMode(get("CLIPBOARD_MODE", DefaultClipboardMode(runtime.GOOS))),
		ClipboardCommand:  get("CLIPBOARD_COMMAND", ""),
		StatusText:        get("STATUS_TEXT", DefaultStatusText),
		EnableFileLogging: parseBool(get("ENABLE_FILE_LOGGING", ""), false),
		EnableTray:        parseBool(get("ENABLE_TRAY", ""), true),
		OverlayDim:        parseDim(get("OVERLAY_DIM", "")),
	}

	if v := strings.TrimSpace(opts.HotkeyOverride); v != "" {
		cfg.Hotkey = v
	}
	if v := strings.TrimSpace(opts.HandoffPathOverride); v != "" {
		cfg.HandoffPath = v
	}
	cfg.HandoffPath = expandHome(cfg.HandoffPath)

	return cfg, nil
}

// ResolveEnvPath returns the .env next to the executable, else the file
// named by SCREEN_SNIP_ENV, else "".
func ResolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		log.Printf("Ignoring unreadable config %s: %v", envPath, err)
		return map[string]string{}
	}

	return values
}

func defaultHandoffPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".sss", "tmp.png")
	}
	return filepath.Join(home, ".sss", "tmp.png")
}

func defaultPreviewCommand() string {
	execPath, err := os.Executable()
	if err != nil {
		return PreviewBinaryName
	}
	return filepath.Join(filepath.Dir(execPath), PreviewBinaryName)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultClipboardMode picks the clipboard backend for goos. On X11 the
// native clipboard is served by the writing process, and the preview exits
// right after writing, so Linux hands the file to xclip instead.
func DefaultClipboardMode(goos string) string {
	if goos == "linux" {
		return ClipboardCommand
	}
	return ClipboardNative
}

func resolveClipboardMode(value string) string {
	switch strings.ToLower(value) {
	case ClipboardCommand, "cmd", "xclip":
		return ClipboardCommand
	case ClipboardNative:
		return ClipboardNative
	default:
		def := DefaultClipboardMode(runtime.GOOS)
		log.Printf("Unknown CLIPBOARD_MODE %q, using %s", value, def)
		return def
	}
}

func parseBool(value string, def bool) bool {
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return b
}

func parseDim(value string) float64 {
	if value == "" {
		return DefaultOverlayDim
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || f > 1 {
		log.Printf("OVERLAY_DIM %q out of range, using %.2f", value, DefaultOverlayDim)
		return DefaultOverlayDim
	}
	return f
}
