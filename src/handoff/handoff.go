// Package handoff moves a captured frame from the resident listener to the
// preview session: a PNG at a configured path plus a CaptureCompleted event
// carrying the monitor origin. The file is always durably written before
// the event is dispatched.
package handoff

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"screen-snip/src/errs"
	"screen-snip/src/messages"
	"screen-snip/src/screenshot"
)

const (
	defaultDir  = ".sss"
	defaultFile = "tmp.png"
)

// DefaultPath is the user-scoped hand-off file, $HOME/.sss/tmp.png.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultDir, defaultFile), nil
}

// Save writes frame as PNG to a temporary file next to path, syncs it and
// renames it over path, so a reader never sees a partial image.
func Save(frame *screenshot.Frame, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %v: %w", dir, err, errs.ErrIO)
	}
	tmp, err := os.CreateTemp(dir, ".handoff-*.png")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %v: %w", dir, err, errs.ErrIO)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := frame.EncodePNG(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %v: %w", tmpName, err, errs.ErrIO)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %v: %w", tmpName, err, errs.ErrIO)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %v: %w", tmpName, err, errs.ErrIO)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %v: %w", path, err, errs.ErrIO)
	}
	return nil
}

// Load reads a hand-off PNG back into a frame.
func Load(path string) (*screenshot.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, errs.ErrIO)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", path, err, errs.ErrIO)
	}
	return screenshot.FromImage(img), nil
}

// Args renders the preview's positional arguments: x y path.
func Args(ev messages.CaptureCompleted) []string {
	return []string{strconv.Itoa(ev.Origin.X), strconv.Itoa(ev.Origin.Y), ev.Path}
}

// ParseArgs is the inverse of Args. Missing or unparsable values wrap
// errs.ErrArguments.
func ParseArgs(args []string) (messages.CaptureCompleted, error) {
	if len(args) != 3 {
		return messages.CaptureCompleted{}, fmt.Errorf("expected 3 arguments (x y path), got %d: %w", len(args), errs.ErrArguments)
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return messages.CaptureCompleted{}, fmt.Errorf("monitor x %q: %w", args[0], errs.ErrArguments)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return messages.CaptureCompleted{}, fmt.Errorf("monitor y %q: %w", args[1], errs.ErrArguments)
	}
	if args[2] == "" {
		return messages.CaptureCompleted{}, fmt.Errorf("empty hand-off path: %w", errs.ErrArguments)
	}
	return messages.CaptureCompleted{Origin: image.Pt(x, y), Path: args[2]}, nil
}

// Publish saves the frame and only then dispatches the completion event.
func Publish(d Dispatcher, id string, frame *screenshot.Frame, origin image.Point, path string) (messages.CaptureCompleted, error) {
	if err := Save(frame, path); err != nil {
		return messages.CaptureCompleted{}, err
	}
	ev := messages.CaptureCompleted{ID: id, Origin: origin, Path: path}
	if err := d.Dispatch(ev); err != nil {
		return ev, fmt.Errorf("dispatch preview: %w", err)
	}
	return ev, nil
}
