// Package session runs one preview: select a rectangle over the captured
// frame, crop it, save it and put it on the clipboard.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"screen-snip/src/errs"
	"screen-snip/src/handoff"
	"screen-snip/src/overlay"
	"screen-snip/src/screenshot"
	"screen-snip/src/selection"
)

type Clipboard interface {
	WriteText(text string) error
	WriteImageFile(path string) error
}

// ResultTarget is told how the session ended.
type ResultTarget interface {
	OnSuccess(res Result) error
	OnFailure(err error) error
}

type Options struct {
	Frame     *screenshot.Frame
	Selector  overlay.Selector
	Clipboard Clipboard
	Target    ResultTarget
	// Path receives the cropped PNG. The preview overwrites its own
	// hand-off file.
	Path string
	// StatusText is put on the clipboard while the crop is written.
	StatusText string
}

type Result struct {
	Rect      selection.Rect
	FullImage bool
	Path      string
}

func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.Frame == nil {
		return Result{}, errors.New("Frame is required")
	}
	if opts.Selector == nil {
		return Result{}, errors.New("Selector is required")
	}
	if opts.Path == "" {
		return Result{}, errors.New("Path is required")
	}
	target := opts.Target
	if target == nil {
		target = LogTarget{}
	}

	sel, err := opts.Selector.Select(ctx)
	if err != nil {
		err = fmt.Errorf("selection: %w", err)
		_ = target.OnFailure(err)
		return Result{}, err
	}

	if !sel.FullImage {
		sel = selection.Clamp(sel.Rect, opts.Frame.Width, opts.Frame.Height)
	}
	crop := opts.Frame
	if !sel.FullImage {
		crop = screenshot.Crop(opts.Frame, sel.Rect.Rectangle())
	}

	if opts.Clipboard != nil && opts.StatusText != "" {
		if err := opts.Clipboard.WriteText(opts.StatusText); err != nil {
			log.Printf("Status text not written: %v", err)
		}
	}

	if err := handoff.Save(crop, opts.Path); err != nil {
		_ = target.OnFailure(err)
		return Result{}, err
	}

	res := Result{Rect: sel.Rect, FullImage: sel.FullImage, Path: opts.Path}
	if opts.Clipboard != nil {
		if err := opts.Clipboard.WriteImageFile(opts.Path); err != nil {
			if !errors.Is(err, errs.ErrIO) {
				err = fmt.Errorf("%v: %w", err, errs.ErrIO)
			}
			err = fmt.Errorf("clipboard: %w", err)
			_ = target.OnFailure(err)
			return res, err
		}
	}

	if err := target.OnSuccess(res); err != nil {
		return res, err
	}
	return res, nil
}

// LogTarget only logs the outcome.
type LogTarget struct{}

func (LogTarget) OnSuccess(res Result) error {
	log.Printf("Crop saved: %s %dx%d at (%d,%d) full=%v",
		res.Path, res.Rect.Width, res.Rect.Height, res.Rect.X, res.Rect.Y, res.FullImage)
	return nil
}

func (LogTarget) OnFailure(err error) error {
	log.Printf("Preview session failed: %v", err)
	return nil
}
