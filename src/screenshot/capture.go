// Package screenshot grabs one frame from a display and normalizes it.
package screenshot

import (
	"fmt"
	"log"

	"github.com/kbinani/screenshot"

	"screen-snip/src/errs"
)

// Source produces a raw frame for a display index.
type Source interface {
	Grab(index int) (RawFrame, error)
}

// DisplaySource captures through kbinani/screenshot, which hands back RGBA
// rows that may carry padding.
type DisplaySource struct{}

func (DisplaySource) Grab(index int) (RawFrame, error) {
	if n := screenshot.NumActiveDisplays(); index < 0 || index >= n {
		return RawFrame{}, fmt.Errorf("display %d not active (%d active)", index, n)
	}
	img, err := screenshot.CaptureDisplay(index)
	if err != nil {
		return RawFrame{}, err
	}
	b := img.Bounds()
	return RawFrame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: img.Stride,
		Order:  OrderRGBA,
		Pix:    img.Pix,
	}, nil
}

// Capturer performs exactly one capture attempt per call. A backend that
// is not ready is reported, not retried.
type Capturer struct {
	source Source
}

func NewCapturer(source Source) *Capturer {
	if source == nil {
		source = DisplaySource{}
	}
	return &Capturer{source: source}
}

// Capture returns the normalized frame for display index. Backend failures
// wrap errs.ErrCaptureUnavailable, layout problems errs.ErrFormat.
func (c *Capturer) Capture(index int) (*Frame, error) {
	raw, err := c.source.Grab(index)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %v: %w", index, err, errs.ErrCaptureUnavailable)
	}
	frame, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", index, err)
	}
	log.Printf("Captured display %d: %dx%d (%s, stride %d)", index, frame.Width, frame.Height, raw.Order, raw.Stride)
	return frame, nil
}
