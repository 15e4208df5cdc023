package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"screen-snip/src/errs"
)

// BytesPerPixel is the size of one pixel in both raw and normalized frames.
const BytesPerPixel = 4

// PixelOrder is the channel layout of a raw frame.
type PixelOrder int

const (
	OrderBGRA PixelOrder = iota
	OrderRGBA
)

func (o PixelOrder) String() string {
	switch o {
	case OrderBGRA:
		return "BGRA"
	case OrderRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("PixelOrder(%d)", int(o))
	}
}

// RawFrame is a frame as returned by a display backend: rows may be padded
// past Width*4 and the channel order is backend specific.
type RawFrame struct {
	Width  int
	Height int
	Stride int
	Order  PixelOrder
	Pix    []byte
}

// Frame is a normalized capture: tightly packed RGBA rows, alpha always 255.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// Bounds returns the frame rectangle anchored at the origin.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// RGBA wraps the frame without copying.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: f.Width * BytesPerPixel, Rect: f.Bounds()}
}

// EncodePNG writes the frame as PNG.
func (f *Frame) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, f.RGBA()); err != nil {
		return fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return nil
}

// PNG returns the PNG encoding of the frame.
func (f *Frame) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromImage converts any decoded image into a Frame with opaque pixels.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*BytesPerPixel || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	f := &Frame{Width: b.Dx(), Height: b.Dy(), Pix: rgba.Pix}
	for i := 3; i < len(f.Pix); i += BytesPerPixel {
		f.Pix[i] = 0xff
	}
	return f
}

// Normalize strips row padding, reorders channels to RGBA and forces alpha
// to 255, since a physical display has no meaningful alpha. A stride smaller
// than a row or a buffer too short for the declared rows is errs.ErrFormat.
func Normalize(raw RawFrame) (*Frame, error) {
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d: %w", raw.Width, raw.Height, errs.ErrFormat)
	}
	rowBytes := raw.Width * BytesPerPixel
	if raw.Stride < rowBytes {
		return nil, fmt.Errorf("stride %d shorter than row of %d bytes: %w", raw.Stride, rowBytes, errs.ErrFormat)
	}
	if need := raw.Stride*(raw.Height-1) + rowBytes; len(raw.Pix) < need {
		return nil, fmt.Errorf("buffer holds %d bytes, need %d for %dx%d stride %d: %w",
			len(raw.Pix), need, raw.Width, raw.Height, raw.Stride, errs.ErrFormat)
	}

	out := make([]byte, rowBytes*raw.Height)
	for y := 0; y < raw.Height; y++ {
		src := raw.Pix[y*raw.Stride : y*raw.Stride+rowBytes]
		dst := out[y*rowBytes : (y+1)*rowBytes]
		switch raw.Order {
		case OrderBGRA:
			for i := 0; i < rowBytes; i += BytesPerPixel {
				dst[i] = src[i+2]
				dst[i+1] = src[i+1]
				dst[i+2] = src[i]
				dst[i+3] = 0xff
			}
		case OrderRGBA:
			copy(dst, src)
			for i := 3; i < rowBytes; i += BytesPerPixel {
				dst[i] = 0xff
			}
		default:
			return nil, fmt.Errorf("unsupported pixel order %v: %w", raw.Order, errs.ErrFormat)
		}
	}
	return &Frame{Width: raw.Width, Height: raw.Height, Pix: out}, nil
}

// Crop copies rect out of frame row by row. rect is clamped to the frame; a
// rectangle that ends up empty yields a zero-sized frame.
func Crop(frame *Frame, rect image.Rectangle) *Frame {
	rect = rect.Intersect(frame.Bounds())
	if rect.Empty() {
		return &Frame{}
	}
	w, h := rect.Dx(), rect.Dy()
	srcStride := frame.Width * BytesPerPixel
	rowBytes := w * BytesPerPixel
	out := make([]byte, rowBytes*h)
	for y := 0; y < h; y++ {
		srcStart := (rect.Min.Y+y)*srcStride + rect.Min.X*BytesPerPixel
		copy(out[y*rowBytes:(y+1)*rowBytes], frame.Pix[srcStart:srcStart+rowBytes])
	}
	return &Frame{Width: w, Height: h, Pix: out}
}
