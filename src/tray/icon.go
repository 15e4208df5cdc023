package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

var (
	iconOnce sync.Once
	iconPNG  []byte
)

// Icon returns a 16x16 PNG: a dashed selection rectangle with a filled
// corner handle.
func Icon() []byte {
	iconOnce.Do(func() {
		iconPNG = drawIcon()
	})
	return iconPNG
}

func drawIcon() []byte {
	const size = 16
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	blue := color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	grey := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

	// dashed border, 2 on / 1 off
	for i := 2; i <= 13; i++ {
		if i%3 == 1 {
			continue
		}
		img.Set(i, 2, blue)
		img.Set(i, 13, blue)
		img.Set(2, i, blue)
		img.Set(13, i, blue)
	}
	for y := 11; y <= 14; y++ {
		for x := 11; x <= 14; x++ {
			img.Set(x, y, grey)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
