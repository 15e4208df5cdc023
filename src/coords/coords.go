// Package coords converts between window pixels, normalized device
// coordinates and texture coordinates.
//
// Pixel space has its origin at the top-left corner with y growing down.
// NDC spans [-1,1] on both axes with +1 at the top. Texture space spans
// [0,1] with the origin at the top-left, like pixel space.
//
// Every function taking a Size requires a non-zero width and height. The
// renderer never forwards an empty size (see overlay.Renderer.Resize), so
// there is no guard here.
package coords

import "image"

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Vec2 is a point in NDC or texture space.
type Vec2 struct {
	X float64
	Y float64
}

// ToNDC maps a pixel position inside a window to NDC, flipping y so pixel
// row 0 lands on +1.
func ToNDC(p image.Point, window Size) Vec2 {
	return Vec2{
		X: float64(p.X)/float64(window.Width)*2 - 1,
		Y: -(float64(p.Y)/float64(window.Height)*2 - 1),
	}
}

// NDCToTex maps NDC to texture coordinates.
func NDCToTex(v Vec2) Vec2 {
	return Vec2{
		X: (v.X + 1) / 2,
		Y: 1 - (v.Y+1)/2,
	}
}

// NDCToPixel is the inverse of ToNDC, without rounding.
func NDCToPixel(v Vec2, window Size) Vec2 {
	return Vec2{
		X: (v.X + 1) / 2 * float64(window.Width),
		Y: (1 - v.Y) / 2 * float64(window.Height),
	}
}

// TexToPixel scales texture coordinates to pixel positions in an image of
// the given size.
func TexToPixel(t Vec2, size Size) Vec2 {
	return Vec2{X: t.X * float64(size.Width), Y: t.Y * float64(size.Height)}
}

// WindowToImage rescales a window position into image pixels. When the
// window covers the captured monitor at native resolution this is the
// identity.
func WindowToImage(p image.Point, window, img Size) image.Point {
	if window == img || window.Empty() {
		return p
	}
	return image.Point{
		X: p.X * img.Width / window.Width,
		Y: p.Y * img.Height / window.Height,
	}
}

// ImageToWindow is the inverse of WindowToImage.
func ImageToWindow(p image.Point, img, window Size) image.Point {
	if window == img || img.Empty() {
		return p
	}
	return image.Point{
		X: p.X * window.Width / img.Width,
		Y: p.Y * window.Height / img.Height,
	}
}
