// Package overlay holds the renderer state for the crop preview: the base
// image always, and a highlighted selection quad while a drag is open or
// closed. The drawing itself is done by a backend (see package gui) through
// the DrawFunc handed to RenderFrame.
package overlay

import (
	"context"
	"errors"
	"image"
	"log"

	"screen-snip/src/coords"
	"screen-snip/src/errs"
	"screen-snip/src/selection"
)

// Selector runs one interactive selection over a captured image and
// returns the crop rectangle. It blocks until the session ends.
type Selector interface {
	Select(ctx context.Context) (selection.Result, error)
}

// Vertex is one corner of the selection quad: an NDC position and the
// texture coordinate sampled there.
type Vertex struct {
	Position coords.Vec2
	Tex      coords.Vec2
}

// Quad is two triangles covering the selection.
type Quad [6]Vertex

// Layer is either NoSelection or ActiveSelection.
type Layer interface {
	isLayer()
}

type NoSelection struct{}

// ActiveSelection carries the rectangle in image pixels and the geometry
// generated for the current window size.
type ActiveSelection struct {
	Rect selection.Rect
	Quad Quad
}

func (NoSelection) isLayer()     {}
func (ActiveSelection) isLayer() {}

// BuildQuad maps an image-space rectangle to window pixels, then to NDC and
// texture coordinates. Vertex order matches a counter-clockwise triangle list.
func BuildQuad(r selection.Rect, window, img coords.Size) Quad {
	tl := coords.ImageToWindow(image.Pt(r.X, r.Y), img, window)
	br := coords.ImageToWindow(image.Pt(r.X+r.Width, r.Y+r.Height), img, window)
	p1 := coords.ToNDC(tl, window)
	p2 := coords.ToNDC(br, window)
	t1 := coords.NDCToTex(p1)
	t2 := coords.NDCToTex(p2)

	v := func(x, y, u, w float64) Vertex {
		return Vertex{Position: coords.Vec2{X: x, Y: y}, Tex: coords.Vec2{X: u, Y: w}}
	}
	return Quad{
		v(p1.X, p1.Y, t1.X, t1.Y),
		v(p1.X, p2.Y, t1.X, t2.Y),
		v(p2.X, p1.Y, t2.X, t1.Y),

		v(p2.X, p1.Y, t2.X, t1.Y),
		v(p1.X, p2.Y, t1.X, t2.Y),
		v(p2.X, p2.Y, t2.X, t2.Y),
	}
}

// Frame is what a backend draws in one refresh.
type Frame struct {
	Size  coords.Size
	Image coords.Size
	Layer Layer
}

// DrawFunc draws one frame. It reports surface problems with
// errs.ErrSurfaceLost, errs.ErrSurfaceOutdated or errs.ErrOutOfMemory.
type DrawFunc func(Frame) error

// Renderer owns the surface configuration and the selection layer. It is
// used from the backend's single render goroutine only.
type Renderer struct {
	image      coords.Size
	size       coords.Size
	window     coords.Size
	layer      Layer
	configured int
}

func NewRenderer(img, window coords.Size) *Renderer {
	if window.Empty() {
		window = img
	}
	r := &Renderer{image: img, window: window, layer: NoSelection{}}
	r.configure(window)
	return r
}

// Size is the current surface configuration.
func (r *Renderer) Size() coords.Size { return r.size }

// Window is the last non-empty window size reported through Resize.
func (r *Renderer) Window() coords.Size { return r.window }

func (r *Renderer) Image() coords.Size { return r.image }

func (r *Renderer) Layer() Layer { return r.layer }

// Configurations counts surface (re)configurations.
func (r *Renderer) Configurations() int { return r.configured }

// Resize reconfigures the surface for a new window size. Zero-area sizes
// show up during window manager transitions and are ignored.
func (r *Renderer) Resize(s coords.Size) bool {
	if s.Empty() {
		return false
	}
	r.window = s
	if s == r.size {
		return false
	}
	r.configure(s)
	return true
}

// SetSelection switches the layer. ok=false clears it.
func (r *Renderer) SetSelection(rect selection.Rect, ok bool) {
	if !ok {
		r.layer = NoSelection{}
		return
	}
	r.layer = ActiveSelection{Rect: rect, Quad: BuildQuad(rect, r.size, r.image)}
}

func (r *Renderer) configure(s coords.Size) {
	r.size = s
	r.configured++
	if a, ok := r.layer.(ActiveSelection); ok {
		r.layer = ActiveSelection{Rect: a.Rect, Quad: BuildQuad(a.Rect, s, r.image)}
	}
}

// RenderFrame draws one frame and applies the recovery policy: a lost
// surface is reconfigured at its current size, an outdated one at the
// window size, out of memory is returned as fatal, and anything else is
// logged and the frame dropped.
func (r *Renderer) RenderFrame(draw DrawFunc) error {
	err := draw(Frame{Size: r.size, Image: r.image, Layer: r.layer})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrSurfaceLost):
		r.configure(r.size)
		return nil
	case errors.Is(err, errs.ErrSurfaceOutdated):
		r.configure(r.window)
		return nil
	case errors.Is(err, errs.ErrOutOfMemory):
		return err
	default:
		log.Printf("overlay: dropped frame: %v", err)
		return nil
	}
}
