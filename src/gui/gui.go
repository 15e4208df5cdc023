// Package gui is the ebiten backend of the crop preview: one borderless
// fullscreen window per session, placed on the monitor the frame came from.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"screen-snip/src/coords"
	"screen-snip/src/errs"
	"screen-snip/src/overlay"
	"screen-snip/src/screenshot"
	"screen-snip/src/selection"
)

type Options struct {
	// Origin is the captured monitor's top-left in virtual desktop space.
	Origin image.Point
	// Current is the top-left, in virtual desktop space, of the monitor the
	// window opens on before placement. Used only when the captured monitor
	// cannot be picked by size.
	Current image.Point
	// Dim is how much the area outside the selection is darkened, 0..1.
	Dim       float64
	CancelKey string
	Title     string
}

// Selector shows a frame fullscreen and lets the user drag a rectangle.
type Selector struct {
	frame *screenshot.Frame
	opts  Options
}

func NewSelector(frame *screenshot.Frame, opts Options) *Selector {
	if opts.Title == "" {
		opts.Title = "screen-snip"
	}
	return &Selector{frame: frame, opts: opts}
}

var _ overlay.Selector = (*Selector)(nil)

// Select runs the window loop on the calling goroutine, which must be the
// main one. Cancelling ctx cancels the selection.
func (s *Selector) Select(ctx context.Context) (selection.Result, error) {
	g := newGame(s.frame, s.opts)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			g.interrupt.Store(true)
		case <-stop:
		}
	}()

	ebiten.SetWindowTitle(s.opts.Title)
	ebiten.SetWindowDecorated(false)
	place(s.opts.Origin, s.opts.Current, coords.Size{Width: s.frame.Width, Height: s.frame.Height})
	ebiten.SetWindowSize(s.frame.Width, s.frame.Height)
	ebiten.SetFullscreen(true)
	ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	ebiten.SetWindowClosingHandled(true)

	log.Printf("Preview: %dx%d at %v", s.frame.Width, s.frame.Height, s.opts.Origin)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return selection.Result{}, err
	}
	res := g.machine.Result(s.frame.Width, s.frame.Height)
	log.Printf("Preview closed: state=%s rect=%+v full=%v", g.machine.State(), res.Rect, res.FullImage)
	return res, nil
}

// input is one Update's worth of pointer and keyboard events, in window
// pixels.
type input struct {
	cursor   image.Point
	pressed  bool
	released bool
	cancel   bool
}

type game struct {
	frame     *screenshot.Frame
	base      *ebiten.Image
	machine   *selection.Machine
	renderer  *overlay.Renderer
	dim       float32
	cancelKey ebiten.Key
	interrupt atomic.Bool
	fatal     error
}

func newGame(frame *screenshot.Frame, opts Options) *game {
	img := coords.Size{Width: frame.Width, Height: frame.Height}
	dim := opts.Dim
	if dim < 0 || dim > 1 {
		dim = 0.55
	}
	return &game{
		frame:     frame,
		machine:   selection.NewMachine(),
		renderer:  overlay.NewRenderer(img, img),
		dim:       float32(1 - dim),
		cancelKey: parseCancelKey(opts.CancelKey),
	}
}

func parseCancelKey(name string) ebiten.Key {
	var k ebiten.Key
	if name == "" {
		return ebiten.KeyEscape
	}
	if err := k.UnmarshalText([]byte(name)); err != nil {
		log.Printf("Unknown cancel key %q, using Escape", name)
		return ebiten.KeyEscape
	}
	return k
}

// apply feeds one batch of events to the state machine and refreshes the
// renderer's layer. It reports whether the session is over.
func (g *game) apply(in input) bool {
	if in.cancel {
		g.machine.Cancel()
	} else {
		p := coords.WindowToImage(in.cursor, g.renderer.Window(), g.renderer.Image())
		g.machine.Move(p)
		if in.pressed {
			g.machine.Press(p)
		}
		if in.released {
			g.machine.Release(p)
		}
	}
	g.renderer.SetSelection(g.machine.Rect())
	return g.machine.State().Terminal()
}

func (g *game) poll() input {
	x, y := ebiten.CursorPosition()
	return input{
		cursor:   image.Pt(x, y),
		pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		cancel: inpututil.IsKeyJustPressed(g.cancelKey) ||
			ebiten.IsWindowBeingClosed() ||
			g.interrupt.Load(),
	}
}

func (g *game) Update() error {
	if g.fatal != nil {
		return g.fatal
	}
	if g.apply(g.poll()) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.fatal != nil {
		return
	}
	if err := g.renderer.RenderFrame(func(f overlay.Frame) error {
		return g.drawFrame(screen, f)
	}); err != nil {
		g.fatal = err
	}
}

// drawFrame only ever fails with ErrSurfaceOutdated: ebiten recovers lost
// contexts itself and never reports surface loss or out of memory, so the
// renderer's other error branches are not reached from this backend.
func (g *game) drawFrame(screen *ebiten.Image, f overlay.Frame) error {
	b := screen.Bounds()
	if b.Dx() != f.Size.Width || b.Dy() != f.Size.Height {
		return fmt.Errorf("screen %dx%d, configured %dx%d: %w",
			b.Dx(), b.Dy(), f.Size.Width, f.Size.Height, errs.ErrSurfaceOutdated)
	}
	if g.base == nil {
		g.base = ebiten.NewImageFromImage(g.frame.RGBA())
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(f.Size.Width)/float64(f.Image.Width), float64(f.Size.Height)/float64(f.Image.Height))
	op.ColorScale.Scale(g.dim, g.dim, g.dim, 1)
	screen.DrawImage(g.base, op)

	active, ok := f.Layer.(overlay.ActiveSelection)
	if !ok {
		return nil
	}
	vs, bounds := triangles(active.Quad, f.Size, f.Image)
	screen.DrawTriangles(vs, []uint16{0, 1, 2, 3, 4, 5}, g.base, nil)
	vector.StrokeRect(screen,
		float32(bounds.Min.X), float32(bounds.Min.Y),
		float32(bounds.Dx()), float32(bounds.Dy()),
		1, color.White, false)
	return nil
}

// triangles converts the quad to screen vertices sampling the base image
// and returns their pixel bounding box.
func triangles(q overlay.Quad, window, img coords.Size) ([]ebiten.Vertex, image.Rectangle) {
	vs := make([]ebiten.Vertex, len(q))
	var bounds image.Rectangle
	for i, v := range q {
		dst := coords.NDCToPixel(v.Position, window)
		src := coords.TexToPixel(v.Tex, img)
		vs[i] = ebiten.Vertex{
			DstX: float32(dst.X), DstY: float32(dst.Y),
			SrcX: float32(src.X), SrcY: float32(src.Y),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
		p := image.Pt(int(dst.X+0.5), int(dst.Y+0.5))
		if i == 0 {
			bounds = image.Rectangle{Min: p, Max: p}
			continue
		}
		bounds.Min.X = min(bounds.Min.X, p.X)
		bounds.Min.Y = min(bounds.Min.Y, p.Y)
		bounds.Max.X = max(bounds.Max.X, p.X)
		bounds.Max.Y = max(bounds.Max.Y, p.Y)
	}
	return vs, bounds
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	size := coords.Size{
		Width:  int(float64(outsideWidth) * scale),
		Height: int(float64(outsideHeight) * scale),
	}
	if !g.renderer.Resize(size) && size.Empty() {
		w := g.renderer.Window()
		return w.Width, w.Height
	}
	return size.Width, size.Height
}
