package overlay

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-snip/src/coords"
	"screen-snip/src/errs"
	"screen-snip/src/selection"
)

var fullHD = coords.Size{Width: 1920, Height: 1080}

func TestBuildQuadCorners(t *testing.T) {
	q := BuildQuad(selection.Rect{Width: 1920, Height: 1080}, fullHD, fullHD)

	assert.Equal(t, coords.Vec2{X: -1, Y: 1}, q[0].Position)
	assert.Equal(t, coords.Vec2{X: 0, Y: 0}, q[0].Tex)
	assert.Equal(t, coords.Vec2{X: 1, Y: -1}, q[5].Position)
	assert.Equal(t, coords.Vec2{X: 1, Y: 1}, q[5].Tex)
	assert.Equal(t, q[2], q[3])
	assert.Equal(t, q[1], q[4])
}

func TestBuildQuadTexMatchesImagePixels(t *testing.T) {
	r := selection.Rect{X: 480, Y: 270, Width: 960, Height: 540}
	// Window at half resolution: texture coords stay in image proportions.
	q := BuildQuad(r, coords.Size{Width: 960, Height: 540}, fullHD)

	tl := coords.TexToPixel(q[0].Tex, fullHD)
	br := coords.TexToPixel(q[5].Tex, fullHD)
	assert.InDelta(t, 480, tl.X, 1e-9)
	assert.InDelta(t, 270, tl.Y, 1e-9)
	assert.InDelta(t, 1440, br.X, 1e-9)
	assert.InDelta(t, 810, br.Y, 1e-9)
}

func TestResizeIgnoresZeroArea(t *testing.T) {
	r := NewRenderer(fullHD, fullHD)
	before := r.Configurations()

	assert.False(t, r.Resize(coords.Size{Width: 0, Height: 1080}))
	assert.False(t, r.Resize(coords.Size{}))
	assert.Equal(t, fullHD, r.Size())
	assert.Equal(t, before, r.Configurations())

	assert.True(t, r.Resize(coords.Size{Width: 1280, Height: 720}))
	assert.Equal(t, coords.Size{Width: 1280, Height: 720}, r.Size())
}

func TestLayerVariantSwitch(t *testing.T) {
	r := NewRenderer(fullHD, fullHD)
	assert.IsType(t, NoSelection{}, r.Layer())

	rect := selection.Rect{X: 10, Y: 20, Width: 100, Height: 50}
	r.SetSelection(rect, true)
	active, ok := r.Layer().(ActiveSelection)
	require.True(t, ok)
	assert.Equal(t, rect, active.Rect)

	r.SetSelection(selection.Rect{}, false)
	assert.IsType(t, NoSelection{}, r.Layer())
}

func TestResizeKeepsSelectionInImageSpace(t *testing.T) {
	r := NewRenderer(fullHD, fullHD)
	rect := selection.Rect{X: 100, Y: 100, Width: 200, Height: 300}
	r.SetSelection(rect, true)

	resized := coords.Size{Width: 1280, Height: 1024}
	r.Resize(resized)
	active := r.Layer().(ActiveSelection)

	assert.Equal(t, rect, active.Rect)
	assert.Equal(t, BuildQuad(rect, resized, fullHD), active.Quad)
}

func TestRenderFrameRecovery(t *testing.T) {
	r := NewRenderer(fullHD, fullHD)
	r.Resize(coords.Size{Width: 1280, Height: 720})

	var seen []coords.Size
	fail := func(err error) DrawFunc {
		return func(f Frame) error {
			seen = append(seen, f.Size)
			return err
		}
	}

	n := r.Configurations()
	require.NoError(t, r.RenderFrame(fail(nil)))
	assert.Equal(t, n, r.Configurations())

	require.NoError(t, r.RenderFrame(fail(fmt.Errorf("acquire: %w", errs.ErrSurfaceLost))))
	assert.Equal(t, n+1, r.Configurations())
	assert.Equal(t, coords.Size{Width: 1280, Height: 720}, r.Size())

	require.NoError(t, r.RenderFrame(fail(errs.ErrSurfaceOutdated)))
	assert.Equal(t, n+2, r.Configurations())

	require.NoError(t, r.RenderFrame(fail(errors.New("timeout"))))
	assert.Equal(t, n+2, r.Configurations())

	err := r.RenderFrame(fail(errs.ErrOutOfMemory))
	assert.ErrorIs(t, err, errs.ErrOutOfMemory)
	assert.Len(t, seen, 5)
}

func TestOutdatedReconfiguresToWindow(t *testing.T) {
	r := NewRenderer(fullHD, fullHD)
	r.size = coords.Size{Width: 800, Height: 600} // stale configuration
	require.NoError(t, r.RenderFrame(func(Frame) error { return errs.ErrSurfaceOutdated }))
	assert.Equal(t, fullHD, r.Size())
}
