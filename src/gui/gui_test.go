package gui

import (
	"context"
	"image"
	"os"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-snip/src/coords"
	"screen-snip/src/overlay"
	"screen-snip/src/screenshot"
	"screen-snip/src/selection"
)

func blankFrame(w, h int) *screenshot.Frame {
	return &screenshot.Frame{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

func TestParseCancelKey(t *testing.T) {
	tests := []struct {
		name string
		want ebiten.Key
	}{
		{"", ebiten.KeyEscape},
		{"Escape", ebiten.KeyEscape},
		{"Q", ebiten.KeyQ},
		{"definitely-not-a-key", ebiten.KeyEscape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCancelKey(tt.name))
		})
	}
}

func TestApplyDragLifecycle(t *testing.T) {
	g := newGame(blankFrame(800, 600), Options{})

	assert.False(t, g.apply(input{cursor: image.Pt(50, 80), pressed: true}))
	assert.Equal(t, selection.Dragging, g.machine.State())

	assert.False(t, g.apply(input{cursor: image.Pt(10, 20)}))
	active, ok := g.renderer.Layer().(overlay.ActiveSelection)
	require.True(t, ok)
	assert.Equal(t, selection.Rect{X: 10, Y: 20, Width: 40, Height: 60}, active.Rect)

	assert.True(t, g.apply(input{cursor: image.Pt(10, 20), released: true}))
	res := g.machine.Result(800, 600)
	assert.False(t, res.FullImage)
	assert.Equal(t, selection.Rect{X: 10, Y: 20, Width: 40, Height: 60}, res.Rect)
}

func TestApplyScalesCursorToImage(t *testing.T) {
	g := newGame(blankFrame(1920, 1080), Options{})
	g.renderer.Resize(coords.Size{Width: 960, Height: 540})

	g.apply(input{cursor: image.Pt(100, 100), pressed: true})
	g.apply(input{cursor: image.Pt(200, 150), released: true})

	res := g.machine.Result(1920, 1080)
	assert.Equal(t, selection.Rect{X: 200, Y: 200, Width: 200, Height: 100}, res.Rect)
}

func TestApplyCancel(t *testing.T) {
	g := newGame(blankFrame(800, 600), Options{})
	g.apply(input{cursor: image.Pt(10, 10), pressed: true})
	g.apply(input{cursor: image.Pt(90, 90)})

	assert.True(t, g.apply(input{cancel: true}))
	assert.IsType(t, overlay.NoSelection{}, g.renderer.Layer())
	assert.True(t, g.machine.Result(800, 600).FullImage)
}

func TestApplyIdleHasNoLayer(t *testing.T) {
	g := newGame(blankFrame(800, 600), Options{})
	assert.False(t, g.apply(input{cursor: image.Pt(400, 300)}))
	assert.IsType(t, overlay.NoSelection{}, g.renderer.Layer())
}

func TestTrianglesCoverSelection(t *testing.T) {
	img := coords.Size{Width: 800, Height: 600}
	rect := selection.Rect{X: 100, Y: 100, Width: 200, Height: 300}

	q := overlay.BuildQuad(rect, img, img)
	vs, bounds := triangles(q, img, img)
	require.Len(t, vs, 6)
	assert.Equal(t, image.Rect(100, 100, 300, 400), bounds)
	for _, v := range vs {
		// Same size window: destination and source pixels coincide.
		assert.InDelta(t, v.DstX, v.SrcX, 1e-3)
		assert.InDelta(t, v.DstY, v.SrcY, 1e-3)
	}
}

func TestTrianglesScaledWindow(t *testing.T) {
	img := coords.Size{Width: 1920, Height: 1080}
	window := coords.Size{Width: 960, Height: 540}
	rect := selection.Rect{X: 200, Y: 200, Width: 200, Height: 100}

	_, bounds := triangles(overlay.BuildQuad(rect, window, img), window, img)
	assert.Equal(t, image.Rect(100, 100, 200, 150), bounds)
}

func TestNewGameDimRange(t *testing.T) {
	assert.InDelta(t, 0.45, newGame(blankFrame(1, 1), Options{Dim: 3}).dim, 1e-6)
	assert.InDelta(t, 0.75, newGame(blankFrame(1, 1), Options{Dim: 0.25}).dim, 1e-6)
}

func TestSelectInteractive(t *testing.T) {
	if os.Getenv("SCREEN_SNIP_INTERACTIVE_TESTS") != "1" {
		t.Skip("set SCREEN_SNIP_INTERACTIVE_TESTS=1 to run the interactive preview test")
	}
	res, err := NewSelector(blankFrame(640, 480), Options{}).Select(context.Background())
	require.NoError(t, err)
	t.Logf("selection: %+v", res)
}
