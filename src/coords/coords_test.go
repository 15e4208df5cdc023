package coords

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestToNDCCorners(t *testing.T) {
	win := Size{Width: 800, Height: 600}

	assert.Equal(t, Vec2{X: -1, Y: 1}, ToNDC(image.Pt(0, 0), win))
	assert.Equal(t, Vec2{X: 1, Y: -1}, ToNDC(image.Pt(800, 600), win))
	assert.Equal(t, Vec2{X: 0, Y: 0}, ToNDC(image.Pt(400, 300), win))
}

func TestNDCToTex(t *testing.T) {
	assert.Equal(t, Vec2{X: 0, Y: 0}, NDCToTex(Vec2{X: -1, Y: 1}))
	assert.Equal(t, Vec2{X: 1, Y: 1}, NDCToTex(Vec2{X: 1, Y: -1}))
	assert.Equal(t, Vec2{X: 0.5, Y: 0.5}, NDCToTex(Vec2{}))
}

func TestRoundTrip(t *testing.T) {
	win := Size{Width: 1920, Height: 1080}
	points := []image.Point{
		{0, 0},
		{win.Width, 0},
		{0, win.Height},
		{win.Width, win.Height},
		{win.Width / 2, win.Height / 2},
		{123, 457},
	}

	for _, p := range points {
		ndc := ToNDC(p, win)
		tex := NDCToTex(ndc)
		back := TexToPixel(tex, win)
		assert.InDelta(t, float64(p.X), back.X, eps, "x for %v", p)
		assert.InDelta(t, float64(p.Y), back.Y, eps, "y for %v", p)

		viaNDC := NDCToPixel(ndc, win)
		assert.InDelta(t, float64(p.X), viaNDC.X, eps, "ndc x for %v", p)
		assert.InDelta(t, float64(p.Y), viaNDC.Y, eps, "ndc y for %v", p)
	}
}

func TestWindowToImage(t *testing.T) {
	img := Size{Width: 2560, Height: 1440}

	assert.Equal(t, image.Pt(10, 20), WindowToImage(image.Pt(10, 20), img, img))
	assert.Equal(t, image.Pt(200, 400), WindowToImage(image.Pt(100, 200), Size{1280, 720}, img))
	assert.Equal(t, image.Pt(100, 200), ImageToWindow(image.Pt(200, 400), img, Size{1280, 720}))
	assert.Equal(t, image.Pt(5, 5), WindowToImage(image.Pt(5, 5), Size{}, img))
}
