package selection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIsDirectionIndependent(t *testing.T) {
	want := Rect{X: 10, Y: 20, Width: 40, Height: 60}
	assert.Equal(t, want, Normalize(image.Pt(50, 80), image.Pt(10, 20)))
	assert.Equal(t, want, Normalize(image.Pt(10, 20), image.Pt(50, 80)))
	assert.Equal(t, want, Normalize(image.Pt(10, 80), image.Pt(50, 20)))
	assert.Equal(t, want, Normalize(image.Pt(50, 20), image.Pt(10, 80)))
}

func TestDragLifecycle(t *testing.T) {
	m := NewMachine()
	_, ok := m.Rect()
	assert.False(t, ok)

	assert.False(t, m.Move(image.Pt(5, 5)))
	assert.True(t, m.Press(image.Pt(100, 100)))
	assert.Equal(t, Dragging, m.State())

	assert.True(t, m.Move(image.Pt(200, 250)))
	assert.False(t, m.Move(image.Pt(200, 250)))
	r, ok := m.Rect()
	assert.True(t, ok)
	assert.Equal(t, Rect{X: 100, Y: 100, Width: 100, Height: 150}, r)

	assert.False(t, m.Press(image.Pt(0, 0)))
	assert.True(t, m.Release(image.Pt(300, 400)))
	assert.Equal(t, Closed, m.State())
	assert.True(t, m.State().Terminal())

	res := m.Result(800, 600)
	assert.False(t, res.FullImage)
	assert.Equal(t, Rect{X: 100, Y: 100, Width: 200, Height: 300}, res.Rect)

	assert.False(t, m.Cancel())
	assert.Equal(t, Closed, m.State())
}

func TestCancelWithoutDragIsFullImage(t *testing.T) {
	m := NewMachine()
	assert.True(t, m.Cancel())
	assert.Equal(t, Consumed, m.State())
	res := m.Result(800, 600)
	assert.True(t, res.FullImage)
	assert.Equal(t, Rect{Width: 800, Height: 600}, res.Rect)
}

func TestCancelMidDragIsFullImage(t *testing.T) {
	m := NewMachine()
	m.Press(image.Pt(10, 10))
	m.Move(image.Pt(50, 50))
	assert.True(t, m.Cancel())
	res := m.Result(640, 480)
	assert.True(t, res.FullImage)
	assert.Equal(t, Rect{Width: 640, Height: 480}, res.Rect)
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.Release(image.Pt(1, 1)))
	assert.Equal(t, Idle, m.State())
}

func TestResultClampsToImage(t *testing.T) {
	m := NewMachine()
	m.Press(image.Pt(-20, 500))
	m.Release(image.Pt(100, 700))
	res := m.Result(800, 600)
	assert.Equal(t, Rect{X: 0, Y: 500, Width: 100, Height: 100}, res.Rect)
	assert.False(t, res.FullImage)
}

func TestZeroAreaDragFallsBackToFullImage(t *testing.T) {
	m := NewMachine()
	m.Press(image.Pt(40, 40))
	m.Release(image.Pt(40, 90))
	res := m.Result(100, 100)
	assert.True(t, res.FullImage)

	m = NewMachine()
	m.Press(image.Pt(900, 900))
	m.Release(image.Pt(950, 950))
	assert.True(t, m.Result(100, 100).FullImage)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Result
	}{
		{"inside", Rect{X: 10, Y: 10, Width: 20, Height: 20}, Result{Rect: Rect{X: 10, Y: 10, Width: 20, Height: 20}}},
		{"overhang", Rect{X: 90, Y: -5, Width: 20, Height: 20}, Result{Rect: Rect{X: 90, Y: 0, Width: 10, Height: 15}}},
		{"outside", Rect{X: 200, Y: 200, Width: 5, Height: 5}, Full(100, 100)},
		{"zero area", Rect{X: 10, Y: 10}, Full(100, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.in, 100, 100))
		})
	}
}
