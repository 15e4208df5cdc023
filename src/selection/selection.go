// Package selection turns pointer events into a crop rectangle.
//
// The machine runs Idle → Dragging → Closed on a completed drag, and
// Idle|Dragging → Consumed on cancel. Both Closed and Consumed are terminal:
// the session crops and exits. Cancelling mid-drag discards the open
// rectangle and crops the full image, the same as cancelling with no drag.
//
// All positions are in source-image pixels so a window resize cannot
// move an in-progress rectangle.
package selection

import (
	"fmt"
	"image"
)

type State int

const (
	Idle State = iota
	Dragging
	Closed
	Consumed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Closed:
		return "closed"
	case Consumed:
		return "consumed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the session should crop and end.
func (s State) Terminal() bool { return s == Closed || s == Consumed }

// Rect is a drag rectangle with non-negative size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Normalize builds the rectangle spanned by two corners in either order.
func Normalize(a, b image.Point) Rect {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Result is the final crop rectangle in source-image pixels.
type Result struct {
	Rect
	// FullImage is set when no usable drag happened.
	FullImage bool
}

// Machine tracks one interactive selection.
type Machine struct {
	state  State
	anchor image.Point
	end    image.Point
	cursor image.Point
}

func NewMachine() *Machine { return &Machine{} }

func (m *Machine) State() State { return m.state }

// Cursor returns the last pointer position seen.
func (m *Machine) Cursor() image.Point { return m.cursor }

// Press starts a drag at p. Ignored outside Idle.
func (m *Machine) Press(p image.Point) bool {
	m.cursor = p
	if m.state != Idle {
		return false
	}
	m.anchor, m.end = p, p
	m.state = Dragging
	return true
}

// Move tracks the pointer. It returns true when the visible rectangle
// changed and a redraw is due.
func (m *Machine) Move(p image.Point) bool {
	m.cursor = p
	if m.state != Dragging || m.end == p {
		return false
	}
	m.end = p
	return true
}

// Release closes the drag at p. Ignored outside Dragging.
func (m *Machine) Release(p image.Point) bool {
	m.cursor = p
	if m.state != Dragging {
		return false
	}
	m.end = p
	m.state = Closed
	return true
}

// Cancel ends the session with a full-image crop. Ignored once terminal.
func (m *Machine) Cancel() bool {
	if m.state.Terminal() {
		return false
	}
	m.state = Consumed
	return true
}

// Rect returns the live or closed rectangle. ok is false when there is
// nothing to draw.
func (m *Machine) Rect() (Rect, bool) {
	if m.state != Dragging && m.state != Closed {
		return Rect{}, false
	}
	return Normalize(m.anchor, m.end), true
}

// Result clamps the closed rectangle to a width×height image. It falls back
// to the full image when the drag was cancelled or never happened.
func (m *Machine) Result(width, height int) Result {
	if m.state != Closed {
		return Full(width, height)
	}
	return Clamp(Normalize(m.anchor, m.end), width, height)
}

// Full selects the whole width×height image.
func Full(width, height int) Result {
	return Result{Rect: Rect{Width: width, Height: height}, FullImage: true}
}

// Clamp intersects r with a width×height image, falling back to the full
// image when nothing is left.
func Clamp(r Rect, width, height int) Result {
	clamped := r.Rectangle().Intersect(image.Rect(0, 0, width, height))
	if clamped.Empty() {
		return Full(width, height)
	}
	return Result{Rect: Rect{X: clamped.Min.X, Y: clamped.Min.Y, Width: clamped.Dx(), Height: clamped.Dy()}}
}
