// Package monitor resolves the cursor position to a display.
package monitor

import (
	"fmt"
	"image"

	"screen-snip/src/errs"
)

// Geometry is the axis-aligned bounding box of one monitor in virtual
// screen pixels.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FromRect converts an image.Rectangle as reported by the capture backend.
func FromRect(r image.Rectangle) Geometry {
	return Geometry{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (g Geometry) Origin() image.Point { return image.Pt(g.X, g.Y) }

// Contains is inclusive on all four edges, so a point on a shared edge
// belongs to both neighbours and Resolve's ordering decides.
func (g Geometry) Contains(p image.Point) bool {
	return p.X >= g.X && p.X <= g.X+g.Width &&
		p.Y >= g.Y && p.Y <= g.Y+g.Height
}

// Resolve returns the index of the first monitor in enumeration order that
// contains p. ok is false when the point is outside every monitor, which
// happens transiently while the display topology changes.
func Resolve(p image.Point, monitors []Geometry) (index int, ok bool) {
	for i, m := range monitors {
		if m.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// Topology enumerates the connected monitors.
type Topology interface {
	Monitors() ([]Geometry, error)
}

// Pointer reports the current cursor position in virtual screen pixels.
type Pointer interface {
	Position() (image.Point, error)
}

// Target is the monitor picked for a capture.
type Target struct {
	Index    int
	Geometry Geometry
	Cursor   image.Point
}

// Locate queries the cursor and the topology and resolves the monitor under
// the cursor. Query failures wrap errs.ErrInputUnavailable and a miss wraps
// errs.ErrNoMonitorAtPoint.
func Locate(pointer Pointer, topology Topology) (Target, error) {
	pos, err := pointer.Position()
	if err != nil {
		return Target{}, fmt.Errorf("query cursor: %v: %w", err, errs.ErrInputUnavailable)
	}
	monitors, err := topology.Monitors()
	if err != nil {
		return Target{}, fmt.Errorf("enumerate monitors: %v: %w", err, errs.ErrInputUnavailable)
	}
	idx, ok := Resolve(pos, monitors)
	if !ok {
		return Target{}, fmt.Errorf("cursor at %v over %d monitors: %w", pos, len(monitors), errs.ErrNoMonitorAtPoint)
	}
	return Target{Index: idx, Geometry: monitors[idx], Cursor: pos}, nil
}
