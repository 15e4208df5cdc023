package monitor

import (
	"errors"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// DisplayTopology enumerates monitors through kbinani/screenshot. Its
// indices are the ones screenshot.CaptureDisplay accepts.
type DisplayTopology struct{}

func (DisplayTopology) Monitors() ([]Geometry, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errors.New("no active displays found")
	}
	monitors := make([]Geometry, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, FromRect(screenshot.GetDisplayBounds(i)))
	}
	return monitors, nil
}

// RobotPointer reads the cursor position through robotgo.
type RobotPointer struct{}

func (RobotPointer) Position() (image.Point, error) {
	x, y := robotgo.GetMousePos()
	return image.Pt(x, y), nil
}
