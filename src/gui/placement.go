package gui

import (
	"image"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"screen-snip/src/coords"
)

// display is what placement needs to know about one ebiten monitor. Width and
// Height are device-independent pixels.
type display struct {
	Width  int
	Height int
	Scale  float64
}

func (s display) physical() coords.Size {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return coords.Size{
		Width:  int(math.Round(float64(s.Width) * scale)),
		Height: int(math.Round(float64(s.Height) * scale)),
	}
}

// matchDisplay returns the index of the only display whose physical size is
// size, or -1 when none or several match.
func matchDisplay(displays []display, size coords.Size) int {
	found := -1
	for i, s := range displays {
		if s.physical() != size {
			continue
		}
		if found >= 0 {
			return -1
		}
		found = i
	}
	return found
}

// windowPosition converts origin, in physical virtual-desktop pixels, to the
// device-independent position ebiten expects relative to the monitor whose
// top-left is current.
func windowPosition(origin, current image.Point, scale float64) image.Point {
	if scale <= 0 {
		scale = 1
	}
	d := origin.Sub(current)
	return image.Pt(
		int(math.Round(float64(d.X)/scale)),
		int(math.Round(float64(d.Y)/scale)),
	)
}

// place moves the window onto the monitor the frame was captured from.
// ebiten monitors carry no desktop position, so a unique size match wins and
// the origin is translated by hand otherwise.
func place(origin, current image.Point, size coords.Size) {
	monitors := ebiten.AppendMonitors(nil)
	displays := make([]display, len(monitors))
	for i, m := range monitors {
		w, h := m.Size()
		displays[i] = display{Width: w, Height: h, Scale: m.DeviceScaleFactor()}
	}
	if i := matchDisplay(displays, size); i >= 0 {
		log.Printf("Preview: using monitor %q", monitors[i].Name())
		ebiten.SetMonitor(monitors[i])
		ebiten.SetWindowPosition(0, 0)
		return
	}

	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	p := windowPosition(origin, current, scale)
	log.Printf("Preview: no unique monitor of %dx%d, positioning at %v", size.Width, size.Height, p)
	ebiten.SetWindowPosition(p.X, p.Y)
}
