// Package tray shows the resident's status icon with Capture now / Quit.
package tray

import (
	"log"
	"sync/atomic"

	"github.com/getlantern/systray"
)

const title = "screen-snip"

// Menu exposes the clicks of the tray items.
type Menu struct {
	Capture <-chan struct{}
	Quit    <-chan struct{}
}

var ready atomic.Bool

// Run blocks on the calling goroutine, which must be the main one, until
// Quit is called. onReady runs once the icon is shown.
func Run(tooltip string, onReady func(*Menu), onExit func()) {
	systray.Run(func() {
		systray.SetIcon(Icon())
		systray.SetTitle(title)
		systray.SetTooltip(tooltip)

		capture := systray.AddMenuItem("Capture now", "Capture the monitor under the cursor")
		systray.AddSeparator()
		quit := systray.AddMenuItem("Quit", "Stop the screen-snip listener")

		ready.Store(true)
		log.Printf("Tray ready")
		if onReady != nil {
			onReady(&Menu{Capture: capture.ClickedCh, Quit: quit.ClickedCh})
		}
	}, func() {
		ready.Store(false)
		if onExit != nil {
			onExit()
		}
	})
}

// UpdateTooltip is a no-op until the tray is running.
func UpdateTooltip(text string) {
	if !ready.Load() {
		return
	}
	systray.SetTooltip(text)
}

func Quit() {
	systray.Quit()
}
