package hotkey

import (
	"context"
	"errors"
	"log"

	gohook "github.com/robotn/gohook"
)

// Listen starts the global keyboard hook and calls callback on every rising
// edge of the tracker's chord. It returns once the hook is running; the hook
// stops when ctx is cancelled.
func Listen(ctx context.Context, tracker *Tracker, callback func()) error {
	if tracker == nil || len(tracker.Chord()) == 0 {
		return errors.New("hotkey: no chord configured")
	}
	log.Printf("Hotkey listener configured for: %s", tracker.Chord())

	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("hotkey: gohook.Start() returned nil channel")
	}

	go func() {
		<-ctx.Done()
		gohook.End()
	}()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			code, pressed, ok := keyEvent(ev)
			if !ok {
				continue
			}
			if tracker.Feed(code, pressed) {
				log.Printf("HOTKEY COMBINATION DETECTED! %s", tracker.Chord())
				invoke(callback)
			}
		}
		log.Printf("Event channel closed")
	}()
	return nil
}

// keyEvent extracts the key code and direction. KeyHold is what libuiohook
// reports for a physical press (repeated while held) and KeyDown for a typed
// character; both count as a press since the tracker ignores repeats.
func keyEvent(ev gohook.Event) (uint16, bool, bool) {
	if ev.Keycode == 0 {
		return 0, false, false
	}
	switch ev.Kind {
	case gohook.KeyDown, gohook.KeyHold:
		return ev.Keycode, true, true
	case gohook.KeyUp:
		return ev.Keycode, false, true
	default:
		return 0, false, false
	}
}

// invoke runs the callback so a panic inside it does not stop the listener.
func invoke(callback func()) {
	if callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey callback: %v", r)
		}
	}()
	callback()
}
