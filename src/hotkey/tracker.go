package hotkey

import "sync"

// PressedKeySet holds the keys that are currently down, in press order.
type PressedKeySet struct {
	keys []uint16
}

// Add appends code unless it is already present. It reports whether the set changed.
func (s *PressedKeySet) Add(code uint16) bool {
	if s.Contains(code) {
		return false
	}
	s.keys = append(s.keys, code)
	return true
}

// Remove drops code wherever it sits. It reports whether the set changed.
func (s *PressedKeySet) Remove(code uint16) bool {
	for i, k := range s.keys {
		if k == code {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return true
		}
	}
	return false
}

func (s *PressedKeySet) Contains(code uint16) bool {
	for _, k := range s.keys {
		if k == code {
			return true
		}
	}
	return false
}

// Keys returns a copy of the set in press order.
func (s *PressedKeySet) Keys() []uint16 {
	out := make([]uint16, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *PressedKeySet) Len() int { return len(s.keys) }

// StartsWith reports whether the first len(chord) pressed keys match chord
// position by position.
func (s *PressedKeySet) StartsWith(chord Chord) bool {
	if len(chord) == 0 || len(s.keys) < len(chord) {
		return false
	}
	for i, k := range chord {
		if !k.Matches(s.keys[i]) {
			return false
		}
	}
	return true
}

// Tracker accumulates key state and detects the rising edge of a chord.
// It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	pressed PressedKeySet
	chord   Chord
	active  bool
}

func NewTracker(chord Chord) *Tracker {
	return &Tracker{chord: chord}
}

// OnKeyEvent records a press or release. Repeated presses and releases of
// keys that are not down leave the state alone and return false.
func (t *Tracker) OnKeyEvent(code uint16, pressed bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.onKeyEvent(code, pressed)
}

func (t *Tracker) onKeyEvent(code uint16, pressed bool) bool {
	if pressed {
		return t.pressed.Add(code)
	}
	return t.pressed.Remove(code)
}

// IsChordActive reports whether the pressed keys begin with chord, in order.
func (t *Tracker) IsChordActive(chord Chord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed.StartsWith(chord)
}

// Feed records the event and returns true only when the configured chord
// goes from inactive to active. Key repeat and unrelated keys pressed while
// the chord is held never fire again.
func (t *Tracker) Feed(code uint16, pressed bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.onKeyEvent(code, pressed) {
		return false
	}
	active := t.pressed.StartsWith(t.chord)
	fired := active && !t.active
	t.active = active
	return fired
}

// SetChord replaces the configured chord. The edge is re-evaluated against
// the keys already down so a held chord does not fire on reload.
func (t *Tracker) SetChord(chord Chord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chord = chord
	t.active = t.pressed.StartsWith(chord)
}

func (t *Tracker) Chord() Chord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.chord
}

// Pressed returns the keys currently down, in press order.
func (t *Tracker) Pressed() []uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed.Keys()
}
