package hotkey

import (
	"testing"

	gohook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keySuper  uint16 = 0x0E5B
	keyShift  uint16 = 0x002A
	keyRShift uint16 = 0x0036
	keyS      uint16 = 0x001F
	keyA      uint16 = 0x001E
)

func mustChord(t *testing.T, s string) Chord {
	t.Helper()
	c, err := ParseChord(s)
	require.NoError(t, err)
	return c
}

func TestKeyNameToKeycodes(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{0x1D, 0x0E1D}},
		{"alt", []uint16{0x38, 0x0E38}},
		{"shift", []uint16{0x2A, 0x36}},
		{"super", []uint16{0x0E5B, 0x0E5C}},
		{"s", []uint16{31}},
		{"q", []uint16{0x10}},
		{"f", []uint16{0x21}},
		{"1", []uint16{0x02}},
		{"9", []uint16{0x0A}},
		{"0", []uint16{0x0B}},
		{"f1", []uint16{0x3B}},
		{"f10", []uint16{0x44}},
		{"f11", []uint16{0x57}},
		{"f12", []uint16{0x58}},
		{"esc", []uint16{0x01}},
		{"space", []uint16{0x39}},
		{"f13", nil},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			assert.Equal(t, tt.expected, keyNameToKeycodes(tt.keyName))
		})
	}
}

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Super+Shift+S", []string{"super", "shift", "s"}},
		{"Ctrl+Alt+Q", []string{"ctrl", "alt", "q"}},
		{"Win+Shift+S", []string{"super", "shift", "s"}},
		{"Cmd + Option + 4", []string{"super", "alt", "4"}},
		{"Control+Escape", []string{"ctrl", "esc"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseHotkey(tt.input))
		})
	}
}

func TestParseChordErrors(t *testing.T) {
	for _, in := range []string{"", "Ctrl+", "Ctrl+Hyper", "Shift+F99"} {
		_, err := ParseChord(in)
		assert.Error(t, err, "ParseChord(%q)", in)
	}
	c := mustChord(t, "super+shift+s")
	assert.Equal(t, "super+shift+s", c.String())
}

func TestPressedKeySetNoDuplicates(t *testing.T) {
	var s PressedKeySet
	assert.True(t, s.Add(keySuper))
	assert.False(t, s.Add(keySuper))
	assert.True(t, s.Add(keyShift))
	assert.Equal(t, []uint16{keySuper, keyShift}, s.Keys())

	assert.True(t, s.Remove(keySuper))
	assert.False(t, s.Remove(keySuper))
	assert.Equal(t, []uint16{keyShift}, s.Keys())
}

func TestTrackerOutOfOrderRelease(t *testing.T) {
	tr := NewTracker(mustChord(t, "Super+Shift+S"))
	events := []struct {
		code    uint16
		pressed bool
	}{
		{keyA, true},
		{keySuper, true},
		{keyS, true},
		{keySuper, true}, // repeat
		{keyA, false},
		{keyS, false},
		{keyShift, false}, // never pressed
		{keyShift, true},
	}
	for _, ev := range events {
		tr.OnKeyEvent(ev.code, ev.pressed)
	}
	assert.Equal(t, []uint16{keySuper, keyShift}, tr.Pressed())
}

func TestIsChordActive(t *testing.T) {
	chord := mustChord(t, "Super+Shift+S")

	tests := []struct {
		name    string
		presses []uint16
		want    bool
	}{
		{"exact order", []uint16{keySuper, keyShift, keyS}, true},
		{"right shift variant", []uint16{keySuper, keyRShift, keyS}, true},
		{"extra key after chord", []uint16{keySuper, keyShift, keyS, keyA}, true},
		{"wrong order", []uint16{keyShift, keySuper, keyS}, false},
		{"missing key", []uint16{keySuper, keyShift}, false},
		{"extra key before chord", []uint16{keyA, keySuper, keyShift, keyS}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(chord)
			for _, code := range tt.presses {
				tr.OnKeyEvent(code, true)
			}
			assert.Equal(t, tt.want, tr.IsChordActive(chord))
		})
	}
}

func TestFeedFiresOncePerRisingEdge(t *testing.T) {
	tr := NewTracker(mustChord(t, "Super+Shift+S"))

	assert.False(t, tr.Feed(keySuper, true))
	assert.False(t, tr.Feed(keyShift, true))
	assert.True(t, tr.Feed(keyS, true))

	// key repeat and unrelated keys while held
	assert.False(t, tr.Feed(keyS, true))
	assert.False(t, tr.Feed(keyA, true))
	assert.False(t, tr.Feed(keyA, false))

	// release and press the letter again: new rising edge
	assert.False(t, tr.Feed(keyS, false))
	assert.True(t, tr.Feed(keyS, true))
}

func TestSetChordDoesNotFireWhileHeld(t *testing.T) {
	tr := NewTracker(mustChord(t, "Super+Shift+S"))
	tr.Feed(keySuper, true)
	tr.Feed(keyShift, true)

	tr.SetChord(mustChord(t, "Super+Shift"))
	assert.False(t, tr.Feed(keyA, true))
	assert.False(t, tr.Feed(keyA, false))

	tr.Feed(keyShift, false)
	assert.True(t, tr.Feed(keyShift, true))
}

func TestKeyEvent(t *testing.T) {
	code, pressed, ok := keyEvent(gohook.Event{Kind: gohook.KeyHold, Keycode: keyS})
	assert.True(t, ok)
	assert.True(t, pressed)
	assert.Equal(t, keyS, code)

	_, pressed, ok = keyEvent(gohook.Event{Kind: gohook.KeyUp, Keycode: keyS})
	assert.True(t, ok)
	assert.False(t, pressed)

	_, _, ok = keyEvent(gohook.Event{Kind: gohook.KeyDown})
	assert.False(t, ok)

	_, _, ok = keyEvent(gohook.Event{Kind: gohook.MouseMove, Keycode: keyS})
	assert.False(t, ok)
}

func TestInvokeRecoversPanic(t *testing.T) {
	assert.NotPanics(t, func() { invoke(func() { panic("boom") }) })
	assert.NotPanics(t, func() { invoke(nil) })
}
