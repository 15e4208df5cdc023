package hotkey

import (
	"fmt"
	"strings"
)

// ChordKey is one position in a chord. Any of Codes satisfies it, which
// covers the left/right variants of modifiers.
type ChordKey struct {
	Name  string
	Codes []uint16
}

// Matches reports whether code satisfies this chord position.
func (k ChordKey) Matches(code uint16) bool {
	for _, c := range k.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Chord is an ordered list of keys that must be held down in this order.
type Chord []ChordKey

func (c Chord) String() string {
	names := make([]string, len(c))
	for i, k := range c {
		names[i] = k.Name
	}
	return strings.Join(names, "+")
}

// ParseChord converts a hotkey string like "Super+Shift+S" into a Chord.
// Order is significant: the keys must be pressed in the order written.
func ParseChord(hotkeyConfig string) (Chord, error) {
	names := parseHotkey(hotkeyConfig)
	if len(names) == 0 {
		return nil, fmt.Errorf("empty hotkey %q", hotkeyConfig)
	}
	chord := make(Chord, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("empty key name in hotkey %q", hotkeyConfig)
		}
		codes := keyNameToKeycodes(name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("unknown key %q in hotkey %q", name, hotkeyConfig)
		}
		chord = append(chord, ChordKey{Name: name, Codes: codes})
	}
	return chord, nil
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	if strings.TrimSpace(hotkeyConfig) == "" {
		return nil
	}
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt", "option":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "super", "meta":
			keys = append(keys, "super")
		case "escape":
			keys = append(keys, "esc")
		case "return":
			keys = append(keys, "enter")
		default:
			keys = append(keys, part)
		}
	}

	return keys
}

// keyNameToKeycodes maps a key name to libuiohook virtual key codes, which
// follow scan code set 1 and are the same on every platform gohook supports.
// Modifiers return both the left and the right variant.
func keyNameToKeycodes(keyName string) []uint16 {
	switch keyName {
	case "ctrl":
		return []uint16{0x001D, 0x0E1D}
	case "alt":
		return []uint16{0x0038, 0x0E38}
	case "shift":
		return []uint16{0x002A, 0x0036}
	case "super":
		return []uint16{0x0E5B, 0x0E5C}

	case "esc":
		return []uint16{0x0001}
	case "tab":
		return []uint16{0x000F}
	case "enter":
		return []uint16{0x001C}
	case "space":
		return []uint16{0x0039}
	case "backspace":
		return []uint16{0x000E}
	case "printscreen", "print":
		return []uint16{0x0E37}
	case "insert", "ins":
		return []uint16{0x0E52}
	case "delete", "del":
		return []uint16{0x0E53}
	case "home":
		return []uint16{0x0E47}
	case "end":
		return []uint16{0x0E4F}
	case "pageup", "pgup":
		return []uint16{0x0E49}
	case "pagedown", "pgdn":
		return []uint16{0x0E51}
	case "up":
		return []uint16{0xE048}
	case "left":
		return []uint16{0xE04B}
	case "right":
		return []uint16{0xE04D}
	case "down":
		return []uint16{0xE050}
	}

	if code, ok := letterKeycodes[keyName]; ok {
		return []uint16{code}
	}

	// Digits: 1..9 are 0x02..0x0A, 0 is 0x0B.
	if len(keyName) == 1 && keyName[0] >= '0' && keyName[0] <= '9' {
		if keyName[0] == '0' {
			return []uint16{0x000B}
		}
		return []uint16{uint16(keyName[0]-'1') + 0x0002}
	}

	// F1..F10 are contiguous, F11 and F12 are not.
	var n int
	if _, err := fmt.Sscanf(keyName, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == keyName {
		switch {
		case n >= 1 && n <= 10:
			return []uint16{uint16(0x003B + n - 1)}
		case n == 11:
			return []uint16{0x0057}
		case n == 12:
			return []uint16{0x0058}
		}
	}

	return nil
}

var letterKeycodes = map[string]uint16{
	"q": 0x10, "w": 0x11, "e": 0x12, "r": 0x13, "t": 0x14,
	"y": 0x15, "u": 0x16, "i": 0x17, "o": 0x18, "p": 0x19,
	"a": 0x1E, "s": 0x1F, "d": 0x20, "f": 0x21, "g": 0x22,
	"h": 0x23, "j": 0x24, "k": 0x25, "l": 0x26,
	"z": 0x2C, "x": 0x2D, "c": 0x2E, "v": 0x2F, "b": 0x30,
	"n": 0x31, "m": 0x32,
}
