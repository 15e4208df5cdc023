package messages

import "image"

// Message is the base interface for all pipeline messages
type Message interface {
	Type() string
}

// MessageType constants for type identification
const (
	TypeCaptureRequested = "CaptureRequested"
	TypeCaptureCompleted = "CaptureCompleted"
	TypeCaptureFailed    = "CaptureFailed"
)

// Trigger sources for CaptureRequested
const (
	SourceHotkey    = "hotkey"
	SourceTray      = "tray"
	SourceDelegated = "delegated"
)

// CaptureRequested - a capture was asked for by the hotkey, the tray or a
// delegated `capture` command
type CaptureRequested struct {
	ID     string
	Source string
}

func (m CaptureRequested) Type() string { return TypeCaptureRequested }

// CaptureCompleted - the frame is durably written at Path and the preview
// may start. Origin is the captured monitor's top-left corner.
type CaptureCompleted struct {
	ID     string
	Origin image.Point
	Path   string
}

func (m CaptureCompleted) Type() string { return TypeCaptureCompleted }

// CaptureFailed - one trigger failed; the listener keeps running
type CaptureFailed struct {
	ID    string
	Error error
}

func (m CaptureFailed) Type() string { return TypeCaptureFailed }
