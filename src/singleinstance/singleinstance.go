// Package singleinstance keeps one resident listener per user session and
// lets `screen-snip capture` hand its trigger to that resident over a
// loopback TCP port.
package singleinstance

import (
	"context"
)

// Server owns the TCP endpoint and answers delegated capture requests.
type Server interface {
	// Start listens on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	Close() error
}

// Conn is one delegated request awaiting a reply.
type Conn interface {
	Request() Request
	// RespondSuccess reports a dispatched preview; text is "<id> <path>".
	RespondSuccess(text string) error
	RespondError(msg string) error
	Close() error
}

// Request is a single delegated trigger.
type Request struct {
	Kind string
}

const KindCapture = "CAPTURE"

// Client delegates a capture to a resident, if one is running.
type Client interface {
	// TryCapture returns delegated=false, err=nil when no resident answers.
	TryCapture(ctx context.Context) (delegated bool, reply string, err error)
}

func NewServer() Server { return newTcpServer() }

func NewClient() Client { return newTcpClient() }
