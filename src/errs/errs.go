// Package errs holds the error classes shared by the capture and preview
// sides. Call sites wrap these with fmt.Errorf("...: %w", ...) and callers
// classify with errors.Is.
package errs

import "errors"

var (
	// ErrInputUnavailable means pointer or key state could not be read.
	// Fatal to the current trigger only.
	ErrInputUnavailable = errors.New("input unavailable")

	// ErrNoMonitorAtPoint means no monitor contains the cursor. Retryable.
	ErrNoMonitorAtPoint = errors.New("no monitor at point")

	// ErrCaptureUnavailable means the display backend produced no frame.
	ErrCaptureUnavailable = errors.New("capture unavailable")

	// ErrFormat means the raw frame layout does not match its dimensions.
	ErrFormat = errors.New("frame format error")

	ErrSurfaceLost     = errors.New("surface lost")
	ErrSurfaceOutdated = errors.New("surface outdated")
	ErrOutOfMemory     = errors.New("out of memory")

	// ErrIO covers hand-off file and clipboard failures.
	ErrIO = errors.New("i/o failure")

	// ErrArguments means the preview was started with missing or bad arguments.
	ErrArguments = errors.New("invalid arguments")
)

// Retryable reports whether the next trigger may succeed without any change
// on the user's side.
func Retryable(err error) bool {
	return errors.Is(err, ErrNoMonitorAtPoint) || errors.Is(err, ErrInputUnavailable)
}

// Recoverable reports whether a rendering error can be fixed by
// reconfiguring the surface.
func Recoverable(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated)
}

// ExitCode maps a preview session error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrArguments):
		return 2
	case errors.Is(err, ErrIO):
		return 3
	case errors.Is(err, ErrOutOfMemory):
		return 4
	default:
		return 1
	}
}
