package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(fmt.Errorf("resolve: %w", ErrNoMonitorAtPoint)))
	assert.True(t, Retryable(ErrInputUnavailable))
	assert.False(t, Retryable(ErrCaptureUnavailable))
	assert.False(t, Retryable(errors.New("other")))
}

func TestRecoverable(t *testing.T) {
	assert.True(t, Recoverable(ErrSurfaceLost))
	assert.True(t, Recoverable(fmt.Errorf("draw: %w", ErrSurfaceOutdated)))
	assert.False(t, Recoverable(ErrOutOfMemory))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("x: %w", ErrArguments), 2},
		{fmt.Errorf("save: %w", ErrIO), 3},
		{ErrOutOfMemory, 4},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "ExitCode(%v)", tt.err)
	}
}
