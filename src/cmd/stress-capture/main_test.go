package main

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmdDefaults(t *testing.T) {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{}))
	assert.Equal(t, 50, opts.n)
	assert.Equal(t, 5*time.Second, opts.deadline)
}

func TestNewRootCmdCustomFlags(t *testing.T) {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--n", "3", "--deadline", "7s"}))
	assert.Equal(t, 3, opts.n)
	assert.Equal(t, 7*time.Second, opts.deadline)
}

// firstWinsClient accepts one capture and reports busy for the rest, which
// is what a resident does while its single capture is in flight.
type firstWinsClient struct {
	taken atomic.Bool
}

func (c *firstWinsClient) TryCapture(context.Context) (bool, string, error) {
	if c.taken.CompareAndSwap(false, true) {
		return true, "id /tmp/tmp.png", nil
	}
	return true, "", errors.New("busy, please retry")
}

type absentClient struct{}

func (absentClient) TryCapture(context.Context) (bool, string, error) { return false, "", nil }

func TestRunCountsOutcomes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runWithOptions(stressOptions{n: 5, deadline: time.Second}, &firstWinsClient{}, &out))
	assert.Contains(t, out.String(), "launched=5 ok=1 busy=4 no-resident=0 err=0")
}

func TestRunWithoutResident(t *testing.T) {
	var out bytes.Buffer
	err := runWithOptions(stressOptions{n: 2, deadline: time.Second}, absentClient{}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "no-resident=2")
}
