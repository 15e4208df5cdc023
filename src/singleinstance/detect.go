package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrNoResident means no port in the range answered PING with PONG.
var ErrNoResident = errors.New("no resident listening")

// DetectResident returns the port of the running resident, or ErrNoResident.
// Without a ctx deadline each port gets 300ms.
func DetectResident(ctx context.Context) (int, error) {
	_, port, err := findResident(ctx, probeTimeout(ctx, 300*time.Millisecond))
	return port, err
}

func probeTimeout(ctx context.Context, def time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return def
}

// findResident scans the port range in order and stops at the first PONG.
func findResident(ctx context.Context, timeout time.Duration) (string, int, error) {
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if ping(addr, timeout) == nil {
			return addr, port, nil
		}
	}
	return "", 0, fmt.Errorf("ports %d-%d: %w", start, end, ErrNoResident)
}

func ping(addr string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(pingRequest); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return err
	}
	if resp != pongResponse {
		return fmt.Errorf("unexpected ping reply %q", strings.TrimSpace(resp))
	}
	return nil
}
