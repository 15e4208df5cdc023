package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) TryCapture(ctx context.Context) (bool, string, error) {
	timeout := probeTimeout(ctx, 2*time.Second)
	addr, _, err := findResident(ctx, timeout)
	if errors.Is(err, ErrNoResident) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	reply, err := request(addr, KindCapture, timeout)
	return true, reply, err
}

func request(addr, kind string, timeout time.Duration) (string, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(kind + "\n"); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	body, _ := io.ReadAll(br)
	switch status {
	case successResponse:
		return strings.TrimSpace(string(body)), nil
	case errorResponse:
		return "", errors.New(strings.TrimSpace(string(body)))
	default:
		return "", fmt.Errorf("unexpected resident reply %q", strings.TrimSpace(status))
	}
}
