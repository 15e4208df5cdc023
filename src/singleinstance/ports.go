package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49620

	PortStartEnvVar = "SCREEN_SNIP_PORT_START"
	PortEndEnvVar   = "SCREEN_SNIP_PORT_END"
)

// getPortRange returns the inclusive port range, clamped to [1024, 65535].
func getPortRange() (int, int) {
	start := envInt(PortStartEnvVar, defaultPortStart)
	end := envInt(PortEndEnvVar, defaultPortEnd)
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// PortRange exposes the effective range for logging.
func PortRange() (int, int) { return getPortRange() }
