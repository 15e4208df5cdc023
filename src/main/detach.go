package main

import (
	"fmt"
	"os"

	"github.com/sevlyar/go-daemon"
)

// detachedEnvVar marks the re-executed background child.
const detachedEnvVar = "SCREEN_SNIP_DETACHED"

// detach re-executes the listener in the background. A nil process means
// this is the child.
func detach() (*os.Process, error) {
	ctx := &daemon.Context{
		WorkDir: "/",
		Umask:   027,
		Args:    os.Args,
		Env:     append(os.Environ(), fmt.Sprintf("%s=1", detachedEnvVar)),
	}
	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to detach: %w", err)
	}
	return child, nil
}

func isDetachedChild() bool {
	return os.Getenv(detachedEnvVar) == "1"
}
