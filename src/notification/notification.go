package notification

import (
	"log"
	"os/exec"
	"runtime"
)

const maxMessage = 200

// ShowError surfaces a failed trigger. It never blocks the caller.
func ShowError(title, message string) {
	message = truncate(message)
	log.Printf("%s: %s", title, message)
	if runtime.GOOS != "linux" {
		return
	}
	go func() {
		if err := notifySend(title, message); err != nil {
			log.Printf("Failed to show notification: %v", err)
		}
	}()
}

// ShowBlockingError is used before the listener is up, when the process is
// about to exit.
func ShowBlockingError(title, message string) {
	message = truncate(message)
	log.Printf("%s: %s", title, message)
	if runtime.GOOS == "linux" {
		_ = notifySend(title, message)
	}
}

func notifySend(title, message string) error {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return nil
	}
	return exec.Command(path, "--app-name=screen-snip", title, message).Run()
}

func truncate(s string) string {
	if len(s) > maxMessage {
		return s[:maxMessage] + "..."
	}
	return s
}
