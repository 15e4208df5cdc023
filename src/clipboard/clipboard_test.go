package clipboard

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"screen-snip/src/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteText(t *testing.T) {
	// Needs a display; headless runners only check it does not panic.
	if err := WriteText("test text"); err != nil {
		t.Logf("Failed to write to clipboard: %v", err)
	}
}

func TestCommandModeAppendsPath(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	script := filepath.Join(dir, "copy.sh")
	require.NoError(t, writeScript(script, "#!/bin/sh\ncp \"$1\" \""+marker+"\"\n"))
	src := filepath.Join(dir, "crop.png")
	require.NoError(t, writeScript(src, "png"))

	w := Writer{Mode: ModeCommand, Command: script}
	require.NoError(t, w.WriteImageFile(src))
	assert.FileExists(t, marker)
}

func TestCommandModeFailure(t *testing.T) {
	falsePath, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	w := Writer{Mode: ModeCommand, Command: falsePath}
	assert.ErrorIs(t, w.WriteImageFile("/tmp/whatever.png"), errs.ErrIO)

	w = Writer{Mode: ModeCommand, Command: filepath.Join(t.TempDir(), "missing")}
	assert.ErrorIs(t, w.WriteImageFile("/tmp/whatever.png"), errs.ErrIO)
}

func TestCommandModeDoesNotWaitForServingChild(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "serve.sh")
	// Like xclip: fork a child that keeps the inherited output open, then exit.
	require.NoError(t, writeScript(script, `#!/bin/sh
echo serving
( sleep 5 ) &
exit 0
`))

	start := time.Now()
	w := Writer{Mode: ModeCommand, Command: script, Timeout: time.Second}
	require.NoError(t, w.WriteImageFile(filepath.Join(dir, "crop.png")))
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestNativeMissingFile(t *testing.T) {
	w := Writer{Mode: ModeNative}
	assert.ErrorIs(t, w.WriteImageFile(filepath.Join(t.TempDir(), "missing.png")), errs.ErrIO)
}

func TestUnknownMode(t *testing.T) {
	w := Writer{Mode: "pigeon"}
	assert.Error(t, w.WriteImageFile("x.png"))
}

func writeScript(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o755)
}
