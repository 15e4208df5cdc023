package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-snip/src/config"
	"screen-snip/src/errs"
	"screen-snip/src/handoff"
	"screen-snip/src/runtimeinit"
	"screen-snip/src/screenshot"
	"screen-snip/src/selection"
)

const (
	maxFileSizeMB = 64
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type cliOptions struct {
	filePath   string
	rect       string
	outPath    string
	jsonOutput bool
	clipboard  bool
	verbose    bool
}

func main() {
	err := runWithArgs(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(errs.ExitCode(err))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-snip-crop"}
	}
	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-snip-crop",
		Short:         "Crop a PNG without the preview window",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().StringVar(&opts.rect, "rect", "", "Crop rectangle x,y,w,h in image pixels (empty for the full image)")
	cmd.Flags().StringVar(&opts.outPath, "out", "-", "Output PNG path ('-' for stdout)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print a JSON summary to stdout (requires --out)")
	cmd.Flags().BoolVar(&opts.clipboard, "clipboard", false, "Also put the crop on the clipboard (requires --out)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type CropResult struct {
	Source   string  `json:"source"`
	Output   string  `json:"output"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Full     bool    `json:"full_image"`
	Duration float64 `json:"duration_seconds"`
}

func runWithOptions(opts cliOptions, stdin io.Reader, stdout io.Writer) error {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}
	toStdout := opts.outPath == "" || opts.outPath == "-"
	if toStdout && (opts.jsonOutput || opts.clipboard) {
		return fmt.Errorf("--json and --clipboard need --out: %w", errs.ErrArguments)
	}

	rect, whole, err := parseRect(opts.rect)
	if err != nil {
		return err
	}

	start := time.Now()
	frame, err := readFrame(opts.filePath, stdin)
	if err != nil {
		return err
	}
	log.Printf("Read %s: %dx%d", opts.filePath, frame.Width, frame.Height)

	res := cropResult(frame, rect, whole)
	crop := screenshot.Crop(frame, res.Rect.Rectangle())

	if toStdout {
		return crop.EncodePNG(stdout)
	}
	if err := handoff.Save(crop, opts.outPath); err != nil {
		return err
	}
	if opts.clipboard {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := runtimeinit.ClipboardWriter(cfg).WriteImageFile(opts.outPath); err != nil {
			return fmt.Errorf("clipboard: %w", err)
		}
	}
	if !opts.jsonOutput {
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(CropResult{
		Source:   opts.filePath,
		Output:   opts.outPath,
		X:        res.Rect.X,
		Y:        res.Rect.Y,
		Width:    res.Rect.Width,
		Height:   res.Rect.Height,
		Full:     res.FullImage,
		Duration: time.Since(start).Seconds(),
	}); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// cropResult applies the preview's policy to a --rect request.
func cropResult(frame *screenshot.Frame, rect selection.Rect, whole bool) selection.Result {
	if whole {
		return selection.Full(frame.Width, frame.Height)
	}
	return selection.Clamp(rect, frame.Width, frame.Height)
}

func parseRect(s string) (selection.Rect, bool, error) {
	if strings.TrimSpace(s) == "" {
		return selection.Rect{}, true, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return selection.Rect{}, false, fmt.Errorf("rect %q: want x,y,w,h: %w", s, errs.ErrArguments)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return selection.Rect{}, false, fmt.Errorf("rect %q: %v: %w", s, err, errs.ErrArguments)
		}
		v[i] = n
	}
	if v[2] < 0 || v[3] < 0 {
		return selection.Rect{}, false, fmt.Errorf("rect %q: negative size: %w", s, errs.ErrArguments)
	}
	return selection.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, false, nil
}

func readFrame(path string, stdin io.Reader) (*screenshot.Frame, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxFileSize+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", path, err, errs.ErrIO)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("input is empty: %w", errs.ErrArguments)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("input exceeds maximum size of %d MB: %w", maxFileSizeMB, errs.ErrArguments)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		return nil, fmt.Errorf("input is not a PNG file: %w", errs.ErrFormat)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", path, err, errs.ErrFormat)
	}
	return screenshot.FromImage(img), nil
}
