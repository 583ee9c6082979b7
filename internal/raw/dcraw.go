package raw

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"

	"golang.org/x/image/tiff"
)

// DcrawDecoder develops RAW files with the dcraw executable.
//
// dcraw is run with -c -T so that an 8-bit TIFF is streamed to stdout and
// decoded in memory; no temporary files are written.
type DcrawDecoder struct {
	// Path is the dcraw executable; empty means "dcraw" on PATH.
	Path string

	// Args are extra flags, e.g. "-w" for camera white balance.
	Args []string
}

// Available reports whether the dcraw executable can be found.
func (d *DcrawDecoder) Available() bool {
	_, err := exec.LookPath(d.path())
	return err == nil
}

// Decode implements Decoder.
func (d *DcrawDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	args := append(append([]string{}, d.Args...), "-c", "-T", path)
	cmd := exec.CommandContext(ctx, d.path(), args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: dcraw %s: %w: %s", ErrDecode, path, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: dcraw produced no output for %s", ErrDecode, path)
	}

	img, err := tiff.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("%w: dcraw output: %w", ErrDecode, err)
	}
	return img, nil
}

func (d *DcrawDecoder) path() string {
	if d.Path == "" {
		return "dcraw"
	}
	return d.Path
}
