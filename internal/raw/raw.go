package raw

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrDecode marks an unreadable, corrupt or unsupported RAW file.
var ErrDecode = errors.New("decode failed")

// Extensions lists the RAW file extensions offered by the load filter, without
// the leading dot. The filter is by name only; content is not validated.
var Extensions = []string{"arw", "dng", "nef", "cr2", "rw2", "raf", "orf", "srw"}

// Decoder produces an 8-bit RGB raster from a file.
type Decoder interface {
	Decode(ctx context.Context, path string) (image.Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, path string) (image.Image, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

// IsRawFile reports whether path has one of the supported RAW extensions.
func IsRawFile(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FileFilter returns the load dialog filter, e.g. "RAW Files (*.arw *.dng ...)".
func FileFilter() string {
	patterns := make([]string, len(Extensions))
	for i, e := range Extensions {
		patterns[i] = "*." + e
	}
	return fmt.Sprintf("RAW Files (%s)", strings.Join(patterns, " "))
}

// Options configures decoder construction.
type Options struct {
	// DcrawPath is the dcraw executable; empty means "dcraw" on PATH.
	DcrawPath string

	// DcrawArgs are extra dcraw flags placed before the output flags.
	DcrawArgs []string
}

// Factory builds a Decoder from Options.
type Factory func(opts Options) (Decoder, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a decoder backend available by name. Backends built behind
// tags register themselves from init.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewDecoder builds the named backend.
func NewDecoder(name string, opts Options) (Decoder, error) {
	registryMu.RLock()
	f, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown decoder backend %q (available: %s)", name, strings.Join(Backends(), ", "))
	}
	return f(opts)
}

func init() {
	Register("dcraw", func(opts Options) (Decoder, error) {
		return &DcrawDecoder{Path: opts.DcrawPath, Args: opts.DcrawArgs}, nil
	})
	Register("image", func(Options) (Decoder, error) {
		return ImageDecoder{}, nil
	})
}
