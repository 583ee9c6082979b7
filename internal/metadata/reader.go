package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrRead marks a metadata read or parse failure. Readers log it and return an
// empty Map; it is exported so diagnostics can be matched with errors.Is.
var ErrRead = errors.New("metadata read failed")

// Reader extracts EXIF metadata from a file.
//
// Read never fails. On any error it logs a diagnostic and returns an empty,
// non-nil Map.
type Reader interface {
	Read(ctx context.Context, path string) Map
}

// ifd0Fields are the goexif field names stored in IFD0, reported with the
// "Image" group prefix. Everything else except GPS and interoperability tags
// belongs to the EXIF sub-IFD.
var ifd0Fields = map[exif.FieldName]bool{
	exif.ImageWidth:                true,
	exif.ImageLength:               true,
	exif.BitsPerSample:             true,
	exif.Compression:               true,
	exif.PhotometricInterpretation: true,
	exif.Orientation:               true,
	exif.SamplesPerPixel:           true,
	exif.PlanarConfiguration:       true,
	exif.YCbCrSubSampling:          true,
	exif.YCbCrPositioning:          true,
	exif.XResolution:               true,
	exif.YResolution:               true,
	exif.ResolutionUnit:            true,
	exif.DateTime:                  true,
	exif.ImageDescription:          true,
	exif.Make:                      true,
	exif.Model:                     true,
	exif.Software:                  true,
	exif.Artist:                    true,
	exif.Copyright:                 true,
	exif.ExifIFDPointer:            true,
	exif.GPSInfoIFDPointer:         true,
}

// GroupKey returns the Map key for a goexif field name.
func GroupKey(name exif.FieldName) string {
	n := string(name)
	switch {
	case ifd0Fields[name]:
		return "Image " + n
	case strings.HasPrefix(n, "GPS"):
		return "GPS " + n
	case strings.HasPrefix(n, "Interoperability"):
		return "Interoperability " + n
	case strings.HasPrefix(n, "Thumb"):
		return "Thumbnail " + n
	}
	return "EXIF " + n
}

// ExifReader decodes the TIFF-structured EXIF blocks that most RAW formats
// (ARW, DNG, NEF, CR2, RW2, ORF, SRW) carry, using goexif.
type ExifReader struct {
	Logger *slog.Logger
}

// NewExifReader creates an ExifReader. A nil logger uses slog.Default().
func NewExifReader(logger *slog.Logger) *ExifReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExifReader{Logger: logger}
}

// Read implements Reader.
func (r *ExifReader) Read(_ context.Context, path string) Map {
	m, err := r.ReadFile(path)
	if err != nil {
		r.logger().Warn("error reading EXIF metadata", "path", path, "error", err)
		return Map{}
	}
	return m
}

// ReadFile is Read with the error surfaced. The error wraps ErrRead.
func (r *ExifReader) ReadFile(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	w := &tagWalker{m: Map{}}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return w.m, nil
}

func (r *ExifReader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

type tagWalker struct {
	m Map
}

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.m[GroupKey(name)] = formatTag(tag)
	return nil
}

// formatTag renders a tag value as display text. Single rationals become
// decimals so numeric consumers can parse them.
func formatTag(tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimRight(strings.TrimSpace(s), "\x00")
		}
	case tiff.RatVal:
		if tag.Count == 1 {
			num, den, err := tag.Rat2(0)
			if err == nil && den != 0 {
				return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64)
			}
		}
	case tiff.IntVal:
		if tag.Count == 1 {
			if v, err := tag.Int64(0); err == nil {
				return strconv.FormatInt(v, 10)
			}
		}
	}
	return strings.Trim(tag.String(), `"`)
}
