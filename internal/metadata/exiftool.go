package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
)

// exiftoolIFD0 maps exiftool's ungrouped tag names to IFD0 keys. Other tags are
// reported in the EXIF group.
var exiftoolIFD0 = map[string]bool{
	"Make":        true,
	"Model":       true,
	"Orientation": true,
	"Software":    true,
	"Artist":      true,
	"Copyright":   true,
	"ModifyDate":  true,
}

// ExiftoolReader shells out to `exiftool -json -n`. It handles formats goexif
// cannot parse (for example RAF and CR3) at the cost of an external process.
type ExiftoolReader struct {
	// Path is the exiftool executable; empty means "exiftool" on PATH.
	Path   string
	Logger *slog.Logger
}

// Available reports whether the exiftool executable can be found.
func (r *ExiftoolReader) Available() bool {
	_, err := exec.LookPath(r.path())
	return err == nil
}

// Read implements Reader.
func (r *ExiftoolReader) Read(ctx context.Context, path string) Map {
	m, err := r.ReadFile(ctx, path)
	if err != nil {
		r.logger().Warn("error reading EXIF metadata", "path", path, "tool", "exiftool", "error", err)
		return Map{}
	}
	return m
}

// ReadFile is Read with the error surfaced. The error wraps ErrRead.
func (r *ExiftoolReader) ReadFile(ctx context.Context, path string) (Map, error) {
	cmd := exec.CommandContext(ctx, r.path(), "-json", "-n", path)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: exiftool: %w: %s", ErrRead, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return parseExiftoolJSON(out.Bytes())
}

func parseExiftoolJSON(data []byte) (Map, error) {
	var parsed []map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: exiftool output: %w", ErrRead, err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: exiftool returned no records", ErrRead)
	}

	m := Map{}
	for k, v := range parsed[0] {
		if k == "SourceFile" {
			continue
		}
		key := "EXIF " + k
		if exiftoolIFD0[k] {
			key = "Image " + k
		}
		m[key] = formatValue(v)
	}
	return m, nil
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func (r *ExiftoolReader) path() string {
	if r.Path == "" {
		return "exiftool"
	}
	return r.Path
}

func (r *ExiftoolReader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// FallbackReader tries each reader in order and returns the first non-empty Map.
type FallbackReader []Reader

// Read implements Reader.
func (f FallbackReader) Read(ctx context.Context, path string) Map {
	for _, r := range f {
		if m := r.Read(ctx, path); len(m) > 0 {
			return m
		}
	}
	return Map{}
}
