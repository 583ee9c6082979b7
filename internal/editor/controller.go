package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ironsheep/raw-editor-mcp/internal/adjust"
	"github.com/ironsheep/raw-editor-mcp/internal/imaging"
	"github.com/ironsheep/raw-editor-mcp/internal/metadata"
	"github.com/ironsheep/raw-editor-mcp/internal/raw"
)

// DefaultDebounce is the quiet period before a full-resolution commit.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrNoSession is returned by editing operations before a file is loaded.
	ErrNoSession = errors.New("no image loaded")

	// ErrExportIO marks a failure to write the export target.
	ErrExportIO = errors.New("export failed")
)

// State is the controller's position in its lifecycle.
type State string

const (
	// StateEmpty means no file has been loaded.
	StateEmpty State = "empty"
	// StateLoaded means a file is loaded and every control is neutral.
	StateLoaded State = "loaded"
	// StateEditing means a file is loaded and at least one control is set.
	StateEditing State = "editing"
)

// Options configures a Controller.
type Options struct {
	// Decoder develops RAW files. Required for LoadFile.
	Decoder raw.Decoder

	// Metadata reads EXIF tags. Nil disables metadata.
	Metadata metadata.Reader

	// Encoder writes exports. Nil uses a JPEGEncoder at the default quality.
	Encoder raw.Encoder

	// PreviewScale is the preview size factor; zero uses imaging.DefaultPreviewScale.
	PreviewScale float64

	// Debounce is the full-resolution commit delay; zero uses DefaultDebounce.
	Debounce time.Duration

	// Logger receives diagnostics; nil uses slog.Default().
	Logger *slog.Logger
}

// Controller drives one edit session: load, adjust, commit and export.
type Controller struct {
	decoder raw.Decoder
	reader  metadata.Reader
	encoder raw.Encoder
	scale   float64
	logger  *slog.Logger

	debounce *Debouncer

	// commitMu serializes full-resolution recomputes and exports, and guards closed.
	commitMu sync.Mutex
	closed   bool

	mu      sync.Mutex
	session *Session
	params  adjust.Parameters
	display *imaging.ImageBuffer
	commits int
}

// NewController creates a controller in the Empty state.
func NewController(opts Options) *Controller {
	c := &Controller{
		decoder: opts.Decoder,
		reader:  opts.Metadata,
		encoder: opts.Encoder,
		scale:   opts.PreviewScale,
		logger:  opts.Logger,
	}
	if c.encoder == nil {
		c.encoder = raw.JPEGEncoder{Quality: raw.DefaultJPEGQuality}
	}
	if c.scale == 0 {
		c.scale = imaging.DefaultPreviewScale
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	interval := opts.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}
	c.debounce = NewDebouncer(interval, c.debouncedCommit)
	return c
}

// LoadFile decodes path, reads its metadata and replaces the current session.
// Parameters reset to neutral and any pending commit is cancelled.
//
// On failure the previous session, if any, is left untouched and the error
// wraps raw.ErrDecode.
func (c *Controller) LoadFile(ctx context.Context, path string) error {
	if c.decoder == nil {
		return fmt.Errorf("%w: no decoder configured", raw.ErrDecode)
	}
	start := time.Now()

	img, err := c.decoder.Decode(ctx, path)
	if err != nil {
		if !errors.Is(err, raw.ErrDecode) {
			err = fmt.Errorf("%w: %w", raw.ErrDecode, err)
		}
		c.logger.Error("error loading RAW", "path", path, "error", err)
		return err
	}

	s, err := Load(img, c.scale)
	if err != nil {
		c.logger.Error("error loading RAW", "path", path, "error", err)
		return err
	}
	s.Filename = path
	if c.reader != nil {
		s.Metadata = c.reader.Read(ctx, path)
	}
	s.Camera = metadata.ParseCameraLensInfo(s.Metadata)

	display := adjust.Apply(s.preview, adjust.Parameters{})

	c.debounce.Cancel()
	c.mu.Lock()
	c.session = s
	c.params = adjust.Parameters{}
	c.display = display
	c.mu.Unlock()

	c.logger.Info("loaded RAW",
		"path", path,
		"width", s.original.Width,
		"height", s.original.Height,
		"preview_width", s.preview.Width,
		"preview_height", s.preview.Height,
		"tags", len(s.Metadata),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// SetParameter changes one control, re-renders the preview immediately and
// schedules a debounced full-resolution commit. It returns the new preview.
func (c *Controller) SetParameter(name string, value float64) (*imaging.ImageBuffer, error) {
	n, err := adjust.ParseName(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	next, err := c.params.With(n, value)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	display, err := c.applyLocked(next)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.debounce.Trigger()
	return display, nil
}

// SetParameters replaces every control at once, with the same preview and
// commit behavior as SetParameter.
func (c *Controller) SetParameters(p adjust.Parameters) (*imaging.ImageBuffer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	display, err := c.applyLocked(p)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.debounce.Trigger()
	return display, nil
}

func (c *Controller) applyLocked(p adjust.Parameters) (*imaging.ImageBuffer, error) {
	if c.session == nil {
		return nil, ErrNoSession
	}
	start := time.Now()
	c.params = p
	c.display = adjust.Apply(c.session.preview, p)
	c.logger.Debug("preview updated", "params", p.String(), "duration_ms", time.Since(start).Milliseconds())
	return c.display, nil
}

// CommitFullRes recomputes the full-resolution buffer from the decoded pixels
// and the current parameters. It is a no-op when the buffer is already current.
func (c *Controller) CommitFullRes() error {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	return c.commitLocked()
}

// commitLocked requires commitMu. The session lock is released while the
// engine runs so previews stay responsive.
func (c *Controller) commitLocked() error {
	c.mu.Lock()
	s, p := c.session, c.params
	if s == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if s.fullRes != nil && s.committed == p {
		c.mu.Unlock()
		c.logger.Debug("full-res already current", "params", p.String())
		return nil
	}
	c.mu.Unlock()

	start := time.Now()
	out := adjust.Apply(s.original, p)

	c.mu.Lock()
	if c.session == s {
		s.fullRes = out
		s.committed = p
		c.commits++
	}
	c.mu.Unlock()

	c.logger.Info("full-res image updated", "params", p.String(), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *Controller) debouncedCommit() {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	if c.closed {
		return
	}
	c.logger.Debug("debounce elapsed, committing full-res")
	if err := c.commitLocked(); err != nil && !errors.Is(err, ErrNoSession) {
		c.logger.Error("full-res commit failed", "error", err)
	}
}

// Export commits the latest parameters and writes the full-resolution image to
// path at 8-bit precision. An export waits for any commit already running.
//
// Write failures wrap ErrExportIO. The commit that precedes the write is kept
// even when the write fails: FullRes then holds the same buffer a debounced
// commit would have produced, and the parameters and source are unchanged.
func (c *Controller) Export(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.debounce.Cancel()
	if err := c.commitLocked(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	full := c.session.fullRes
	p := c.session.committed
	c.mu.Unlock()

	if err := c.encoder.Encode(path, full.ToNRGBA()); err != nil {
		c.logger.Error("export failed", "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrExportIO, err)
	}
	c.logger.Info("exported", "path", path, "width", full.Width, "height", full.Height, "params", p.String())
	return nil
}

// Close cancels any pending commit and waits for a running one to finish.
// No debounced commit starts after Close returns; explicit CommitFullRes and
// Export calls still work.
func (c *Controller) Close() {
	c.debounce.Cancel()
	c.commitMu.Lock()
	c.closed = true
	c.commitMu.Unlock()
}

// State reports the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.session == nil:
		return StateEmpty
	case c.params.IsZero():
		return StateLoaded
	default:
		return StateEditing
	}
}

// Parameters returns the current parameter snapshot.
func (c *Controller) Parameters() adjust.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Session returns the current session, or nil in the Empty state. Callers must
// treat it as read-only.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Preview returns the most recently rendered preview, or nil before a load.
func (c *Controller) Preview() *imaging.ImageBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// FullRes returns the last committed full-resolution buffer, or nil before a load.
func (c *Controller) FullRes() *imaging.ImageBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.fullRes
}

// Status is a point-in-time summary of the controller.
type Status struct {
	State         State             `json:"state"`
	Filename      string            `json:"filename,omitempty"`
	Width         int               `json:"width,omitempty"`
	Height        int               `json:"height,omitempty"`
	PreviewWidth  int               `json:"preview_width,omitempty"`
	PreviewHeight int               `json:"preview_height,omitempty"`
	Parameters    adjust.Parameters `json:"parameters"`
	Readouts      map[string]string `json:"readouts"`
	CommitPending bool              `json:"commit_pending"`
	FullResFresh  bool              `json:"full_res_current"`
	Commits       int               `json:"commits"`
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	pending := c.debounce.Pending()

	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		State:         c.stateLocked(),
		Parameters:    c.params,
		Readouts:      c.params.Readouts(),
		CommitPending: pending,
		Commits:       c.commits,
	}
	if s := c.session; s != nil {
		st.Filename = s.Filename
		st.Width, st.Height = s.original.Width, s.original.Height
		st.PreviewWidth, st.PreviewHeight = s.preview.Width, s.preview.Height
		st.FullResFresh = s.committed == c.params
	}
	return st
}
