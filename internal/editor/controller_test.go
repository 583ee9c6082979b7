package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ironsheep/raw-editor-mcp/internal/adjust"
	"github.com/ironsheep/raw-editor-mcp/internal/metadata"
	"github.com/ironsheep/raw-editor-mcp/internal/raw"
)

// fakeDecoder serves in-memory rasters by path.
type fakeDecoder map[string]image.Image

func (f fakeDecoder) Decode(_ context.Context, path string) (image.Image, error) {
	img, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("%w: cannot open %s", raw.ErrDecode, path)
	}
	return img, nil
}

// staticReader returns the same metadata for every file.
type staticReader metadata.Map

func (s staticReader) Read(context.Context, string) metadata.Map {
	return metadata.Map(s).Clone()
}

// captureEncoder records the last encoded image.
type captureEncoder struct {
	mu   sync.Mutex
	img  image.Image
	path string
	err  error
}

func (e *captureEncoder) Encode(path string, img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.img, e.path = img, path
	return nil
}

func (e *captureEncoder) last() (string, image.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path, e.img
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(t *testing.T, debounce time.Duration, enc *captureEncoder) *Controller {
	t.Helper()
	dec := fakeDecoder{
		"gray.arw":  createInMemoryImage(40, 20, color.NRGBA{64, 64, 64, 255}),
		"color.nef": createInMemoryImage(8, 8, color.NRGBA{200, 100, 50, 255}),
	}
	reader := staticReader{
		metadata.KeyMake:  "SONY",
		metadata.KeyModel: "ILCE-7M3",
		"EXIF FNumber":    "4",
	}
	c := NewController(Options{
		Decoder:  dec,
		Metadata: reader,
		Encoder:  enc,
		Debounce: debounce,
		Logger:   quietLogger(),
	})
	t.Cleanup(c.Close)
	return c
}

func TestControllerLoadFile(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	if c.State() != StateEmpty {
		t.Fatalf("initial state: got %s", c.State())
	}

	if err := c.LoadFile(context.Background(), "gray.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.State() != StateLoaded {
		t.Errorf("state after load: got %s, want %s", c.State(), StateLoaded)
	}

	st := c.Status()
	if st.Filename != "gray.arw" {
		t.Errorf("Filename: got %q", st.Filename)
	}
	if st.Width != 40 || st.Height != 20 {
		t.Errorf("full-res: got %dx%d, want 40x20", st.Width, st.Height)
	}
	if st.PreviewWidth != 10 || st.PreviewHeight != 5 {
		t.Errorf("preview: got %dx%d, want 10x5", st.PreviewWidth, st.PreviewHeight)
	}
	if !st.FullResFresh {
		t.Error("full-res should be current after load")
	}

	s := c.Session()
	if s.Camera.Make != "SONY" || s.Camera.FNumber != 4 {
		t.Errorf("camera info: got %+v", s.Camera)
	}
	if s.Camera.FocalLengthMm != metadata.DefaultFocalLengthMm {
		t.Errorf("focal length default: got %v", s.Camera.FocalLengthMm)
	}
	if c.Preview() == nil || c.Preview().Width != 10 {
		t.Error("preview should be rendered on load")
	}
}

func TestControllerLoadFailureKeepsSession(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	ctx := context.Background()

	if err := c.LoadFile(ctx, "gray.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if _, err := c.SetParameter("exposure", 0.5); err != nil {
		t.Fatalf("SetParameter failed: %v", err)
	}

	err := c.LoadFile(ctx, "missing.cr2")
	if !errors.Is(err, raw.ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}

	if got := c.Session().Filename; got != "gray.arw" {
		t.Errorf("session replaced after failed load: %q", got)
	}
	if got := c.Parameters().Exposure; got != 0.5 {
		t.Errorf("parameters reset after failed load: %v", got)
	}
}

func TestControllerNoSession(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})

	if _, err := c.SetParameter("exposure", 0.5); !errors.Is(err, ErrNoSession) {
		t.Errorf("SetParameter: got %v, want ErrNoSession", err)
	}
	if err := c.CommitFullRes(); !errors.Is(err, ErrNoSession) {
		t.Errorf("CommitFullRes: got %v, want ErrNoSession", err)
	}
	if err := c.Export(context.Background(), "out.jpg"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Export: got %v, want ErrNoSession", err)
	}
	if c.FullRes() != nil || c.Preview() != nil {
		t.Error("buffers should be nil before load")
	}
}

func TestControllerSetParameterValidation(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	if err := c.LoadFile(context.Background(), "gray.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if _, err := c.SetParameter("contrast", 0.5); !errors.Is(err, adjust.ErrUnknownParameter) {
		t.Errorf("unknown name: got %v", err)
	}
	if _, err := c.SetParameter("exposure", 1.5); !errors.Is(err, adjust.ErrParameterRange) {
		t.Errorf("out of range: got %v", err)
	}
	if !c.Parameters().IsZero() {
		t.Errorf("rejected values should not change parameters: %v", c.Parameters())
	}
	if c.Status().CommitPending {
		t.Error("rejected values should not schedule a commit")
	}
}

func TestControllerPreviewIsImmediate(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	if err := c.LoadFile(context.Background(), "gray.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	prev, err := c.SetParameter("Exposure", 1)
	if err != nil {
		t.Fatalf("SetParameter failed: %v", err)
	}
	if c.State() != StateEditing {
		t.Errorf("state: got %s, want %s", c.State(), StateEditing)
	}

	r, _, _ := prev.At(0, 0)
	if want := float32(128) / 255; absDiff32(r, want) > 0.002 {
		t.Errorf("preview sample: got %v, want about %v", r, want)
	}

	// Full-res waits for the debounce.
	r, _, _ = c.FullRes().At(0, 0)
	if want := float32(64) / 255; r != want {
		t.Errorf("full-res changed before commit: got %v, want %v", r, want)
	}
	st := c.Status()
	if !st.CommitPending || st.FullResFresh {
		t.Errorf("status: pending=%v fresh=%v", st.CommitPending, st.FullResFresh)
	}
}

func TestControllerDebouncedCommitCoalesces(t *testing.T) {
	c := newTestController(t, 150*time.Millisecond, &captureEncoder{})
	if err := c.LoadFile(context.Background(), "gray.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	for _, v := range []float64{0.2, 0.4, 0.6} {
		if _, err := c.SetParameter("exposure", v); err != nil {
			t.Fatalf("SetParameter failed: %v", err)
		}
		time.Sleep(30 * time.Millisecond)
	}
	if got := c.Status().Commits; got != 0 {
		t.Fatalf("commits before quiet period: got %d, want 0", got)
	}

	if !waitFor(t, 2*time.Second, func() bool { return c.Status().Commits == 1 }) {
		t.Fatalf("commits: got %d, want 1", c.Status().Commits)
	}
	time.Sleep(200 * time.Millisecond)

	st := c.Status()
	if st.Commits != 1 {
		t.Errorf("commits after settle: got %d, want 1", st.Commits)
	}
	if !st.FullResFresh {
		t.Error("full-res should reflect the last parameters")
	}
	if got := c.Session().Committed().Exposure; got != 0.6 {
		t.Errorf("committed exposure: got %v, want 0.6", got)
	}
}

func TestControllerCommitDoesNotCompound(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	if err := c.LoadFile(context.Background(), "gray.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	orig, _, _ := c.Session().Original().At(5, 5)

	if _, err := c.SetParameter("exposure", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.CommitFullRes(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetParameter("exposure", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.CommitFullRes(); err != nil {
		t.Fatal(err)
	}

	// Two commits at +1 stop are one stop brighter, not two.
	r, _, _ := c.FullRes().At(5, 5)
	if want := orig * 2; absDiff32(r, want) > 1e-5 {
		t.Errorf("after repeated commit: got %v, want %v", r, want)
	}

	if _, err := c.SetParameter("exposure", 0); err != nil {
		t.Fatal(err)
	}
	if err := c.CommitFullRes(); err != nil {
		t.Fatal(err)
	}
	r, _, _ = c.FullRes().At(5, 5)
	if r != orig {
		t.Errorf("returning to neutral: got %v, want %v", r, orig)
	}
}

func TestControllerCommitSkipsWhenCurrent(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	if err := c.LoadFile(context.Background(), "gray.arw"); err != nil {
		t.Fatal(err)
	}
	if err := c.CommitFullRes(); err != nil {
		t.Fatal(err)
	}
	if got := c.Status().Commits; got != 0 {
		t.Errorf("neutral commit after load: got %d commits, want 0", got)
	}

	if _, err := c.SetParameter("saturation", 0.3); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := c.CommitFullRes(); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.Status().Commits; got != 1 {
		t.Errorf("commits: got %d, want 1", got)
	}
}

func TestControllerExportIsFresh(t *testing.T) {
	enc := &captureEncoder{}
	c := newTestController(t, time.Hour, enc)
	ctx := context.Background()
	if err := c.LoadFile(ctx, "gray.arw"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SetParameter("exposure", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Export(ctx, "out.jpg"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	path, img := enc.last()
	if path != "out.jpg" {
		t.Errorf("export path: got %q", path)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("export size: got %v, want 40x20", img.Bounds())
	}
	got := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA)
	if got.R != 128 || got.G != 128 || got.B != 128 {
		t.Errorf("exported pixel: got %v, want gray 128", got)
	}

	st := c.Status()
	if st.CommitPending {
		t.Error("export should cancel the pending commit")
	}
	if !st.FullResFresh || st.Commits != 1 {
		t.Errorf("status after export: fresh=%v commits=%d", st.FullResFresh, st.Commits)
	}
}

func TestControllerExportFailure(t *testing.T) {
	enc := &captureEncoder{err: errors.New("disk full")}
	c := newTestController(t, time.Hour, enc)
	ctx := context.Background()
	if err := c.LoadFile(ctx, "color.nef"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetParameter("vibrance", 0.4); err != nil {
		t.Fatal(err)
	}

	err := c.Export(ctx, "out.jpg")
	if !errors.Is(err, ErrExportIO) {
		t.Fatalf("got %v, want ErrExportIO", err)
	}

	if c.State() != StateEditing {
		t.Errorf("state after failed export: %s", c.State())
	}
	if got := c.Parameters().Vibrance; got != 0.4 {
		t.Errorf("parameters after failed export: %v", got)
	}
	if c.Session().Filename != "color.nef" {
		t.Error("session should survive a failed export")
	}
	if st := c.Status(); !st.FullResFresh || st.Commits != 1 {
		t.Errorf("failed export keeps its commit: fresh=%v commits=%d", st.FullResFresh, st.Commits)
	}
}

func TestControllerLoadResetsEdits(t *testing.T) {
	c := newTestController(t, time.Hour, &captureEncoder{})
	ctx := context.Background()
	if err := c.LoadFile(ctx, "gray.arw"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetParameters(adjust.Parameters{Exposure: 0.5, Saturation: -0.5}); err != nil {
		t.Fatal(err)
	}
	if !c.Status().CommitPending {
		t.Fatal("expected a pending commit")
	}

	if err := c.LoadFile(ctx, "color.nef"); err != nil {
		t.Fatal(err)
	}
	st := c.Status()
	if st.State != StateLoaded || !st.Parameters.IsZero() {
		t.Errorf("after reload: state=%s params=%v", st.State, st.Parameters)
	}
	if st.CommitPending {
		t.Error("reload should cancel the pending commit")
	}
	if st.Readouts["exposure"] != "0.00" {
		t.Errorf("readout: got %q", st.Readouts["exposure"])
	}
}

// serialEncoder records the largest number of Encode calls seen at once.
type serialEncoder struct {
	captureEncoder
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (e *serialEncoder) Encode(path string, img image.Image) error {
	n := e.active.Add(1)
	defer e.active.Add(-1)
	for {
		m := e.maxSeen.Load()
		if n <= m || e.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return e.captureEncoder.Encode(path, img)
}

func TestControllerConcurrentEditsAndExports(t *testing.T) {
	enc := &serialEncoder{}
	c := NewController(Options{
		Decoder:  fakeDecoder{"big.arw": createInMemoryImage(1200, 800, color.NRGBA{64, 64, 64, 255})},
		Encoder:  enc,
		Debounce: 5 * time.Millisecond,
		Logger:   quietLogger(),
	})
	t.Cleanup(c.Close)
	ctx := context.Background()
	if err := c.LoadFile(ctx, "big.arw"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			if _, err := c.SetParameter("exposure", float64(i%5)/5); err != nil {
				errs <- err
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if err := c.Export(ctx, fmt.Sprintf("out-%d.jpg", i)); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Status()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent call failed: %v", err)
	}
	if got := enc.maxSeen.Load(); got != 1 {
		t.Errorf("exports in flight at once: got %d, want 1", got)
	}

	if _, err := c.SetParameter("exposure", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Export(ctx, "final.jpg"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	path, img := enc.last()
	if path != "final.jpg" {
		t.Fatalf("last export: got %q", path)
	}
	got := color.NRGBAModel.Convert(img.At(600, 400)).(color.NRGBA)
	if got.R != 128 {
		t.Errorf("final exported pixel: got %v, want gray 128", got)
	}
	if st := c.Status(); !st.FullResFresh || st.Parameters.Exposure != 1 {
		t.Errorf("final status: fresh=%v params=%v", st.FullResFresh, st.Parameters)
	}
}

func TestControllerCloseStopsCommits(t *testing.T) {
	c := NewController(Options{
		Decoder:  fakeDecoder{"big.arw": createInMemoryImage(1200, 800, color.NRGBA{64, 64, 64, 255})},
		Encoder:  &captureEncoder{},
		Debounce: time.Millisecond,
		Logger:   quietLogger(),
	})
	if err := c.LoadFile(context.Background(), "big.arw"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SetParameter("saturation", 0.5); err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * time.Millisecond)
	c.Close()

	after := c.Status().Commits
	if _, err := c.SetParameter("saturation", -0.5); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if got := c.Status().Commits; got != after {
		t.Errorf("commits after Close: got %d, want %d", got, after)
	}

	if err := c.CommitFullRes(); err != nil {
		t.Fatalf("explicit commit after Close: %v", err)
	}
	if !c.Status().FullResFresh {
		t.Error("explicit commit should still run after Close")
	}
}

func absDiff32(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}
