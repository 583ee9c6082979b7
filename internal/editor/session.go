package editor

import (
	"fmt"
	"image"

	"github.com/ironsheep/raw-editor-mcp/internal/adjust"
	"github.com/ironsheep/raw-editor-mcp/internal/imaging"
	"github.com/ironsheep/raw-editor-mcp/internal/metadata"
	"github.com/ironsheep/raw-editor-mcp/internal/raw"
)

// Session is the state of one loaded photo.
//
// The decoded full-resolution buffer is kept unchanged as the commit source,
// so re-adjusting a control recomputes from the decoded pixels instead of
// compounding earlier edits. FullRes and Preview are never modified in place;
// a commit replaces FullRes wholesale.
type Session struct {
	// Filename is the source file the session was loaded from.
	Filename string

	// Metadata is the EXIF mapping read at load time.
	Metadata metadata.Map

	// Camera is derived from Metadata at load time.
	Camera metadata.CameraLensInfo

	// Scale is the preview scale factor.
	Scale float64

	original *imaging.ImageBuffer
	fullRes  *imaging.ImageBuffer
	preview  *imaging.ImageBuffer

	committed adjust.Parameters
}

// Load builds a session from an 8-bit RGB raster: the raster is normalized to
// [0,1] as the full-resolution buffer, and the preview is derived from it by
// area-averaging resize to scale × (width, height), rounded down.
//
// Errors wrap raw.ErrDecode when the raster is empty or has fewer than three
// channels.
func Load(raster image.Image, scale float64) (*Session, error) {
	if err := imaging.ValidateScale(scale); err != nil {
		return nil, err
	}

	full, err := imaging.FromImage(raster)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", raw.ErrDecode, err)
	}

	preview, err := imaging.Downsample(full, scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", raw.ErrDecode, err)
	}

	return &Session{
		Metadata: metadata.Map{},
		Camera:   metadata.ParseCameraLensInfo(nil),
		Scale:    scale,
		original: full,
		fullRes:  full,
		preview:  preview,
	}, nil
}

// Original returns the decoded full-resolution buffer.
func (s *Session) Original() *imaging.ImageBuffer { return s.original }

// FullRes returns the last committed full-resolution buffer.
func (s *Session) FullRes() *imaging.ImageBuffer { return s.fullRes }

// Preview returns the unadjusted preview buffer.
func (s *Session) Preview() *imaging.ImageBuffer { return s.preview }

// Committed returns the parameters FullRes was computed with.
func (s *Session) Committed() adjust.Parameters { return s.committed }
