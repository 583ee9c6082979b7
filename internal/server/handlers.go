package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/raw-editor-mcp/internal/adjust"
	"github.com/ironsheep/raw-editor-mcp/internal/editor"
	"github.com/ironsheep/raw-editor-mcp/internal/imaging"
	"github.com/ironsheep/raw-editor-mcp/internal/logging"
	"github.com/ironsheep/raw-editor-mcp/internal/metadata"
	"github.com/ironsheep/raw-editor-mcp/internal/raw"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raw_load", "raw_set_parameter").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	logging.LogToolCall(s.logger, params.Name, time.Since(start), err)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "raw_load":
		return s.handleRawLoad(ctx, args)
	case "raw_status":
		return s.ctrl.Status(), nil
	case "raw_supported_formats":
		return s.handleSupportedFormats()

	// Adjustments
	case "raw_set_parameter":
		return s.handleSetParameter(args)
	case "raw_set_parameters":
		return s.handleSetParameters(args)
	case "raw_get_parameters":
		return s.parameterResult(), nil
	case "raw_commit":
		return s.handleCommit()
	case "raw_export":
		return s.handleExport(ctx, args)

	// Inspection
	case "raw_preview":
		return s.handlePreview(args)
	case "raw_sample_color":
		return s.handleSampleColor(args)
	case "raw_sample_colors_multi":
		return s.handleSampleColorsMulti(args)
	case "raw_region_stats":
		return s.handleRegionStats(args)

	// Metadata
	case "raw_metadata":
		return s.handleMetadata()
	case "raw_camera_info":
		return s.handleCameraInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as an empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// === Session Handlers ===

type rawLoadArgs struct {
	Path string `json:"path"`
}

type rawLoadResult struct {
	editor.Status
	Camera   metadata.CameraLensInfo `json:"camera"`
	TagCount int                     `json:"tag_count"`
	IsRaw    bool                    `json:"is_raw"`
}

func (s *Server) handleRawLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a rawLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if err := s.ctrl.LoadFile(ctx, a.Path); err != nil {
		return nil, err
	}

	sess := s.ctrl.Session()
	return &rawLoadResult{
		Status:   s.ctrl.Status(),
		Camera:   sess.Camera,
		TagCount: len(sess.Metadata),
		IsRaw:    raw.IsRawFile(a.Path),
	}, nil
}

type supportedFormatsResult struct {
	Extensions []string `json:"extensions"`
	Filter     string   `json:"filter"`
}

func (s *Server) handleSupportedFormats() (interface{}, error) {
	return &supportedFormatsResult{
		Extensions: raw.Extensions,
		Filter:     raw.FileFilter(),
	}, nil
}

// === Adjustment Handlers ===

type parameterResult struct {
	State         editor.State      `json:"state"`
	Parameters    adjust.Parameters `json:"parameters"`
	Readouts      map[string]string `json:"readouts"`
	CommitPending bool              `json:"commit_pending"`
}

func (s *Server) parameterResult() *parameterResult {
	st := s.ctrl.Status()
	return &parameterResult{
		State:         st.State,
		Parameters:    st.Parameters,
		Readouts:      st.Readouts,
		CommitPending: st.CommitPending,
	}
}

type setParameterArgs struct {
	Name   string   `json:"name"`
	Value  *float64 `json:"value"`
	Slider *int     `json:"slider"`
}

func (s *Server) handleSetParameter(args json.RawMessage) (interface{}, error) {
	var a setParameterArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	var value float64
	switch {
	case a.Value != nil:
		value = *a.Value
	case a.Slider != nil:
		value = adjust.FromSlider(*a.Slider)
	default:
		return nil, errors.New("value or slider is required")
	}

	if _, err := s.ctrl.SetParameter(a.Name, value); err != nil {
		return nil, err
	}
	return s.parameterResult(), nil
}

func (s *Server) handleSetParameters(args json.RawMessage) (interface{}, error) {
	var p adjust.Parameters
	if err := unmarshalArgs(args, &p); err != nil {
		return nil, err
	}
	if _, err := s.ctrl.SetParameters(p); err != nil {
		return nil, err
	}
	return s.parameterResult(), nil
}

func (s *Server) handleCommit() (interface{}, error) {
	if err := s.ctrl.CommitFullRes(); err != nil {
		return nil, err
	}
	return s.ctrl.Status(), nil
}

type exportArgs struct {
	Path string `json:"path"`
}

type exportResult struct {
	Path       string            `json:"path"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Parameters adjust.Parameters `json:"parameters"`
}

func (s *Server) handleExport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if err := s.ctrl.Export(ctx, a.Path); err != nil {
		return nil, err
	}

	full := s.ctrl.FullRes()
	return &exportResult{
		Path:       a.Path,
		Width:      full.Width,
		Height:     full.Height,
		Parameters: s.ctrl.Session().Committed(),
	}, nil
}

// === Inspection Handlers ===

// buffer resolves a source name to the adjusted preview or committed full-res buffer.
func (s *Server) buffer(source string) (*imaging.ImageBuffer, error) {
	var buf *imaging.ImageBuffer
	switch source {
	case "", "preview":
		buf = s.ctrl.Preview()
	case "full":
		buf = s.ctrl.FullRes()
	default:
		return nil, fmt.Errorf("unknown source %q: use preview or full", source)
	}
	if buf == nil {
		return nil, editor.ErrNoSession
	}
	return buf, nil
}

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// region returns nil when no bounds were given, selecting the whole buffer.
func (a regionArgs) region() *imaging.Region {
	if a.X2 == 0 && a.Y2 == 0 {
		return nil
	}
	return &imaging.Region{X1: a.X1, Y1: a.Y1, X2: a.X2, Y2: a.Y2}
}

type previewArgs struct {
	regionArgs
	Source          string  `json:"source"`
	Scale           float64 `json:"scale"`
	GridSpacing     int     `json:"grid_spacing"`
	ShowCoordinates bool    `json:"show_coordinates"`
	GridColor       string  `json:"grid_color"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.buffer(a.Source)
	if err != nil {
		return nil, err
	}

	opts := imaging.RenderOptions{Region: a.region(), Scale: a.Scale}
	if a.GridSpacing > 0 {
		opts.Grid = &imaging.GridOptions{
			Spacing: a.GridSpacing,
			Labels:  a.ShowCoordinates,
			Color:   a.GridColor,
		}
	}
	return imaging.Render(buf, opts)
}

type regionStatsArgs struct {
	regionArgs
	Source string `json:"source"`
}

func (s *Server) handleRegionStats(args json.RawMessage) (interface{}, error) {
	var a regionStatsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.buffer(a.Source)
	if err != nil {
		return nil, err
	}
	return imaging.RegionStats(buf, a.region())
}

type sampleColorArgs struct {
	Source string `json:"source"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.buffer(a.Source)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(buf, a.X, a.Y)
}

type sampleColorsMultiArgs struct {
	Source string `json:"source"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label"`
	} `json:"points"`
}

func (s *Server) handleSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a sampleColorsMultiArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	buf, err := s.buffer(a.Source)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(buf, points)
}

// === Metadata Handlers ===

type metadataResult struct {
	File  string         `json:"file"`
	Count int            `json:"count"`
	Rows  []metadata.Row `json:"rows"`
}

func (s *Server) handleMetadata() (interface{}, error) {
	sess := s.ctrl.Session()
	if sess == nil {
		return nil, editor.ErrNoSession
	}
	return &metadataResult{
		File:  sess.Filename,
		Count: len(sess.Metadata),
		Rows:  sess.Metadata.Rows(),
	}, nil
}

func (s *Server) handleCameraInfo() (interface{}, error) {
	sess := s.ctrl.Session()
	if sess == nil {
		return nil, editor.ErrNoSession
	}
	return sess.Camera, nil
}
