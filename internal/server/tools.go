package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperty selects which buffer a read-only tool inspects.
var sourceProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"preview", "full"},
	"description": "Buffer to read: the adjusted preview (default) or the committed full-resolution image",
	"default":     "preview",
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "raw_load",
			Description: "Decode a RAW photo and start a new edit session. Resets all adjustments to zero and reads EXIF metadata.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the RAW file (ARW, DNG, NEF, CR2, RW2, RAF, ORF, SRW)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raw_status",
			Description: "Report the edit session state: loaded file, dimensions, current adjustments, and whether a full-resolution commit is pending.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "raw_supported_formats",
			Description: "List the RAW file extensions accepted by the editor.",
			InputSchema: emptySchema(),
		},

		// Adjustments
		{
			Name:        "raw_set_parameter",
			Description: "Set one adjustment (exposure, saturation, or vibrance). The preview updates immediately; the full-resolution image is recomputed after a short quiet period.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"exposure", "saturation", "vibrance"},
						"description": "Adjustment to change",
					},
					"value": map[string]interface{}{
						"type":        "number",
						"minimum":     -1,
						"maximum":     1,
						"description": "New value in [-1, 1]. Exposure is in stops.",
					},
					"slider": map[string]interface{}{
						"type":        "integer",
						"minimum":     -100,
						"maximum":     100,
						"description": "Alternative to value: slider position in [-100, 100], divided by 100",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "raw_set_parameters",
			Description: "Set all three adjustments at once. Omitted adjustments are set to zero.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"exposure": map[string]interface{}{
						"type":        "number",
						"description": "Exposure in stops, [-1, 1]",
					},
					"saturation": map[string]interface{}{
						"type":        "number",
						"description": "Saturation, [-1, 1]",
					},
					"vibrance": map[string]interface{}{
						"type":        "number",
						"description": "Vibrance, [-1, 1]",
					},
				},
			},
		},
		{
			Name:        "raw_get_parameters",
			Description: "Get the current adjustment values and their two-decimal readouts.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "raw_commit",
			Description: "Recompute the full-resolution image now instead of waiting for the quiet period.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "raw_export",
			Description: "Apply the current adjustments at full resolution and save the result as JPEG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute output path; the directory must exist",
					},
				},
				"required": []string{"path"},
			},
		},

		// Inspection
		{
			Name:        "raw_preview",
			Description: "Return the adjusted image as base64-encoded PNG, optionally cropped to a region and scaled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty,
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive); omit x2 and y2 for the whole image",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor in (0, 4]. Default 1.0",
						"default":     1.0,
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a grid every N image pixels (0 = no grid)",
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with their x,y coordinates",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color in hex format (default: #FF000080, semi-transparent red)",
					},
				},
			},
		},
		{
			Name:        "raw_sample_color",
			Description: "Get the adjusted color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "raw_sample_colors_multi",
			Description: "Get adjusted color values at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty,
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"points"},
			},
		},

		{
			Name:        "raw_region_stats",
			Description: "Measure mean color, mean saturation, clipped highlights and shadows, and a luminance histogram over the whole image or a region. Useful for judging exposure.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty,
					"x1":     map[string]interface{}{"type": "integer"},
					"y1":     map[string]interface{}{"type": "integer"},
					"x2":     map[string]interface{}{"type": "integer", "description": "Omit x2 and y2 for the whole image"},
					"y2":     map[string]interface{}{"type": "integer"},
				},
			},
		},

		// Metadata
		{
			Name:        "raw_metadata",
			Description: "List the EXIF tags of the loaded file as key/value rows sorted by key.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "raw_camera_info",
			Description: "Get camera make and model, lens model, focal length (mm), and aperture. Missing focal length defaults to 50 mm, missing aperture to f/2.8.",
			InputSchema: emptySchema(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
