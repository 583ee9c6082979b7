// Package server implements the MCP (Model Context Protocol) server for RAW
// photo editing.
//
// This package provides a JSON-RPC 2.0 server that exposes one edit session
// through the MCP protocol. MCP clients load a RAW file, adjust exposure,
// saturation, and vibrance, inspect the result, and export a JPEG.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - raw_load: Decode a RAW file and start a session
//   - raw_status: Session state snapshot
//   - raw_supported_formats: Accepted RAW extensions
//
// Adjustments:
//   - raw_set_parameter: Change one control
//   - raw_set_parameters: Replace all controls
//   - raw_get_parameters: Current values and readouts
//   - raw_commit: Recompute full resolution now
//   - raw_export: Commit and write a JPEG
//
// Inspection:
//   - raw_preview: Adjusted image as base64 PNG
//   - raw_sample_color: Color at a pixel
//   - raw_sample_colors_multi: Colors at several pixels
//   - raw_region_stats: Mean color, clipping, and histogram
//
// Metadata:
//   - raw_metadata: EXIF tag listing
//   - raw_camera_info: Camera and lens parameters
//
// # Preview and Commit
//
// Every adjustment re-renders the quarter-size preview synchronously, so
// raw_preview always reflects the latest values. The full-resolution image
// is recomputed once the controls have been quiet for the configured debounce
// interval, or immediately on raw_commit and raw_export. Inspection tools read
// the preview unless "source": "full" is given.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A failed tool call never changes the session.
//
// # Usage
//
//	ctrl := editor.NewController(opts)
//	srv := server.New(ctrl, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
