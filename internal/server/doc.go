// Package server implements the MCP (Model Context Protocol) server for the
// gauge reader.
//
// The server speaks JSON-RPC 2.0 over stdio so an MCP client can read dial
// gauges from image files and inspect every stage of the pipeline:
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
//   - gauge_read: Full pipeline, returns value and units
//   - gauge_locate_circle: Coarse pass only, returns the dial circle
//   - gauge_calibrate: Reference frame for a known circle and profile
//   - gauge_detect_needle: Needle segment and tip after refinement
//   - gauge_overlay: Annotated PNG of whatever stages succeeded
//   - gauge_read_units: OCR check of the printed units label
//
// Every image tool takes a path. The calibration profile comes either from
// a JSON5 file (config) or an inline object (profile). Coordinates in
// results are in full-image space.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so
// repeated calls against the same photo skip the decode.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(log, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
