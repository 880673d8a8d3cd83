// Package server implements the MCP (Model Context Protocol) server for
// document scanning.
//
// This package provides a JSON-RPC 2.0 server that exposes the document
// detection and perspective-correction pipeline through the MCP protocol, so
// MCP clients can turn photos of paper pages into upright scans.
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
// The server provides 9 tools organized into categories:
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_edge_detect: Canny edge map, for diagnosing missed pages
//
// Document Scanning:
//   - document_detect: Find four-corner page outlines
//   - document_scan: Detect and correct a page in one step
//   - document_correct: Correct a page from supplied corners
//   - document_crop: Extract a rectangular region
//   - document_enhance: Binarize an upright page
//   - document_overlay: Draw a page outline for review
//
// A photo without a recognizable page is not a protocol error. The document
// tools answer with found=false and a reason instead.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, cfg.NewLogger(os.Stderr))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Serve accepts any reader and writer, which tests use to drive the server
// without stdio.
package server
