// Package mcp exposes PocketBase operations as Model Context Protocol
// tools.
//
// The server wraps the official MCP SDK server and registers one tool
// per operation: authentication, collection management, record and user
// CRUD, file URL helpers and a raw request escape hatch. Handlers
// resolve a client through the session store, delegate to the matching
// service, and render the outcome as a single text content block. A
// successful call encodes {"success": true, ...} in the configured
// output format; a failure encodes the normalized error envelope with
// IsError set, so callers always get a structured result rather than a
// protocol error.
package mcp
