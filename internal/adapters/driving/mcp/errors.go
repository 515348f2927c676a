// Package mcp exposes ragdesk over the Model Context Protocol so AI
// assistants can ask questions about an organization's documents.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// errServiceUnavailable is returned by tools whose port was not wired.
var errServiceUnavailable = errors.New("mcp: service not available")
