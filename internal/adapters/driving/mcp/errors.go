// Package mcp provides an MCP (Model Context Protocol) server adapter for salesboard.
// It lets AI assistants query the loaded sales dataset: chart aggregates,
// filtered table pages and the category list.
package mcp

import "errors"

// ErrMissingDatasetService is returned when the dataset service is not provided.
var ErrMissingDatasetService = errors.New("mcp: dataset service is required")
