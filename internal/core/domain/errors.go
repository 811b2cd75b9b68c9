package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// The normalisation and aggregation functions never return any of these:
// malformed input degrades to placeholders instead. They are used by the
// services and adapters around the core.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source type or file format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoDataset indicates nothing has been ingested yet.
	ErrNoDataset = errors.New("no dataset loaded")

	// ErrSourceUnavailable indicates a source could not be read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrWatchUnsupported indicates the source cannot report changes.
	ErrWatchUnsupported = errors.New("source does not support watching")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
