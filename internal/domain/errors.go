package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrEngineClosed indicates the media engine was shut down
	ErrEngineClosed = errors.New("media engine is closed")

	// ErrTutorialNotFound indicates the requested tutorial is not in the catalog
	ErrTutorialNotFound = errors.New("tutorial not found")
)
