package tui

import "github.com/finlane/tutordock/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SessionMsg delivers a committed session snapshot from the store.
type SessionMsg domain.SessionSnapshot

// EngineReadyMsg signals that a media engine is attached and reconciling.
type EngineReadyMsg struct{}
