package domain

// PositionStore persists per-video playback positions across sessions.
type PositionStore interface {
	// Position returns the last saved position for a video, or false if
	// none was ever recorded.
	Position(videoID string) (float64, bool)

	// SavePosition records the position for a video, overwriting any
	// previous value.
	SavePosition(videoID string, seconds float64) error
}

// SessionListener receives a snapshot after every committed session intent.
// Listeners are invoked synchronously in intent order and must not call back
// into the session store; bridge through a channel for asynchronous work.
type SessionListener interface {
	OnSessionChange(snapshot SessionSnapshot)
}
