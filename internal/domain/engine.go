package domain

// Engine is the narrow capability surface the coordinator requires from a
// media backend. Any player that can report and mutate its pause state and
// position can drive a session; the coordinator never depends on a concrete
// implementation.
type Engine interface {
	// Play asks the engine to start or resume playback.
	Play() error

	// Pause asks the engine to halt playback.
	Pause() error

	// Paused reports the engine's real pause status (ground truth, as
	// opposed to the session's desired intent).
	Paused() (bool, error)

	// CurrentTime reports the playback position in seconds.
	CurrentTime() (float64, error)

	// SetCurrentTime seeks to the given position in seconds.
	SetCurrentTime(seconds float64) error

	// Duration reports the media length in seconds (0 if not yet known).
	Duration() (float64, error)

	// SetVolume sets the engine volume, 0..1.
	SetVolume(v float64) error

	// Events delivers engine-originated notifications. The channel is
	// closed when the engine shuts down. Delivery is best-effort; slow
	// consumers may miss intermediate time updates but never commands.
	Events() <-chan EngineEvent

	// Close tears the engine down and releases its process/connection.
	Close() error
}

// EngineEventKind classifies engine notifications.
type EngineEventKind int

const (
	// EventTimeUpdate reports playback position progress.
	EventTimeUpdate EngineEventKind = iota

	// EventDurationChange reports the media duration becoming known or changing.
	EventDurationChange

	// EventEnded reports that playback reached the end of the media.
	EventEnded

	// EventError reports an engine-side failure (command rejected, IPC lost).
	EventError
)

// EngineEvent is a single engine notification. Seconds carries the position
// or duration for time events; Err is set for EventError only.
type EngineEvent struct {
	Kind    EngineEventKind
	Seconds float64
	Err     error
}
