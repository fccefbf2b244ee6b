package session

import (
	"log/slog"

	"github.com/finlane/tutordock/internal/domain"
)

// Pump forwards engine events into the store as intents until the events
// channel closes. Run it in its own goroutine, one per attached engine; it
// is the only path by which engine-side progress reaches session state.
func Pump(events <-chan domain.EngineEvent, store *Store, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for ev := range events {
		switch ev.Kind {
		case domain.EventTimeUpdate:
			store.UpdateTime(ev.Seconds)
		case domain.EventDurationChange:
			store.UpdateDuration(ev.Seconds)
		case domain.EventEnded:
			store.SetPlaying(false)
		case domain.EventError:
			// Engine failures never cascade into session teardown; the
			// worst case is playback staying paused until the next intent.
			logger.Warn("engine error", "error", ev.Err)
		}
	}
}
