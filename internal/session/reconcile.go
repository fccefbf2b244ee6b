package session

import (
	"log/slog"

	"github.com/finlane/tutordock/internal/domain"
)

// Reconciler makes the engine's real play/pause status match the session's
// desired intent. It subscribes to the store and runs after every committed
// intent; with no engine attached it simply waits, because the store
// re-broadcasts once on attach.
//
// Corrective commands never feed a state change back into the store, so a
// reconciliation pass cannot trigger another one. A rejected command (for
// example the backend refusing to start playback) is logged and not retried:
// the stored intent survives, and any later intent or attach gives the
// engine another chance to converge.
type Reconciler struct {
	registry *Registry
	logger   *slog.Logger
}

// NewReconciler creates a reconciler reading engine handles from the registry.
func NewReconciler(registry *Registry, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{registry: registry, logger: logger}
}

// OnSessionChange implements domain.SessionListener.
func (r *Reconciler) OnSessionChange(snapshot domain.SessionSnapshot) {
	h := r.registry.Get()
	if h == nil {
		return
	}

	paused, err := h.Paused()
	if err != nil {
		r.logger.Warn("engine status query failed", "error", err)
		return
	}

	desired := snapshot.Live && snapshot.Session.IsPlaying
	actual := !paused
	if desired == actual {
		return
	}

	if desired {
		if err := h.Play(); err != nil {
			r.logger.Warn("engine play rejected", "error", err)
		}
		return
	}
	if err := h.Pause(); err != nil {
		r.logger.Warn("engine pause rejected", "error", err)
	}
}
