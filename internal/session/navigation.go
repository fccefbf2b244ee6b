package session

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/finlane/tutordock/internal/domain"
)

// NavigationWatcher consumes "navigation completed" signals from the app
// shell and applies the coordinator's one automatic transition: an inline
// session that is playing gets relocated to the floating overlay when the
// destination page has no inline slot for it. Every other transition in the
// system is user-initiated.
type NavigationWatcher struct {
	store  *Store
	logger *slog.Logger

	mu         sync.RWMutex
	homeRoutes []string
}

// NewNavigationWatcher creates a watcher with the initial allowlist of
// tutorial-hosting route prefixes.
func NewNavigationWatcher(store *Store, homeRoutes []string, logger *slog.Logger) *NavigationWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigationWatcher{
		store:      store,
		logger:     logger,
		homeRoutes: append([]string(nil), homeRoutes...),
	}
}

// AddHomeRoute adds a tutorial-hosting route prefix to the allowlist.
func (w *NavigationWatcher) AddHomeRoute(prefix string) {
	if prefix == "" {
		return
	}
	w.mu.Lock()
	w.homeRoutes = append(w.homeRoutes, prefix)
	w.mu.Unlock()
}

// HasHome reports whether the destination path hosts an inline tutorial
// slot, by literal prefix membership in the allowlist.
func (w *NavigationWatcher) HasHome(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, prefix := range w.homeRoutes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// NavigationCompleted handles a finished navigation to path.
func (w *NavigationWatcher) NavigationCompleted(path string) {
	snap := w.store.Snapshot()
	if !snap.Live || !snap.Session.IsPlaying || snap.Session.DisplayMode != domain.ModeInline {
		return
	}
	if w.HasHome(path) {
		return
	}

	w.logger.Info("auto-relocating to overlay", "path", path, "videoID", snap.Session.VideoID)
	w.store.Relocate(domain.ModeFloating)
}
