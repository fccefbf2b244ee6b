package tui

import (
	"github.com/finlane/tutordock/internal/domain"
	"github.com/finlane/tutordock/internal/session"
	"github.com/finlane/tutordock/internal/tui/styles"
)

// MinimizedHost renders the collapsed indicator pill for a minimized
// session. Its interactions (restore, close) are handled by the floating
// host's minimized branch; this surface only presents.
type MinimizedHost struct {
	store *session.Store
}

// NewMinimizedHost creates the indicator surface bound to the store.
func NewMinimizedHost(store *session.Store) *MinimizedHost {
	return &MinimizedHost{store: store}
}

// Render draws the pill, or nothing when the session is not minimized.
func (h *MinimizedHost) Render(snap domain.SessionSnapshot, title string) string {
	if !snap.Live || snap.Session.DisplayMode != domain.ModeFloating || !snap.Session.Floating.Minimized {
		return ""
	}

	label := styles.PausedChar + " " + title + " · " + snap.Session.FormattedTime()
	hint := " — m to resume"
	return styles.PillStyle.Render(label) + styles.DimStyle.Render(hint)
}
