package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finlane/tutordock/internal/domain"
	"github.com/finlane/tutordock/internal/session"
	"github.com/finlane/tutordock/internal/tui/styles"
)

const seekStep = 5.0 // seconds per arrow-key seek

// InlineHost renders the session in the page's designated slot. Like every
// host it is a pure subscriber: it reads snapshots and issues intents on the
// store, never mutating session state itself.
type InlineHost struct {
	store    *session.Store
	keys     PlaybackKeyMap
	progress progress.Model
}

// NewInlineHost creates the inline surface bound to the store.
func NewInlineHost(store *session.Store) *InlineHost {
	return &InlineHost{
		store:    store,
		keys:     DefaultPlaybackKeyMap(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// HandleKey translates a key press into a store intent. Returns true when
// the key was consumed.
func (h *InlineHost) HandleKey(msg tea.KeyMsg, snap domain.SessionSnapshot) bool {
	if !snap.Live {
		return false
	}

	switch {
	case key.Matches(msg, h.keys.PlayPause):
		h.store.TogglePlaying()
	case key.Matches(msg, h.keys.SeekBack):
		h.store.SeekTo(snap.Session.CurrentTime - seekStep)
	case key.Matches(msg, h.keys.SeekFwd):
		h.store.SeekTo(snap.Session.CurrentTime + seekStep)
	case key.Matches(msg, h.keys.VolDown):
		h.store.SetVolume(snap.Session.Volume - 0.1)
	case key.Matches(msg, h.keys.VolUp):
		h.store.SetVolume(snap.Session.Volume + 0.1)
	case key.Matches(msg, h.keys.Float):
		h.store.Relocate(domain.ModeFloating)
	case key.Matches(msg, h.keys.Close):
		h.store.Close()
	default:
		return false
	}
	return true
}

// Render draws the inline player panel.
func (h *InlineHost) Render(snap domain.SessionSnapshot, title string, width int) string {
	if !snap.Live {
		return ""
	}
	s := snap.Session

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	h.progress.Width = inner

	status := styles.PausedChar
	if s.IsPlaying {
		status = styles.PlayingChar
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.AccentStyle.Render(status+" "),
		styles.TitleStyle.Render(title),
	)
	bar := h.progress.ViewAs(s.ProgressPercent() / 100)
	footer := styles.SubtitleStyle.Render(s.FormattedTime()) +
		styles.DimStyle.Render("  ·  space play/pause · ←/→ seek · o pop out · x close")

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", bar, footer)
	return styles.ActiveBorder.Width(inner + 2).Render(body)
}
