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

// FloatingHost renders the session as a floating overlay anchored to one of
// the five position presets, surviving page changes. It owns the overlay
// interactions: move, resize, minimize, restore, dock.
type FloatingHost struct {
	store    *session.Store
	keys     PlaybackKeyMap
	progress progress.Model
}

// NewFloatingHost creates the overlay surface bound to the store.
func NewFloatingHost(store *session.Store) *FloatingHost {
	return &FloatingHost{
		store:    store,
		keys:     DefaultPlaybackKeyMap(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// HandleKey translates a key press into a store intent. Returns true when
// the key was consumed.
func (h *FloatingHost) HandleKey(msg tea.KeyMsg, snap domain.SessionSnapshot) bool {
	if !snap.Live {
		return false
	}

	if snap.Session.Floating.Minimized {
		switch {
		case key.Matches(msg, h.keys.Restore):
			h.store.Restore()
		case key.Matches(msg, h.keys.Close):
			h.store.Close()
		default:
			return false
		}
		return true
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
	case key.Matches(msg, h.keys.Minimize):
		h.store.Minimize()
	case key.Matches(msg, h.keys.Position):
		h.store.SetFloatingPosition(snap.Session.Floating.Position.Next())
	case key.Matches(msg, h.keys.Size):
		h.store.SetFloatingSize(snap.Session.Floating.Size.Toggle())
	case key.Matches(msg, h.keys.Dock):
		h.store.Relocate(domain.ModeInline)
	case key.Matches(msg, h.keys.Close):
		h.store.Close()
	default:
		return false
	}
	return true
}

// Render places the expanded overlay within the given viewport according to
// the session's anchor preset. Minimized sessions render nothing here; the
// indicator host owns that state.
func (h *FloatingHost) Render(snap domain.SessionSnapshot, title string, width, height int) string {
	if !snap.Live || snap.Session.Floating.Minimized {
		return ""
	}
	s := snap.Session

	boxWidth := width * 2 / 5
	if s.Floating.Size == domain.SizeFull {
		boxWidth = width - 8
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	inner := boxWidth - 4
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
	meta := styles.SubtitleStyle.Render(s.FormattedTime()) +
		styles.DimStyle.Render("  ·  "+s.Floating.Position.String()+" / "+s.Floating.Size.String())
	help := styles.DimStyle.Render("m minimize · f move · s resize · i dock · x close")

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", bar, meta, help)
	box := styles.ActiveBorder.Width(inner + 2).Render(body)

	hAlign, vAlign := anchorAlignment(s.Floating.Position)
	return lipgloss.Place(width, height, hAlign, vAlign, box)
}

// anchorAlignment maps a position preset onto lipgloss placement.
func anchorAlignment(p domain.FloatingPosition) (lipgloss.Position, lipgloss.Position) {
	switch p {
	case domain.PositionBottomRight:
		return lipgloss.Right, lipgloss.Bottom
	case domain.PositionBottomLeft:
		return lipgloss.Left, lipgloss.Bottom
	case domain.PositionTopRight:
		return lipgloss.Right, lipgloss.Top
	case domain.PositionTopLeft:
		return lipgloss.Left, lipgloss.Top
	default:
		return lipgloss.Center, lipgloss.Center
	}
}
