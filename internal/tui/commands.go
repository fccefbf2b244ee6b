package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finlane/tutordock/internal/domain"
	"github.com/finlane/tutordock/internal/engine"
	"github.com/finlane/tutordock/internal/session"
)

// waitForSession blocks on the observer channel and converts the next
// snapshot into a message. Re-issued after every SessionMsg.
func waitForSession(ch <-chan domain.SessionSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SessionMsg(snap)
	}
}

// ensureEngine makes sure a media engine is driving the current session. A
// handle already registered is reused as-is, which is what keeps relocation
// and cross-page moves glitch-free; only a session with an empty registry
// slot gets a fresh engine.
func (m *Model) ensureEngine() tea.Cmd {
	snap := m.store.Snapshot()
	if !snap.Live {
		return nil
	}

	if m.registry.Get() != nil {
		return func() tea.Msg { return EngineReadyMsg{} }
	}

	url := snap.Session.SourceURL
	startAt := snap.Session.CurrentTime
	cfg := m.cfg
	registry := m.registry
	store := m.store
	logger := m.logger

	return func() tea.Msg {
		eng, err := engine.Launch(url, engine.Options{
			Binary:    cfg.Player.Command,
			Args:      cfg.Player.Args,
			SocketDir: cfg.Player.SocketDir,
			StartAt:   startAt,
			Logger:    logger,
		})
		if err != nil {
			return ErrMsg{Err: err, Context: "failed to start player"}
		}
		registry.Attach(eng)
		go session.Pump(eng.Events(), store, logger)
		return EngineReadyMsg{}
	}
}
