package tui

import "github.com/charmbracelet/bubbles/key"

// AppKeyMap defines the global key bindings
type AppKeyMap struct {
	Quit     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Picker   key.Binding
	Escape   key.Binding
}

// DefaultAppKeyMap returns the default global key bindings
func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev page"),
		),
		Picker: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tutorials"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

// PlaybackKeyMap defines key bindings shared by the playback hosts
type PlaybackKeyMap struct {
	PlayPause key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	VolDown   key.Binding
	VolUp     key.Binding
	Float     key.Binding
	Dock      key.Binding
	Minimize  key.Binding
	Restore   key.Binding
	Position  key.Binding
	Size      key.Binding
	Close     key.Binding
}

// DefaultPlaybackKeyMap returns the default playback key bindings
func DefaultPlaybackKeyMap() PlaybackKeyMap {
	return PlaybackKeyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek -5s"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek +5s"),
		),
		VolDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		VolUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		Float: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "pop out"),
		),
		Dock: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "dock inline"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimize"),
		),
		Restore: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "restore"),
		),
		Position: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "move overlay"),
		),
		Size: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "resize overlay"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close video"),
		),
	}
}
