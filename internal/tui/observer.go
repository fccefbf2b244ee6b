package tui

import "github.com/finlane/tutordock/internal/domain"

// ChannelObserver adapts domain.SessionListener to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan domain.SessionSnapshot
}

// NewChannelObserver creates a channel-based observer. The buffer absorbs
// bursts of time updates between TUI frames.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan domain.SessionSnapshot, 64)}
}

// Snapshots exposes the channel side consumed by the TUI.
func (o *ChannelObserver) Snapshots() <-chan domain.SessionSnapshot {
	return o.ch
}

// OnSessionChange sends the snapshot to the channel. When the buffer is full
// the oldest pending snapshot is dropped: the TUI only ever needs the most
// recent state, and the store must never block on a slow renderer.
func (o *ChannelObserver) OnSessionChange(snapshot domain.SessionSnapshot) {
	for {
		select {
		case o.ch <- snapshot:
			return
		default:
			select {
			case <-o.ch:
			default:
			}
		}
	}
}
