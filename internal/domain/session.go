package domain

import "fmt"

// DisplayMode identifies which surface currently presents the session.
type DisplayMode int

const (
	ModeHidden DisplayMode = iota
	ModeInline
	ModeFloating
)

// String returns the mode name for logging.
func (m DisplayMode) String() string {
	switch m {
	case ModeHidden:
		return "hidden"
	case ModeInline:
		return "inline"
	case ModeFloating:
		return "floating"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// FloatingPosition is one of the five overlay anchor presets.
type FloatingPosition int

const (
	PositionBottomRight FloatingPosition = iota
	PositionBottomLeft
	PositionTopRight
	PositionTopLeft
	PositionCenter
)

// Next cycles to the following preset, wrapping after center.
func (p FloatingPosition) Next() FloatingPosition {
	return (p + 1) % 5
}

// String returns the preset name for logging.
func (p FloatingPosition) String() string {
	switch p {
	case PositionBottomRight:
		return "bottom-right"
	case PositionBottomLeft:
		return "bottom-left"
	case PositionTopRight:
		return "top-right"
	case PositionTopLeft:
		return "top-left"
	case PositionCenter:
		return "center"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// FloatingSize is the overlay size preset.
type FloatingSize int

const (
	SizeHalf FloatingSize = iota
	SizeFull
)

// Toggle flips between the two size presets.
func (s FloatingSize) Toggle() FloatingSize {
	if s == SizeHalf {
		return SizeFull
	}
	return SizeHalf
}

// String returns the size name for logging.
func (s FloatingSize) String() string {
	if s == SizeFull {
		return "full"
	}
	return "half"
}

// FloatingState holds the overlay sub-state. It is only meaningful while
// DisplayMode is ModeFloating and is zeroed on every transition out of it,
// so stale overlay state cannot leak into inline presentation.
type FloatingState struct {
	Position  FloatingPosition
	Size      FloatingSize
	Minimized bool

	// WasPlayingBeforeMinimize preserves the playback intent captured at
	// minimize time so a later restore can resume it.
	WasPlayingBeforeMinimize bool
}

// PlaybackSession is the single live tutorial playback context. There is at
// most one per session store; all mutation goes through the store's intents.
type PlaybackSession struct {
	// Epoch uniquely identifies this incarnation of the session. Deferred
	// actions (the post-restore resume timer) capture it and are dropped
	// when it no longer matches, so a stale timer cannot act on a session
	// that was closed or replaced in the meantime.
	Epoch string

	VideoID   string
	SourceURL string

	CurrentTime float64 // seconds, clamped to [0, Duration]
	Duration    float64 // seconds, 0 until the engine reports it

	// IsPlaying is the desired playback intent, not ground truth. The real
	// player status lives in the attached engine; reconciliation drives the
	// engine toward this flag.
	IsPlaying bool

	Volume float64 // [0, 1]

	DisplayMode DisplayMode
	Floating    FloatingState
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s PlaybackSession) ProgressPercent() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.CurrentTime / s.Duration * 100
}

// FormattedTime renders "m:ss / m:ss" for display surfaces.
func (s PlaybackSession) FormattedTime() string {
	return fmt.Sprintf("%s / %s", formatSeconds(s.CurrentTime), formatSeconds(s.Duration))
}

func formatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// SessionSnapshot is the immutable view broadcast to subscribers after every
// committed intent. Session is the zero value when Live is false.
type SessionSnapshot struct {
	Live    bool
	Session PlaybackSession
}
