package domain

import "testing"

func TestFloatingPositionNext(t *testing.T) {
	order := []FloatingPosition{
		PositionBottomRight,
		PositionBottomLeft,
		PositionTopRight,
		PositionTopLeft,
		PositionCenter,
	}
	for i, p := range order {
		want := order[(i+1)%len(order)]
		if got := p.Next(); got != want {
			t.Errorf("%v.Next() = %v, want %v", p, got, want)
		}
	}
}

func TestFloatingSizeToggle(t *testing.T) {
	if SizeHalf.Toggle() != SizeFull {
		t.Error("expected half to toggle to full")
	}
	if SizeFull.Toggle() != SizeHalf {
		t.Error("expected full to toggle to half")
	}
}

func TestProgressPercent(t *testing.T) {
	tc := []struct {
		name     string
		current  float64
		duration float64
		want     float64
	}{
		{"Halfway", 50, 100, 50},
		{"Start", 0, 100, 0},
		{"End", 100, 100, 100},
		{"UnknownDuration", 30, 0, 0},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			s := PlaybackSession{CurrentTime: tt.current, Duration: tt.duration}
			if got := s.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormattedTime(t *testing.T) {
	tc := []struct {
		name     string
		current  float64
		duration float64
		want     string
	}{
		{"Zero", 0, 0, "0:00 / 0:00"},
		{"Minutes", 75, 600, "1:15 / 10:00"},
		{"Hours", 3725, 7200, "1:02:05 / 2:00:00"},
		{"SubSecondTruncated", 9.8, 60, "0:09 / 1:00"},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			s := PlaybackSession{CurrentTime: tt.current, Duration: tt.duration}
			if got := s.FormattedTime(); got != tt.want {
				t.Errorf("FormattedTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
