package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/finlane/tutordock/internal/adapter"
	"github.com/finlane/tutordock/internal/domain"
	"github.com/finlane/tutordock/internal/store"
)

// fakeEngine is a scripted media backend: pause state flips synchronously on
// Play/Pause so reconciliation outcomes are observable immediately.
type fakeEngine struct {
	mu         sync.Mutex
	paused     bool
	time       float64
	duration   float64
	volume     float64
	playCalls  int
	pauseCalls int
	seeks      []float64
	closed     bool
	failPlay   bool
	events     chan domain.EngineEvent
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{paused: true, events: make(chan domain.EngineEvent, 16)}
}

func (f *fakeEngine) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls++
	if f.failPlay {
		return errors.New("autoplay rejected")
	}
	f.paused = false
	return nil
}

func (f *fakeEngine) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauseCalls++
	f.paused = true
	return nil
}

func (f *fakeEngine) Paused() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused, nil
}

func (f *fakeEngine) CurrentTime() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.time, nil
}

func (f *fakeEngine) SetCurrentTime(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.time = seconds
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *fakeEngine) Duration() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration, nil
}

func (f *fakeEngine) SetVolume(v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
	return nil
}

func (f *fakeEngine) Events() <-chan domain.EngineEvent { return f.events }

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) isPaused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeEngine) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeEngine) lastSeek() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.seeks) == 0 {
		return 0, false
	}
	return f.seeks[len(f.seeks)-1], true
}

func newTestStore(t *testing.T) (*Store, *store.PositionStore, *Registry) {
	t.Helper()
	positions, err := store.NewPositionStore("") // memory-only
	if err != nil {
		t.Fatalf("failed to create position store: %v", err)
	}
	registry := NewRegistry(adapter.NullLogger())
	s := NewStore(positions, registry, Config{SettleDelay: 10 * time.Millisecond}, adapter.NullLogger())
	return s, positions, registry
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestLaunch(t *testing.T) {
	t.Run("FreshSessionStartsInlineAtZero", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})

		snap := s.Snapshot()
		if !snap.Live {
			t.Fatal("expected live session")
		}
		if snap.Session.CurrentTime != 0 {
			t.Errorf("expected currentTime 0, got %v", snap.Session.CurrentTime)
		}
		if snap.Session.DisplayMode != domain.ModeInline {
			t.Errorf("expected inline mode, got %v", snap.Session.DisplayMode)
		}
		if snap.Session.IsPlaying {
			t.Error("expected paused intent without autoplay")
		}
	})

	t.Run("SeedsFromPersistedPosition", func(t *testing.T) {
		s, positions, _ := newTestStore(t)
		positions.SavePosition("v1", 47)

		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		if got := s.Snapshot().Session.CurrentTime; got != 47 {
			t.Errorf("expected currentTime 47, got %v", got)
		}
	})

	t.Run("ExplicitStartTimeOverridesPersisted", func(t *testing.T) {
		s, positions, _ := newTestStore(t)
		positions.SavePosition("v1", 47)

		start := 12.0
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{StartTime: &start})
		if got := s.Snapshot().Session.CurrentTime; got != 12 {
			t.Errorf("expected currentTime 12, got %v", got)
		}
	})

	t.Run("SingleSessionInvariant", func(t *testing.T) {
		s, positions, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.UpdateTime(30)
		s.Launch("v2", "https://example.com/v2.mp4", LaunchOptions{})

		snap := s.Snapshot()
		if snap.Session.VideoID != "v2" {
			t.Fatalf("expected session for v2, got %q", snap.Session.VideoID)
		}
		// Replacement flushed the old session's position first.
		if pos, ok := positions.Position("v1"); !ok || pos != 30 {
			t.Errorf("expected v1 position 30 flushed, got %v (%v)", pos, ok)
		}
	})

	t.Run("ReplacementClosesOldEngine", func(t *testing.T) {
		s, _, registry := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		eng := newFakeEngine()
		registry.Attach(eng)

		s.Launch("v2", "https://example.com/v2.mp4", LaunchOptions{})
		if !eng.isClosed() {
			t.Error("expected old engine closed on replacement")
		}
		if registry.Get() != nil {
			t.Error("expected registry emptied on replacement")
		}
	})

	t.Run("RelaunchingActiveVideoRehomesWithoutReset", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{AutoPlay: true})
		s.UpdateTime(30)
		s.Relocate(domain.ModeFloating)

		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{AutoPlay: true})
		snap := s.Snapshot()
		if snap.Session.DisplayMode != domain.ModeInline {
			t.Errorf("expected inline after relaunch, got %v", snap.Session.DisplayMode)
		}
		if snap.Session.CurrentTime != 30 {
			t.Errorf("expected time preserved at 30, got %v", snap.Session.CurrentTime)
		}
	})

	t.Run("EmptyVideoIDIgnored", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("", "https://example.com/v1.mp4", LaunchOptions{})
		if s.Snapshot().Live {
			t.Error("expected no session for empty video id")
		}
	})
}

func TestMutatorsWithoutSession(t *testing.T) {
	s, _, _ := newTestStore(t)

	// Hosts call these speculatively during unmount races; all must be
	// silent no-ops.
	s.SetPlaying(true)
	s.TogglePlaying()
	s.SeekTo(10)
	s.UpdateTime(10)
	s.UpdateDuration(100)
	s.SetVolume(0.5)
	s.Relocate(domain.ModeFloating)
	s.Minimize()
	s.Restore()
	s.SetFloatingPosition(domain.PositionCenter)
	s.SetFloatingSize(domain.SizeFull)
	s.Close()

	if s.Snapshot().Live {
		t.Error("expected no session")
	}
}

func TestClamping(t *testing.T) {
	tc := []struct {
		name     string
		duration float64
		input    float64
		want     float64
	}{
		{"NegativeClampsToZero", 100, -5, 0},
		{"BeyondDurationClampsToDuration", 100, 250, 100},
		{"WithinRangeUnchanged", 100, 42, 42},
		{"UnknownDurationAllowsForward", 0, 42, 42},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
			if tt.duration > 0 {
				s.UpdateDuration(tt.duration)
			}
			s.UpdateTime(tt.input)
			if got := s.Snapshot().Session.CurrentTime; got != tt.want {
				t.Errorf("UpdateTime(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("DurationChangeReclamps", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.UpdateTime(90)
		s.UpdateDuration(60)
		if got := s.Snapshot().Session.CurrentTime; got != 60 {
			t.Errorf("expected reclamped time 60, got %v", got)
		}
	})
}

func TestPersistenceCoalescing(t *testing.T) {
	t.Run("WritesOnBucketChangeOnly", func(t *testing.T) {
		s, positions, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.UpdateDuration(100)

		s.UpdateTime(3)
		if _, ok := positions.Position("v1"); ok {
			t.Error("expected no checkpoint within the initial bucket")
		}

		s.UpdateTime(12)
		if pos, ok := positions.Position("v1"); !ok || pos != 12 {
			t.Errorf("expected checkpoint at 12, got %v (%v)", pos, ok)
		}

		s.UpdateTime(15)
		if pos, _ := positions.Position("v1"); pos != 12 {
			t.Errorf("expected no new checkpoint within bucket, got %v", pos)
		}

		// Seeking backward across the boundary checkpoints again.
		s.UpdateTime(5)
		if pos, _ := positions.Position("v1"); pos != 5 {
			t.Errorf("expected checkpoint at 5 after backward crossing, got %v", pos)
		}
	})

	t.Run("ExplicitSeekAlwaysCheckpoints", func(t *testing.T) {
		s, positions, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.UpdateDuration(100)

		s.SeekTo(33)
		if pos, ok := positions.Position("v1"); !ok || pos != 33 {
			t.Errorf("expected checkpoint at 33, got %v (%v)", pos, ok)
		}
	})

	t.Run("CloseFlushesExactPosition", func(t *testing.T) {
		s, positions, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.UpdateDuration(100)
		s.UpdateTime(47)
		s.Close()

		if pos, ok := positions.Position("v1"); !ok || pos != 47 {
			t.Errorf("expected flushed position 47, got %v (%v)", pos, ok)
		}
	})

	t.Run("ResumesAfterCloseAndRelaunch", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.UpdateDuration(100)
		s.UpdateTime(47)
		s.Close()

		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		if got := s.Snapshot().Session.CurrentTime; got != 47 {
			t.Errorf("expected resume at 47, got %v", got)
		}
	})
}

func TestMinimizeRestore(t *testing.T) {
	floatingSession := func(t *testing.T) (*Store, *Registry) {
		t.Helper()
		s, _, registry := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.Relocate(domain.ModeFloating)
		return s, registry
	}

	t.Run("MinimizeWhileInlineIsNoOp", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{AutoPlay: true})

		before := s.Snapshot()
		s.Minimize()
		after := s.Snapshot()
		if after != before {
			t.Errorf("expected state unchanged, got %+v", after)
		}
	})

	t.Run("MinimizeCapturesIntentAndPauses", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Minimize()

		snap := s.Snapshot()
		if !snap.Session.Floating.Minimized {
			t.Fatal("expected minimized")
		}
		if !snap.Session.Floating.WasPlayingBeforeMinimize {
			t.Error("expected wasPlayingBeforeMinimize true")
		}
		if snap.Session.IsPlaying {
			t.Error("expected isPlaying false while minimized")
		}
	})

	t.Run("MinimizePrefersEngineGroundTruth", func(t *testing.T) {
		s, registry := floatingSession(t)
		// Intent says paused, but the real player is running: the engine
		// wins the capture.
		eng := newFakeEngine()
		eng.paused = false
		registry.Attach(eng)

		s.Minimize()
		if !s.Snapshot().Session.Floating.WasPlayingBeforeMinimize {
			t.Error("expected ground-truth capture of playing engine")
		}
	})

	t.Run("DoubleMinimizeIsNoOp", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Minimize()
		s.Minimize()
		if !s.Snapshot().Session.Floating.WasPlayingBeforeMinimize {
			t.Error("expected captured intent preserved across duplicate minimize")
		}
	})

	t.Run("RestoreResumesAfterSettleDelay", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Minimize()
		s.Restore()

		snap := s.Snapshot()
		if snap.Session.Floating.Minimized {
			t.Fatal("expected un-minimized immediately")
		}
		if snap.Session.IsPlaying {
			t.Error("expected resumption deferred past the settle delay")
		}

		waitFor(t, time.Second, func() bool {
			return s.Snapshot().Session.IsPlaying
		})
	})

	t.Run("RestoreAfterPausedMinimizeStaysPaused", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.Minimize()
		s.Restore()

		time.Sleep(50 * time.Millisecond)
		if s.Snapshot().Session.IsPlaying {
			t.Error("expected no resumption when minimize captured paused")
		}
	})

	t.Run("CloseDropsPendingResume", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Minimize()
		s.Restore()
		s.Close()

		time.Sleep(50 * time.Millisecond)
		if s.Snapshot().Live {
			t.Error("expected session to stay closed; stale timer must not resurrect it")
		}
	})

	t.Run("ExplicitPauseSupersedesPendingResume", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Minimize()
		s.Restore()
		s.SetPlaying(false)

		time.Sleep(50 * time.Millisecond)
		if s.Snapshot().Session.IsPlaying {
			t.Error("expected explicit pause to cancel the deferred resume")
		}
	})

	t.Run("RestoreWhenNotMinimizedIsNoOp", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Restore()
		if !s.Snapshot().Session.IsPlaying {
			t.Error("expected state unchanged")
		}
	})

	t.Run("SetPlayingTrueWhileMinimizedIsRejected", func(t *testing.T) {
		s, _ := floatingSession(t)
		s.SetPlaying(true)
		s.Minimize()
		s.SetPlaying(true)
		if s.Snapshot().Session.IsPlaying {
			t.Error("minimized implies paused; restore is the only way out")
		}
	})
}

func TestRelocation(t *testing.T) {
	t.Run("EnteringFloatingInitializesDefaults", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.Relocate(domain.ModeFloating)

		snap := s.Snapshot()
		if snap.Session.DisplayMode != domain.ModeFloating {
			t.Fatal("expected floating mode")
		}
		if snap.Session.Floating.Position != domain.PositionBottomRight {
			t.Errorf("expected bottom-right default, got %v", snap.Session.Floating.Position)
		}
		if snap.Session.Floating.Size != domain.SizeHalf {
			t.Errorf("expected half size default, got %v", snap.Session.Floating.Size)
		}
	})

	t.Run("LeavingFloatingReleasesSubState", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.Relocate(domain.ModeFloating)
		s.SetFloatingPosition(domain.PositionCenter)
		s.SetFloatingSize(domain.SizeFull)
		s.Relocate(domain.ModeInline)

		snap := s.Snapshot()
		if snap.Session.Floating != (domain.FloatingState{}) {
			t.Errorf("expected zeroed floating state, got %+v", snap.Session.Floating)
		}
	})

	t.Run("RelocationNeverDetachesHandle", func(t *testing.T) {
		s, _, registry := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{AutoPlay: true})
		eng := newFakeEngine()
		registry.Attach(eng)

		s.Relocate(domain.ModeFloating)
		s.Relocate(domain.ModeInline)

		if registry.Get() != domain.Engine(eng) {
			t.Error("expected identical handle across relocations")
		}
		if eng.isClosed() {
			t.Error("expected engine untouched by relocation")
		}
	})

	t.Run("HiddenIsRejected", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.Relocate(domain.ModeHidden)
		if got := s.Snapshot().Session.DisplayMode; got != domain.ModeInline {
			t.Errorf("expected inline preserved, got %v", got)
		}
	})

	t.Run("FloatingSettersRequireFloatingMode", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
		s.SetFloatingPosition(domain.PositionCenter)
		s.SetFloatingSize(domain.SizeFull)
		if s.Snapshot().Session.Floating != (domain.FloatingState{}) {
			t.Error("expected floating setters ignored outside floating mode")
		}
	})
}

func TestClose(t *testing.T) {
	s, positions, registry := newTestStore(t)
	s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
	eng := newFakeEngine()
	registry.Attach(eng)
	s.UpdateDuration(100)
	s.UpdateTime(41)

	s.Close()

	if s.Snapshot().Live {
		t.Fatal("expected no session after close")
	}
	if pos, ok := positions.Position("v1"); !ok || pos != 41 {
		t.Errorf("expected flushed position 41, got %v (%v)", pos, ok)
	}
	if registry.Get() != nil {
		t.Error("expected registry emptied")
	}
	if !eng.isClosed() {
		t.Error("expected engine closed")
	}
}

func TestDeferredSeekAppliesOnAttach(t *testing.T) {
	s, _, registry := newTestStore(t)
	s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
	s.UpdateDuration(100)

	s.SeekTo(30) // no engine yet: deferred

	eng := newFakeEngine()
	registry.Attach(eng)

	if got, ok := eng.lastSeek(); !ok || got != 30 {
		t.Errorf("expected deferred seek 30 applied on attach, got %v (%v)", got, ok)
	}
}

// recordingListener captures every broadcast snapshot in order.
type recordingListener struct {
	mu    sync.Mutex
	snaps []domain.SessionSnapshot
}

func (r *recordingListener) OnSessionChange(snap domain.SessionSnapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, snap)
	r.mu.Unlock()
}

func TestListenersObserveIntentOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	rec := &recordingListener{}
	s.Subscribe(rec)

	s.Launch("v1", "https://example.com/v1.mp4", LaunchOptions{})
	s.SetPlaying(true)
	s.Relocate(domain.ModeFloating)
	s.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(rec.snaps))
	}
	if rec.snaps[0].Session.IsPlaying || !rec.snaps[1].Session.IsPlaying {
		t.Error("expected play intent visible exactly from the second snapshot")
	}
	if rec.snaps[2].Session.DisplayMode != domain.ModeFloating {
		t.Error("expected floating mode in third snapshot")
	}
	if rec.snaps[3].Live {
		t.Error("expected final snapshot dead")
	}
}
