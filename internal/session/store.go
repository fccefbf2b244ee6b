package session

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finlane/tutordock/internal/domain"
)

const (
	// DefaultSettleDelay is the pause between un-minimizing the overlay and
	// resuming playback, giving the surface time to finish re-expanding
	// before reconciliation touches the engine.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultSaveInterval is the video-time granularity of periodic
	// position checkpoints, in seconds.
	DefaultSaveInterval = 10.0
)

// Config tunes store timing. Zero values fall back to the defaults above;
// tests inject millisecond settle delays through it.
type Config struct {
	SettleDelay  time.Duration
	SaveInterval float64
}

// LaunchOptions modifies session creation. StartTime overrides the persisted
// resume position; AutoPlay sets the initial playback intent.
type LaunchOptions struct {
	StartTime *float64
	AutoPlay  bool
}

// Store is the exclusive owner and mutator of the playback session. Every
// surface expresses itself through intents on the store, never by touching
// session state directly; invariants are enforced here and nowhere else.
//
// All mutators are silent no-ops when no session exists, because hosts may
// call them speculatively during unmount races. Listeners observe committed
// snapshots in intent order.
type Store struct {
	positions domain.PositionStore
	registry  *Registry
	logger    *slog.Logger

	settleDelay  time.Duration
	saveInterval float64

	mu              sync.Mutex
	session         *domain.PlaybackSession
	listeners       []domain.SessionListener
	lastSavedBucket int
	pendingSeek     *float64
	resumeTimer     *time.Timer
	resumePending   bool
}

// NewStore creates a session store wired to its position store and engine
// registry. The store registers itself for attach notifications so deferred
// seeks and reconciliation apply as soon as an engine appears.
func NewStore(positions domain.PositionStore, registry *Registry, cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.SaveInterval <= 0 {
		cfg.SaveInterval = DefaultSaveInterval
	}

	s := &Store{
		positions:    positions,
		registry:     registry,
		logger:       logger,
		settleDelay:  cfg.SettleDelay,
		saveInterval: cfg.SaveInterval,
	}
	registry.OnAttach(s.engineAttached)
	return s
}

// Subscribe registers a listener for committed session snapshots. Listeners
// run synchronously in intent order and must not call back into the store.
func (s *Store) Subscribe(l domain.SessionListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.SessionSnapshot {
	if s.session == nil {
		return domain.SessionSnapshot{}
	}
	return domain.SessionSnapshot{Live: true, Session: *s.session}
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, l := range s.listeners {
		l.OnSessionChange(snap)
	}
}

// Launch creates the session for a tutorial video. With no prior session a
// fresh one is seeded from the position store (unless StartTime overrides
// it). A session for a different video is replaced, flushing its position
// first. Relaunching the active video brings it back to the inline surface
// without restarting playback.
func (s *Store) Launch(videoID, sourceURL string, opts LaunchOptions) {
	if videoID == "" {
		s.logger.Warn("launch ignored: empty video id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil && s.session.VideoID == videoID {
		// Same video: bring it home rather than restarting.
		s.session.DisplayMode = domain.ModeInline
		s.session.Floating = domain.FloatingState{}
		if opts.AutoPlay {
			s.session.IsPlaying = true
		}
		if opts.StartTime != nil {
			s.seekLocked(*opts.StartTime)
		}
		s.notifyLocked()
		return
	}

	if s.session != nil {
		s.logger.Info("replacing session", "old", s.session.VideoID, "new", videoID)
		s.cancelResumeLocked()
		s.flushPositionLocked()
		s.releaseEngineLocked()
	}

	start := 0.0
	if opts.StartTime != nil {
		start = math.Max(0, *opts.StartTime)
	} else if pos, ok := s.positions.Position(videoID); ok {
		start = pos
	}

	s.session = &domain.PlaybackSession{
		Epoch:       uuid.NewString(),
		VideoID:     videoID,
		SourceURL:   sourceURL,
		CurrentTime: start,
		IsPlaying:   opts.AutoPlay,
		Volume:      1.0,
		DisplayMode: domain.ModeInline,
	}
	s.lastSavedBucket = s.bucketOf(start)
	s.pendingSeek = nil
	if start > 0 {
		s.pendingSeek = &start
	}

	s.logger.Info("session launched", "videoID", videoID, "startTime", start, "autoplay", opts.AutoPlay)
	s.notifyLocked()
}

// SetPlaying updates the desired playback intent. It never touches the
// engine itself; reconciliation converges the engine afterwards. Setting
// true while minimized is invalid and ignored (restore is the only way out
// of the minimized state).
func (s *Store) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}
	if playing && s.session.Floating.Minimized {
		return
	}

	// An explicit intent supersedes any scheduled post-restore resume.
	s.cancelResumeLocked()

	s.session.IsPlaying = playing
	s.notifyLocked()
}

// TogglePlaying flips the playback intent.
func (s *Store) TogglePlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}
	if !s.session.IsPlaying && s.session.Floating.Minimized {
		return
	}

	s.cancelResumeLocked()
	s.session.IsPlaying = !s.session.IsPlaying
	s.notifyLocked()
}

// SeekTo moves the playback position. The position is clamped, persisted
// immediately, and applied to the engine; with no engine attached the seek
// is deferred until the next attach.
func (s *Store) SeekTo(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	s.seekLocked(seconds)
	s.notifyLocked()
}

func (s *Store) seekLocked(seconds float64) {
	t := s.clampLocked(seconds)
	s.session.CurrentTime = t

	// Every explicit seek checkpoints, independent of the 10s coalescing.
	s.savePositionLocked(t)

	if h := s.registry.Get(); h != nil {
		if err := h.SetCurrentTime(t); err != nil {
			s.logger.Warn("engine seek failed", "error", err, "seconds", t)
		}
		s.pendingSeek = nil
	} else {
		seek := t
		s.pendingSeek = &seek
	}
}

// UpdateTime records playback progress reported by the engine. A position
// checkpoint is written whenever progress crosses into a different
// save-interval bucket, so positions persist roughly every ten seconds of
// video time rather than on every frame.
func (s *Store) UpdateTime(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	t := s.clampLocked(seconds)
	s.session.CurrentTime = t

	if bucket := s.bucketOf(t); bucket != s.lastSavedBucket {
		s.savePositionLocked(t)
	}

	s.notifyLocked()
}

// UpdateDuration records the media duration reported by the engine and
// re-clamps the current position against it.
func (s *Store) UpdateDuration(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	s.session.Duration = math.Max(0, seconds)
	s.session.CurrentTime = s.clampLocked(s.session.CurrentTime)
	s.notifyLocked()
}

// SetVolume sets the session volume (clamped to [0,1]) and applies it to the
// engine best-effort.
func (s *Store) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	s.session.Volume = math.Min(1, math.Max(0, v))
	if h := s.registry.Get(); h != nil {
		if err := h.SetVolume(s.session.Volume); err != nil {
			s.logger.Warn("engine volume change failed", "error", err)
		}
	}
	s.notifyLocked()
}

// Relocate moves the session between the inline and floating surfaces. The
// engine handle is never detached by a relocation: the same engine keeps
// driving playback so the video never restarts. Entering the overlay always
// clears the minimized flag; leaving it releases the floating sub-state.
// ModeHidden is reached only through Close and is rejected here.
func (s *Store) Relocate(mode domain.DisplayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	switch mode {
	case domain.ModeFloating:
		if s.session.DisplayMode != domain.ModeFloating {
			s.session.Floating = domain.FloatingState{
				Position: domain.PositionBottomRight,
				Size:     domain.SizeHalf,
			}
		}
		s.session.DisplayMode = domain.ModeFloating
		s.session.Floating.Minimized = false
		s.session.Floating.WasPlayingBeforeMinimize = false

	case domain.ModeInline:
		s.session.DisplayMode = domain.ModeInline
		s.session.Floating = domain.FloatingState{}

	default:
		s.logger.Debug("relocate ignored", "mode", mode)
		return
	}

	s.logger.Info("session relocated", "mode", mode, "videoID", s.session.VideoID)
	s.notifyLocked()
}

// Minimize collapses the floating overlay to the indicator pill, pausing
// playback. The pre-minimize playing status is captured from the engine when
// one is attached, falling back to the stored intent: the intent can lag the
// real player, and restore should bring back what the user actually saw.
// Invalid outside the expanded floating overlay.
func (s *Store) Minimize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.DisplayMode != domain.ModeFloating || s.session.Floating.Minimized {
		return
	}

	wasPlaying := s.session.IsPlaying
	if h := s.registry.Get(); h != nil {
		if paused, err := h.Paused(); err == nil {
			wasPlaying = !paused
		}
	}

	s.cancelResumeLocked()
	s.session.Floating.WasPlayingBeforeMinimize = wasPlaying
	s.session.Floating.Minimized = true
	s.session.IsPlaying = false

	s.logger.Info("session minimized", "wasPlaying", wasPlaying)
	s.notifyLocked()
}

// Restore re-expands a minimized overlay. When playback was live at minimize
// time, resumption is scheduled after the settle delay instead of applied
// synchronously: the overlay has to finish re-expanding before the engine is
// driven again. The scheduled resume re-checks session identity and state
// before acting, so it can never resurrect a session closed in the interim.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || !s.session.Floating.Minimized {
		return
	}

	s.session.Floating.Minimized = false
	wasPlaying := s.session.Floating.WasPlayingBeforeMinimize
	s.session.Floating.WasPlayingBeforeMinimize = false

	if wasPlaying {
		epoch := s.session.Epoch
		s.cancelResumeLocked()
		s.resumePending = true
		s.resumeTimer = time.AfterFunc(s.settleDelay, func() {
			s.applyDeferredResume(epoch)
		})
	}

	s.logger.Info("session restored", "resumeScheduled", wasPlaying)
	s.notifyLocked()
}

// applyDeferredResume is the settle-delay timer body. Epoch and state are
// re-checked under the lock; a stale timer is dropped without effect.
func (s *Store) applyDeferredResume(epoch string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resumePending {
		return
	}
	s.resumePending = false
	s.resumeTimer = nil

	if s.session == nil || s.session.Epoch != epoch || s.session.Floating.Minimized {
		s.logger.Debug("dropping stale deferred resume")
		return
	}

	s.session.IsPlaying = true
	s.notifyLocked()
}

// Close tears the session down: the position is flushed, the engine handle
// is released and closed, and subscribers observe the empty snapshot.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	s.cancelResumeLocked()
	s.flushPositionLocked()
	s.releaseEngineLocked()

	s.logger.Info("session closed", "videoID", s.session.VideoID, "at", s.session.CurrentTime)
	s.session = nil
	s.pendingSeek = nil
	s.notifyLocked()
}

// SetFloatingPosition moves the overlay to one of the anchor presets.
// Floating-only.
func (s *Store) SetFloatingPosition(p domain.FloatingPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.DisplayMode != domain.ModeFloating {
		return
	}
	s.session.Floating.Position = p
	s.notifyLocked()
}

// SetFloatingSize switches the overlay between the half and full presets.
// Floating-only.
func (s *Store) SetFloatingSize(size domain.FloatingSize) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.DisplayMode != domain.ModeFloating {
		return
	}
	s.session.Floating.Size = size
	s.notifyLocked()
}

// engineAttached runs after every effective registry attach: deferred seeks
// and the session volume are applied to the fresh handle, then the current
// snapshot is re-broadcast so reconciliation runs once against the latest
// known state.
func (s *Store) engineAttached() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	h := s.registry.Get()
	if h == nil {
		return
	}

	if s.pendingSeek != nil {
		if err := h.SetCurrentTime(*s.pendingSeek); err != nil {
			s.logger.Warn("deferred seek failed", "error", err, "seconds", *s.pendingSeek)
		}
		s.pendingSeek = nil
	}
	if err := h.SetVolume(s.session.Volume); err != nil {
		s.logger.Debug("engine volume init failed", "error", err)
	}

	s.notifyLocked()
}

func (s *Store) clampLocked(t float64) float64 {
	if t < 0 {
		return 0
	}
	if d := s.session.Duration; d > 0 && t > d {
		return d
	}
	return t
}

func (s *Store) bucketOf(t float64) int {
	return int(math.Floor(t) / s.saveInterval)
}

func (s *Store) savePositionLocked(t float64) {
	if err := s.positions.SavePosition(s.session.VideoID, t); err != nil {
		s.logger.Warn("position save failed", "error", err, "videoID", s.session.VideoID)
	}
	s.lastSavedBucket = s.bucketOf(t)
}

func (s *Store) flushPositionLocked() {
	s.savePositionLocked(s.session.CurrentTime)
}

func (s *Store) releaseEngineLocked() {
	if h := s.registry.Detach(); h != nil {
		if err := h.Close(); err != nil {
			s.logger.Warn("engine close failed", "error", err)
		}
	}
}

func (s *Store) cancelResumeLocked() {
	if s.resumeTimer != nil {
		s.resumeTimer.Stop()
		s.resumeTimer = nil
	}
	s.resumePending = false
}
