package session

import (
	"log/slog"
	"sync"

	"github.com/finlane/tutordock/internal/domain"
)

// Registry holds the single live media-engine reference bound to the active
// session. It is the only shared slot in the coordinator: hosts attach the
// engine they constructed, relocation reuses whatever is already attached,
// and only Close (or an explicit Detach) empties it. The entry is looked up
// by identity and never copied or serialized.
type Registry struct {
	mu       sync.Mutex
	handle   domain.Engine
	onAttach []func()
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// OnAttach registers a hook invoked after every effective attach. The session
// store uses it to flush deferred seeks and re-run one reconciliation pass
// against the latest known state.
func (r *Registry) OnAttach(fn func()) {
	r.mu.Lock()
	r.onAttach = append(r.onAttach, fn)
	r.mu.Unlock()
}

// Attach binds a live engine. Attaching the same instance twice is a no-op,
// which guards against duplicate registration from re-rendering hosts.
// Attaching a different instance replaces the previous one; the caller is
// responsible for having closed it.
func (r *Registry) Attach(handle domain.Engine) {
	if handle == nil {
		return
	}

	r.mu.Lock()
	if r.handle == handle {
		r.mu.Unlock()
		r.logger.Debug("engine already attached, ignoring duplicate")
		return
	}
	if r.handle != nil {
		r.logger.Warn("replacing live engine handle")
	}
	r.handle = handle
	hooks := make([]func(), len(r.onAttach))
	copy(hooks, r.onAttach)
	r.mu.Unlock()

	// Hooks run outside the lock: they call back into the registry and the
	// session store.
	for _, fn := range hooks {
		fn()
	}
}

// Get returns the attached engine, or nil when the slot is empty.
func (r *Registry) Get() domain.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle
}

// Detach empties the slot and returns the previous handle so the caller can
// close it. Called only on session close or host teardown with no relocation
// pending.
func (r *Registry) Detach() domain.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.handle
	r.handle = nil
	return h
}
