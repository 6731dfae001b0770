package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/router"
)

// DefaultLockTTL bounds how long a distributed session lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent navigations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	matcher router.Matcher
	store   ports.LocationStore

	mu      sync.Mutex            // guards locks and routers
	locks   map[string]*lockEntry // active locks
	routers map[string]*router.Router

	locker     ports.DistributedLocker // optional
	lockTTL    time.Duration
	logger     *slog.Logger
	routerOpts []router.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the routers it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRouterOptions is applied to every Router the Manager creates.
func WithRouterOptions(opts ...router.Option) Option {
	return func(m *Manager) {
		m.routerOpts = append(m.routerOpts, opts...)
	}
}

// NewManager creates a Session Manager resolving paths with matcher and
// persisting committed locations to store.
func NewManager(matcher router.Matcher, store ports.LocationStore, opts ...Option) *Manager {
	m := &Manager{
		matcher: matcher,
		store:   store,
		locks:   make(map[string]*lockEntry),
		routers: make(map[string]*router.Router),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Navigate runs a navigation for the session and waits until it settles.
// Sessions are created on first use.
func (m *Manager) Navigate(ctx context.Context, sessionID, path string) (*router.Outcome, error) {
	path, err := SanitizePath(path)
	if err != nil {
		return nil, err
	}
	var outcome *router.Outcome
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		r, err := m.routerFor(ctx, sessionID)
		if err != nil {
			return err
		}
		outcome, err = r.Navigate(ctx, path)
		return err
	})
	return outcome, err
}

// Current returns the session's committed location, from the live router when the
// session is loaded here and from the store otherwise.
func (m *Manager) Current(ctx context.Context, sessionID string) (*domain.Location, error) {
	m.mu.Lock()
	r, ok := m.routers[sessionID]
	m.mu.Unlock()
	if ok {
		if loc := r.Current(); loc != nil {
			return loc, nil
		}
	}
	return m.store.Load(ctx, sessionID)
}

// Router returns the session's Router, restoring it from the store if needed.
func (m *Manager) Router(ctx context.Context, sessionID string) (*router.Router, error) {
	var r *router.Router
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		r, err = m.routerFor(ctx, sessionID)
		return err
	})
	return r, err
}

// routerFor must be called with the session lock held.
func (m *Manager) routerFor(ctx context.Context, sessionID string) (*router.Router, error) {
	m.mu.Lock()
	r, ok := m.routers[sessionID]
	m.mu.Unlock()
	if ok {
		return r, nil
	}

	opts := append([]router.Option{
		router.WithLogger(m.logger.With("session_id", sessionID)),
	}, m.routerOpts...)
	opts = append(opts, router.WithStore(m.store, sessionID))

	r, err := router.New(m.matcher, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create router for session %s: %w", sessionID, err)
	}

	if _, err := r.Restore(ctx); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.Warn("failed to restore session, starting fresh", "session_id", sessionID, "err", err)
	}

	m.mu.Lock()
	m.routers[sessionID] = r
	m.mu.Unlock()
	return r, nil
}

// Delete drops the session's router and removes it from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.routers, sessionID)
		m.mu.Unlock()
		return m.store.Delete(ctx, sessionID)
	})
}

// List returns the sessions known to the store or loaded here.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	stored, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		seen[id] = struct{}{}
	}
	m.mu.Lock()
	for id := range m.routers {
		seen[id] = struct{}{}
	}
	m.mu.Unlock()

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Store returns the underlying location store.
func (m *Manager) Store() ports.LocationStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
