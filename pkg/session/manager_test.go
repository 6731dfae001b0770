package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/router"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, routes ...matcher.Route) *matcher.Table {
	t.Helper()
	table, err := matcher.New(routes...)
	require.NoError(t, err)
	return table
}

func TestManager_NavigateAndCurrent(t *testing.T) {
	table := newTable(t,
		matcher.Route{Path: "/"},
		matcher.Route{Path: "/users/{id}"},
	)
	mgr := session.NewManager(table, memory.NewStore())
	ctx := context.Background()

	outcome, err := mgr.Navigate(ctx, "alice", "/users/1")
	require.NoError(t, err)
	assert.True(t, outcome.Completed)

	_, err = mgr.Navigate(ctx, "bob", "/")
	require.NoError(t, err)

	loc, err := mgr.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "/users/1", loc.Path)

	sessions, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, sessions)

	_, err = mgr.Current(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_SanitizesPaths(t *testing.T) {
	mgr := session.NewManager(newTable(t, matcher.Route{Path: "/users/{id}"}), memory.NewStore())
	ctx := context.Background()

	outcome, err := mgr.Navigate(ctx, "s1", "/users/1\x1b")
	require.NoError(t, err)
	assert.Equal(t, "/users/1", outcome.Location.Path)

	_, err = mgr.Navigate(ctx, "s1", "/users/\xff")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestManager_RestoresFromStore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", &domain.Location{
		Path:   "/users/9",
		Params: map[string]string{"id": "9"},
	}))

	table := newTable(t, matcher.Route{Path: "/users/{id}"})
	mgr := session.NewManager(table, store)

	r, err := mgr.Router(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, r.Current())
	assert.Equal(t, "/users/9", r.Current().Path)
	assert.Len(t, r.Current().Matched, 1, "restored location is re-matched")
}

func TestManager_SerializesNavigations(t *testing.T) {
	var inFlight, peak atomic.Int32
	slow := &pipeline.Component{
		Name:     "slow",
		CanReuse: func(to, from *domain.Location) bool { return false },
		CanActivate: func(e *runtime.Exposed) (runtime.Result, error) {
			d := runtime.NewDeferred()
			n := inFlight.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			go func() {
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				d.Resolve(true)
			}()
			return runtime.Defer(d), nil
		},
	}
	table := newTable(t, matcher.Route{Path: "/slow/{n}", Component: slow})
	mgr := session.NewManager(table, memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := mgr.Navigate(ctx, "race-test", "/slow/x")
			assert.NoError(t, err)
			assert.True(t, outcome.Completed)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load(), "navigations of one session must not overlap")
}

func TestManager_RouterOptions(t *testing.T) {
	var commits atomic.Int32
	table := newTable(t, matcher.Route{Path: "/"})
	mgr := session.NewManager(table, memory.NewStore(), session.WithRouterOptions(
		router.WithLifecycleHooks(domain.LifecycleHooks{
			OnCommit: func(*domain.TransitionEvent) { commits.Add(1) },
		}),
	))

	_, err := mgr.Navigate(context.Background(), "s", "/")
	require.NoError(t, err)
	assert.Equal(t, int32(1), commits.Load())
}

// MockLocker records distributed lock usage.
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	args := m.Called(ctx, key, ttl)
	if fn := args.Get(0); fn != nil {
		return fn.(ports.UnlockFunc), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestManager_DistributedLock(t *testing.T) {
	table := newTable(t, matcher.Route{Path: "/"})
	ctx := context.Background()

	t.Run("Held around the navigation", func(t *testing.T) {
		var unlocked atomic.Bool
		locker := new(MockLocker)
		locker.On("Lock", mock.Anything, "s1", 5*time.Second).
			Return(ports.UnlockFunc(func(context.Context) error {
				unlocked.Store(true)
				return nil
			}), nil).Once()

		mgr := session.NewManager(table, memory.NewStore(),
			session.WithLocker(locker), session.WithLockTTL(5*time.Second))

		_, err := mgr.Navigate(ctx, "s1", "/")
		require.NoError(t, err)
		assert.True(t, unlocked.Load())
		locker.AssertExpectations(t)
	})

	t.Run("Acquisition failure", func(t *testing.T) {
		locker := new(MockLocker)
		locker.On("Lock", mock.Anything, "s1", session.DefaultLockTTL).
			Return(nil, errors.New("redis down"))

		mgr := session.NewManager(table, memory.NewStore(), session.WithLocker(locker))

		_, err := mgr.Navigate(ctx, "s1", "/")
		assert.ErrorContains(t, err, "failed to acquire distributed lock")
	})
}
