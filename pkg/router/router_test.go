package router_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/internal/testutils"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, routes ...matcher.Route) *matcher.Table {
	t.Helper()
	table, err := matcher.New(routes...)
	require.NoError(t, err)
	return table
}

func rendered(r *router.Router) []string {
	var out []string
	for _, v := range r.Root().Chain() {
		out = append(out, v.Name())
	}
	return out
}

func TestRouter_NavigateCommits(t *testing.T) {
	users := &pipeline.Component{Name: "users"}
	user := &pipeline.Component{
		Name: "user",
		Data: func(e *runtime.Exposed) (runtime.Result, error) {
			return runtime.Resolved("user-" + e.To().Params["id"]), nil
		},
	}
	table := newTable(t, matcher.Route{
		Path: "/users", Name: "users", Component: users,
		Children: []matcher.Route{{Path: ":id", Name: "user", Component: user}},
	})

	r, err := router.New(table)
	require.NoError(t, err)

	outcome, err := r.Navigate(context.Background(), "/users/42?tab=posts")
	require.NoError(t, err)

	assert.True(t, outcome.Completed)
	assert.NoError(t, outcome.Err())
	assert.Equal(t, "/users/42", outcome.Location.Path)
	assert.Equal(t, "42", outcome.Location.Params["id"])
	assert.Equal(t, "posts", outcome.Location.Query["tab"])
	assert.Equal(t, []string{"users", "user", "<empty>@2"}, rendered(r))
	assert.Equal(t, "user-42", r.Root().Child().Data())
	assert.Nil(t, r.Pending())
}

func TestRouter_NoMatch(t *testing.T) {
	r, err := router.New(newTable(t, matcher.Route{Path: "/"}))
	require.NoError(t, err)

	_, err = r.Navigate(context.Background(), "/missing")
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.Nil(t, r.Current())
}

func TestRouter_RedirectFromCanActivate(t *testing.T) {
	admin := &pipeline.Component{
		Name: "admin",
		CanActivate: func(e *runtime.Exposed) (runtime.Result, error) {
			e.Redirect("/login")
			return runtime.Pending(), nil
		},
	}
	login := &pipeline.Component{Name: "login"}
	table := newTable(t,
		matcher.Route{Path: "/admin", Component: admin},
		matcher.Route{Path: "/login", Component: login},
	)

	var redirects atomic.Int32
	r, err := router.New(table, router.WithLifecycleHooks(domain.LifecycleHooks{
		OnRedirect: func(e *domain.TransitionEvent) {
			redirects.Add(1)
			assert.Equal(t, "/login", e.Target)
		},
	}))
	require.NoError(t, err)

	outcome, err := r.Navigate(context.Background(), "/admin")
	require.NoError(t, err)

	assert.False(t, outcome.Completed)
	assert.ErrorIs(t, outcome.Err(), domain.ErrAborted)
	assert.Equal(t, "/login", outcome.Location.Path)
	assert.Equal(t, int32(1), redirects.Load())
	assert.Equal(t, []string{"/login", "<empty>@1"}, rendered(r))
}

func TestRouter_AbortReturnsToPrevious(t *testing.T) {
	var dirty atomic.Bool
	editor := &pipeline.Component{
		Name: "editor",
		CanDeactivate: func(e *runtime.Exposed) (runtime.Result, error) {
			return runtime.Bool(!dirty.Load()), nil
		},
	}
	other := &pipeline.Component{Name: "other"}
	table := newTable(t,
		matcher.Route{Path: "/edit", Component: editor},
		matcher.Route{Path: "/other", Component: other},
	)
	store := memory.NewStore()

	r, err := router.New(table, router.WithStore(store, "s1"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.Navigate(ctx, "/edit")
	require.NoError(t, err)

	dirty.Store(true)
	outcome, err := r.Navigate(ctx, "/other")
	require.NoError(t, err)

	assert.False(t, outcome.Completed)
	assert.Equal(t, "/edit", outcome.Location.Path)
	assert.Equal(t, []string{"/edit", "<empty>@1"}, rendered(r))

	saved, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/edit", saved.Path)
}

func TestRouter_NewerNavigationSupersedes(t *testing.T) {
	gate := runtime.NewDeferred()
	slow := &pipeline.Component{
		Name: "slow",
		CanActivate: func(e *runtime.Exposed) (runtime.Result, error) {
			return runtime.Defer(gate), nil
		},
	}
	fast := &pipeline.Component{Name: "fast"}
	table := newTable(t,
		matcher.Route{Path: "/slow", Component: slow},
		matcher.Route{Path: "/fast", Component: fast},
	)

	var aborts atomic.Int32
	r, err := router.New(table, router.WithLifecycleHooks(domain.LifecycleHooks{
		OnAbort: func(*domain.TransitionEvent) { aborts.Add(1) },
	}))
	require.NoError(t, err)

	require.NoError(t, r.Go("/slow"))
	pending := r.Pending()
	require.NotNil(t, pending)

	outcome, err := r.Navigate(context.Background(), "/fast")
	require.NoError(t, err)
	assert.True(t, outcome.Completed)
	assert.True(t, pending.Aborted())

	gate.Resolve(true)

	assert.Equal(t, "/fast", r.Current().Path)
	assert.Equal(t, []string{"/fast", "<empty>@1"}, rendered(r))
	assert.Zero(t, aborts.Load(), "cancellation is silent")
}

func TestRouter_RedirectLoopIsBounded(t *testing.T) {
	var calls atomic.Int32
	bounce := func(target string) runtime.Hook {
		return func(e *runtime.Exposed) (runtime.Result, error) {
			calls.Add(1)
			e.Redirect(target)
			return runtime.Pending(), nil
		}
	}
	table := newTable(t,
		matcher.Route{Path: "/a", Component: &pipeline.Component{Name: "a", CanActivate: bounce("/b")}},
		matcher.Route{Path: "/b", Component: &pipeline.Component{Name: "b", CanActivate: bounce("/a")}},
	)

	r, err := router.New(table, router.WithMaxRedirects(3))
	require.NoError(t, err)

	outcome, err := r.Navigate(context.Background(), "/a")
	require.NoError(t, err)

	assert.False(t, outcome.Completed)
	assert.Nil(t, outcome.Location)
	assert.Equal(t, int32(4), calls.Load())
	assert.Nil(t, r.Pending())
}

func TestRouter_AbortedFirstNavigationSettles(t *testing.T) {
	home := &pipeline.Component{
		Name: "home",
		CanActivate: func(*runtime.Exposed) (runtime.Result, error) {
			return runtime.Bool(false), nil
		},
	}
	var started atomic.Int32
	r, err := router.New(newTable(t, matcher.Route{Path: "/", Component: home}),
		router.WithLifecycleHooks(domain.LifecycleHooks{
			OnStart: func(*domain.TransitionEvent) { started.Add(1) },
		}))
	require.NoError(t, err)

	outcome, err := r.Navigate(context.Background(), "/")
	require.NoError(t, err)

	assert.False(t, outcome.Completed)
	assert.Nil(t, outcome.Location)
	assert.Nil(t, r.Pending())
	assert.Equal(t, int32(1), started.Load())
}

func TestRouter_Restore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	user := &pipeline.Component{Name: "user"}
	table := newTable(t, matcher.Route{Path: "/users/{id}", Component: user})

	first, err := router.New(table, router.WithStore(store, "s1"))
	require.NoError(t, err)
	_, err = first.Navigate(ctx, "/users/7?tab=info")
	require.NoError(t, err)

	second, err := router.New(table, router.WithStore(store, "s1"))
	require.NoError(t, err)
	outcome, err := second.Restore(ctx)
	require.NoError(t, err)

	assert.True(t, outcome.Completed)
	assert.Equal(t, "7", outcome.Location.Params["id"])
	assert.Equal(t, "info", outcome.Location.Query["tab"])
	assert.Len(t, outcome.Location.Matched, 1)

	third, err := router.New(table, router.WithStore(store, "unknown"))
	require.NoError(t, err)
	_, err = third.Restore(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRouter_CustomPipeline(t *testing.T) {
	log := &testutils.Log{}
	p := testutils.NewPipeline(log)
	views := testutils.Views("shell", "old")
	table := newTable(t, matcher.Route{
		Path: "/shell", Name: "shell",
		Children: []matcher.Route{{Path: "new", Name: "new"}},
	})

	r, err := router.New(table, router.WithPipeline(p, func() []domain.ViewNode { return views }))
	require.NoError(t, err)
	assert.Nil(t, r.Root())

	outcome, err := r.Navigate(context.Background(), "/shell/new")
	require.NoError(t, err)

	assert.True(t, outcome.Completed)
	assert.Equal(t, []string{
		"canReuse:shell/shell",
		"canReuse:old/new",
		"canDeactivate:old",
		"canActivate:new",
		"deactivate:old",
		"reuse:shell",
		"activate:old@1",
	}, log.Entries())
}

func TestRouter_CustomPipelineRequiresViews(t *testing.T) {
	_, err := router.New(newTable(t), router.WithPipeline(testutils.NewPipeline(nil), nil))
	assert.Error(t, err)
}

func TestRouter_WaitHonorsContext(t *testing.T) {
	gate := runtime.NewDeferred()
	table := newTable(t, matcher.Route{Path: "/slow", Component: &pipeline.Component{
		Name: "slow",
		CanActivate: func(e *runtime.Exposed) (runtime.Result, error) {
			return runtime.Defer(gate), nil
		},
	}})
	r, err := router.New(table)
	require.NoError(t, err)

	require.NoError(t, r.Go("/slow"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
	assert.NotNil(t, r.Pending())

	gate.Resolve(true)
	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, "/slow", r.Current().Path)
}
