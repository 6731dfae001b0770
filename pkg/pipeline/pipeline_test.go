package pipeline_test

import (
	"errors"
	"testing"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/internal/testutils"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// host plays the navigation system: it keeps the root outlet and the current location.
type host struct {
	t    *testing.T
	root *pipeline.Outlet
	p    *pipeline.Pipeline
	nav  *testutils.Navigator
	log  *testutils.Log
}

func newHost(t *testing.T) *host {
	log := &testutils.Log{}
	return &host{t: t, root: pipeline.NewRoot(), p: pipeline.New(), nav: testutils.NewNavigator(log), log: log}
}

func (h *host) navigate(to *domain.Location) (*runtime.Transition, bool) {
	h.t.Helper()
	tr, err := runtime.New(h.nav, h.p, to, h.nav.Current(), h.root.Chain(),
		runtime.WithErrorReporter(func(err error) { h.log.Add("error:%v", err) }))
	require.NoError(h.t, err)
	var done bool
	tr.Start(func() { done = true })
	return tr, done
}

func (h *host) rendered() []string {
	var out []string
	for _, v := range h.root.Chain() {
		out = append(out, v.Name())
	}
	return out
}

func loc(path string, params map[string]string, components ...*pipeline.Component) *domain.Location {
	l := &domain.Location{Path: path, Params: params}
	for _, c := range components {
		l.Matched = append(l.Matched, &domain.Handler{Name: c.Name, Component: c})
	}
	return l
}

func recordingComponent(name string, log *testutils.Log) *pipeline.Component {
	return &pipeline.Component{
		Name: name,
		Activate: func(e *runtime.Exposed) (runtime.Result, error) {
			log.Add("activate:%s", name)
			return runtime.Resolved(nil), nil
		},
		Deactivate: func(e *runtime.Exposed) (runtime.Result, error) {
			log.Add("deactivate:%s", name)
			e.Next()
			return runtime.Pending(), nil
		},
	}
}

func TestPipeline_FirstNavigation(t *testing.T) {
	h := newHost(t)
	users := recordingComponent("users", h.log)
	user := recordingComponent("user", h.log)
	user.Data = func(e *runtime.Exposed) (runtime.Result, error) {
		return runtime.Resolved("user-" + e.To().Params["id"]), nil
	}

	_, done := h.navigate(loc("/users/1", map[string]string{"id": "1"}, users, user))

	require.True(t, done)
	assert.Equal(t, []string{"users", "user", "<empty>@2"}, h.rendered())
	assert.Equal(t, []string{"commit:/users/1", "activate:users", "activate:user"}, h.log.Entries())

	leaf := h.root.Child()
	assert.Equal(t, "user-1", leaf.Data())
	assert.False(t, leaf.Loading())
	assert.True(t, leaf.Activated())
	assert.Equal(t, 1, leaf.Depth())
}

func TestPipeline_ReuseReloadsData(t *testing.T) {
	h := newHost(t)
	users := recordingComponent("users", h.log)
	user := recordingComponent("user", h.log)
	user.Data = func(e *runtime.Exposed) (runtime.Result, error) {
		return runtime.Resolved("user-" + e.To().Params["id"]), nil
	}

	h.navigate(loc("/users/1", map[string]string{"id": "1"}, users, user))
	leaf := h.root.Child()

	tr, done := h.navigate(loc("/users/2", map[string]string{"id": "2"}, users, user))

	require.True(t, done)
	assert.Len(t, tr.Reused(), 2)
	assert.Same(t, leaf, h.root.Child(), "outlet stays in place")
	assert.Equal(t, "user-2", leaf.Data())
	assert.Equal(t, []string{"activate:users", "activate:user"}, h.log.WithPrefix("activate:"), "no re-activation")
	assert.Empty(t, h.log.WithPrefix("deactivate:"))
}

func TestPipeline_CanReuseVeto(t *testing.T) {
	h := newHost(t)
	item := recordingComponent("item", h.log)
	item.CanReuse = func(to, from *domain.Location) bool {
		return to.Params["id"] == from.Params["id"]
	}

	h.navigate(loc("/items/1", map[string]string{"id": "1"}, item))
	tr, done := h.navigate(loc("/items/2", map[string]string{"id": "2"}, item))

	require.True(t, done)
	assert.Empty(t, tr.Reused())
	assert.Equal(t, []string{"deactivate:item"}, h.log.WithPrefix("deactivate:"))
	assert.Equal(t, []string{"activate:item", "activate:item"}, h.log.WithPrefix("activate:"))
}

func TestPipeline_CanDeactivateVeto(t *testing.T) {
	h := newHost(t)
	editor := recordingComponent("editor", h.log)
	editor.CanDeactivate = func(e *runtime.Exposed) (runtime.Result, error) {
		return runtime.Bool(false), nil
	}
	other := recordingComponent("other", h.log)

	h.navigate(loc("/edit", nil, editor))
	tr, done := h.navigate(loc("/other", nil, other))

	assert.False(t, done)
	assert.True(t, tr.Aborted())
	assert.Equal(t, []string{"editor", "<empty>@1"}, h.rendered())
	assert.Equal(t, []string{"/edit"}, h.nav.Gone())
}

func TestPipeline_CanActivateVetoKeepsOldChain(t *testing.T) {
	h := newHost(t)
	home := recordingComponent("home", h.log)
	admin := recordingComponent("admin", h.log)
	admin.CanActivate = func(e *runtime.Exposed) (runtime.Result, error) {
		e.Redirect("/login")
		return runtime.Pending(), nil
	}

	h.navigate(loc("/", nil, home))
	_, done := h.navigate(loc("/admin", nil, admin))

	assert.False(t, done)
	assert.Equal(t, []string{"home", "<empty>@1"}, h.rendered())
	assert.Empty(t, h.log.WithPrefix("deactivate:"))
	assert.Equal(t, []string{"/login"}, h.nav.Gone())
}

func TestPipeline_ShorterChainClearsNested(t *testing.T) {
	h := newHost(t)
	users := recordingComponent("users", h.log)
	user := recordingComponent("user", h.log)

	h.navigate(loc("/users/1", nil, users, user))
	_, done := h.navigate(loc("/users", nil, users))

	require.True(t, done)
	assert.Equal(t, []string{"users", "<empty>@1"}, h.rendered())
	assert.Equal(t, []string{"deactivate:user"}, h.log.WithPrefix("deactivate:"))
}

func TestPipeline_WaitForData(t *testing.T) {
	h := newHost(t)
	pending := runtime.NewDeferred()
	parent := recordingComponent("parent", h.log)
	parent.WaitForData = true
	parent.Data = func(e *runtime.Exposed) (runtime.Result, error) {
		return runtime.Defer(pending), nil
	}
	child := recordingComponent("child", h.log)

	_, done := h.navigate(loc("/p/c", nil, parent, child))

	assert.False(t, done)
	assert.True(t, h.root.Loading())
	assert.Equal(t, []string{"activate:parent"}, h.log.WithPrefix("activate:"))

	pending.Resolve("ready")

	assert.Equal(t, "ready", h.root.Data())
	assert.Equal(t, []string{"activate:parent", "activate:child"}, h.log.WithPrefix("activate:"))
	assert.Equal(t, []string{"parent", "child", "<empty>@2"}, h.rendered())
}

func TestPipeline_DataFailureAfterCommit(t *testing.T) {
	h := newHost(t)
	broken := recordingComponent("broken", h.log)
	broken.WaitForData = true
	broken.Data = func(e *runtime.Exposed) (runtime.Result, error) {
		return runtime.Rejected(errors.New("backend down")), nil
	}

	tr, done := h.navigate(loc("/broken", nil, broken))

	assert.True(t, done)
	assert.False(t, tr.Aborted())
	assert.Equal(t, "/broken", h.nav.Current().Path)
	assert.False(t, h.root.Loading())
	assert.Nil(t, h.root.Data())
	assert.Eventually(t, func() bool { return len(h.log.WithPrefix("error:")) == 1 }, testutils.Timeout, testutils.Tick)
}
