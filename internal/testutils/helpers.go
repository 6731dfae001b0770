package testutils

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Log is a goroutine-safe ordered record of pipeline calls.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// Add appends a formatted entry.
func (l *Log) Add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the recorded entries.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// WithPrefix returns the entries starting with prefix.
func (l *Log) WithPrefix(prefix string) []string {
	var out []string
	for _, e := range l.Entries() {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// View is a named view node.
type View struct {
	ID string
}

func (v *View) Name() string { return v.ID }

// Views builds a root to leaf view chain.
func Views(ids ...string) []domain.ViewNode {
	out := make([]domain.ViewNode, len(ids))
	for i, id := range ids {
		out[i] = &View{ID: id}
	}
	return out
}

// Location builds a location whose matched chain holds one handler per name.
func Location(path string, handlers ...string) *domain.Location {
	loc := &domain.Location{
		Path:   path,
		Params: map[string]string{},
		Query:  map[string]string{},
	}
	for _, h := range handlers {
		loc.Matched = append(loc.Matched, &domain.Handler{Name: h})
	}
	return loc
}

// Navigator records commits and re-navigations.
type Navigator struct {
	Log *Log

	mu        sync.Mutex
	gone      []string
	committed []*domain.Location
}

// NewNavigator creates a Navigator writing to log (which may be shared with a Pipeline).
func NewNavigator(log *Log) *Navigator {
	if log == nil {
		log = &Log{}
	}
	return &Navigator{Log: log}
}

func (n *Navigator) Go(path string) {
	n.mu.Lock()
	n.gone = append(n.gone, path)
	n.mu.Unlock()
	n.Log.Add("go:%s", path)
}

func (n *Navigator) Commit(loc *domain.Location) {
	n.mu.Lock()
	n.committed = append(n.committed, loc)
	n.mu.Unlock()
	n.Log.Add("commit:%s", loc.Path)
}

// Gone returns the re-navigation targets in order.
func (n *Navigator) Gone() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.gone...)
}

// Current returns the last committed location, or nil.
func (n *Navigator) Current() *domain.Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.committed) == 0 {
		return nil
	}
	return n.committed[len(n.committed)-1]
}

// Pipeline is a scriptable runtime.Pipeline. Views and handlers are matched by name.
// Missing hooks let the step proceed immediately.
type Pipeline struct {
	Log *Log

	// Reusable decides CanReuse. Defaults to comparing names.
	Reusable func(view domain.ViewNode, handler *domain.Handler) bool

	CanDeactivateHooks map[string]runtime.Hook
	CanActivateHooks   map[string]runtime.Hook
	DeactivateHooks    map[string]runtime.Hook

	// ActivateFn replaces the default Activate, which calls done immediately.
	ActivateFn func(view domain.ViewNode, t *runtime.Transition, depth int, done func())
}

// NewPipeline creates an empty Pipeline writing to log.
func NewPipeline(log *Log) *Pipeline {
	if log == nil {
		log = &Log{}
	}
	return &Pipeline{
		Log:                log,
		CanDeactivateHooks: map[string]runtime.Hook{},
		CanActivateHooks:   map[string]runtime.Hook{},
		DeactivateHooks:    map[string]runtime.Hook{},
	}
}

func (p *Pipeline) CanReuse(view domain.ViewNode, handler *domain.Handler, t *runtime.Transition) bool {
	p.Log.Add("canReuse:%s/%s", view.Name(), handler.Name)
	if p.Reusable != nil {
		return p.Reusable(view, handler)
	}
	return view.Name() == handler.Name
}

func (p *Pipeline) CanDeactivate(view domain.ViewNode, t *runtime.Transition, next runtime.Continue) {
	p.Log.Add("canDeactivate:%s", view.Name())
	p.call(p.CanDeactivateHooks[view.Name()], view, t, next, runtime.ExpectBoolean(), runtime.Named("canDeactivate"))
}

func (p *Pipeline) CanActivate(handler *domain.Handler, t *runtime.Transition, next runtime.Continue) {
	p.Log.Add("canActivate:%s", handler.Name)
	p.call(p.CanActivateHooks[handler.Name], handler, t, next, runtime.ExpectBoolean(), runtime.Named("canActivate"))
}

func (p *Pipeline) Deactivate(view domain.ViewNode, t *runtime.Transition, next runtime.Continue) {
	p.Log.Add("deactivate:%s", view.Name())
	p.call(p.DeactivateHooks[view.Name()], view, t, next, runtime.Named("deactivate"))
}

func (p *Pipeline) Activate(view domain.ViewNode, t *runtime.Transition, depth int, done func()) {
	p.Log.Add("activate:%s@%d", view.Name(), depth)
	if p.ActivateFn != nil {
		p.ActivateFn(view, t, depth, done)
		return
	}
	done()
}

func (p *Pipeline) Reuse(view domain.ViewNode, t *runtime.Transition) {
	p.Log.Add("reuse:%s", view.Name())
}

func (p *Pipeline) call(hook runtime.Hook, receiver any, t *runtime.Transition, next runtime.Continue, opts ...runtime.HookOption) {
	if hook == nil {
		next(nil)
		return
	}
	t.CallHook(hook, receiver, next, opts...)
}

// Timeout and Tick bound assert.Eventually polling in tests.
const (
	Timeout = time.Second
	Tick    = 5 * time.Millisecond
)
