// Package pipeline is the default runtime.Pipeline: outlets render Components and
// the Components' hooks decide reuse, validation, teardown and activation.
package pipeline

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Pipeline drives Outlets through a transition.
type Pipeline struct {
	logger *slog.Logger
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ runtime.Pipeline = (*Pipeline)(nil)

func outletOf(view domain.ViewNode) *Outlet {
	o, _ := view.(*Outlet)
	return o
}

// CanReuse keeps an outlet when it already renders the handler's component
// and the component does not object.
func (p *Pipeline) CanReuse(view domain.ViewNode, handler *domain.Handler, t *runtime.Transition) bool {
	o := outletOf(view)
	if o == nil {
		return false
	}
	current := o.Handler()
	if !sameComponent(current, handler) {
		return false
	}
	if c := componentOf(current); c != nil && c.CanReuse != nil {
		return c.CanReuse(t.To, t.From)
	}
	return true
}

func (p *Pipeline) CanDeactivate(view domain.ViewNode, t *runtime.Transition, next runtime.Continue) {
	o := outletOf(view)
	c := componentOf(o.handlerOrNil())
	if c == nil || c.CanDeactivate == nil {
		next(nil)
		return
	}
	t.CallHook(c.CanDeactivate, o, next, runtime.ExpectBoolean(), runtime.Named(c.Name+".canDeactivate"))
}

func (p *Pipeline) CanActivate(handler *domain.Handler, t *runtime.Transition, next runtime.Continue) {
	c := componentOf(handler)
	if c == nil || c.CanActivate == nil {
		next(nil)
		return
	}
	t.CallHook(c.CanActivate, c, next, runtime.ExpectBoolean(), runtime.Named(c.Name+".canActivate"))
}

// Deactivate runs the component's Deactivate hook, then empties the outlet.
func (p *Pipeline) Deactivate(view domain.ViewNode, t *runtime.Transition, next runtime.Continue) {
	o := outletOf(view)
	c := componentOf(o.handlerOrNil())
	teardown := func(payload any) {
		if o != nil {
			o.clear()
		}
		next(payload)
	}
	if c == nil || c.Deactivate == nil {
		teardown(nil)
		return
	}
	t.CallHook(c.Deactivate, o, teardown, runtime.Named(c.Name+".deactivate"))
}

// Activate mounts the target's handlers from depth downwards, starting in view.
func (p *Pipeline) Activate(view domain.ViewNode, t *runtime.Transition, depth int, done func()) {
	o := outletOf(view)
	if o == nil {
		p.logger.Warn("cannot activate into a foreign view node", "view", view.Name())
		done()
		return
	}
	p.activate(o, t, depth, done)
}

func (p *Pipeline) activate(o *Outlet, t *runtime.Transition, depth int, done func()) {
	if depth >= len(t.To.Matched) {
		o.clear()
		done()
		return
	}
	handler := t.To.Matched[depth]
	child := o.mount(handler, depth)
	p.logger.Debug("activating outlet", "handler", handler.Name, "depth", depth)

	c := componentOf(handler)
	cleanup := func() { o.setLoading(false) }

	afterData := func() {
		if depth+1 < len(t.To.Matched) {
			p.activate(child, t, depth+1, done)
			return
		}
		done()
	}

	afterActivate := func(any) {
		o.setActivated()
		switch {
		case c == nil || c.Data == nil:
			afterData()
		case c.WaitForData:
			p.loadData(o, c, t, afterData)
		default:
			p.loadData(o, c, t, nil)
			afterData()
		}
	}

	if c == nil || c.Activate == nil {
		afterActivate(nil)
		return
	}
	t.CallHook(c.Activate, o, afterActivate, runtime.AfterCommit(cleanup), runtime.Named(c.Name+".activate"))
}

// loadData runs the Data hook after the commit point. A failing hook leaves the
// outlet without data; then, when set, still runs.
func (p *Pipeline) loadData(o *Outlet, c *Component, t *runtime.Transition, then func()) {
	o.setLoading(true)
	t.CallHook(c.Data, o, func(payload any) {
		o.setData(payload)
		if then != nil {
			then()
		}
	}, runtime.AfterCommit(func() { o.setLoading(false) }), runtime.Named(c.Name+".data"))
}

// Reuse reloads the outlet's data for the new location.
func (p *Pipeline) Reuse(view domain.ViewNode, t *runtime.Transition) {
	o := outletOf(view)
	if o == nil {
		return
	}
	c := componentOf(o.Handler())
	if c == nil || c.Data == nil {
		return
	}
	p.loadData(o, c, t, nil)
}

func (o *Outlet) handlerOrNil() *domain.Handler {
	if o == nil {
		return nil
	}
	return o.Handler()
}
