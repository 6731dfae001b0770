package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Continue is the continuation a hook invocation calls to let the transition proceed.
// The payload is whatever the hook handed to Next, or the value its Deferred resolved to.
type Continue func(payload any)

// Hook is a user supplied step of the pipeline.
// It may answer synchronously through its Result, or return Pending and
// drive the Exposed transition itself.
type Hook func(t *Exposed) (Result, error)

// Exposed is the restricted view of a transition handed to a hook.
// A fresh value is built for every invocation.
type Exposed struct {
	to       *domain.Location
	from     *domain.Location
	receiver any

	next     func(payload any)
	abort    func()
	redirect func(path string)
}

// To is the navigation target.
func (e *Exposed) To() *domain.Location { return e.to }

// From is the location being left. It is nil on the first navigation.
func (e *Exposed) From() *domain.Location { return e.from }

// Receiver is the value the hook was invoked on (usually the view or its component).
func (e *Exposed) Receiver() any { return e.receiver }

// Next lets the transition proceed. Only the first call has an effect.
func (e *Exposed) Next(payload ...any) {
	var p any
	if len(payload) > 0 {
		p = payload[0]
	}
	e.next(p)
}

// Abort cancels the transition and navigates back to where it came from.
func (e *Exposed) Abort() { e.abort() }

// Redirect cancels the transition and navigates to path instead.
// Placeholders in path are filled from the target's params.
func (e *Exposed) Redirect(path string) { e.redirect(path) }

// HookOption configures a single CallHook invocation.
type HookOption func(*hookConfig)

type hookConfig struct {
	name          string
	expectBoolean bool
	afterCommit   bool
	cleanup       func()
}

// ExpectBoolean makes a Bool result (or a boolean resolution) mean proceed or abort.
func ExpectBoolean() HookOption {
	return func(c *hookConfig) {
		c.expectBoolean = true
	}
}

// AfterCommit marks the invocation as happening after the commit point.
// A failing hook then runs cleanup and still proceeds instead of aborting.
// cleanup also runs when the hook aborts or answers after the transition was aborted.
func AfterCommit(cleanup func()) HookOption {
	return func(c *hookConfig) {
		c.afterCommit = true
		c.cleanup = cleanup
	}
}

// Named labels the hook in logs and errors.
func Named(name string) HookOption {
	return func(c *hookConfig) {
		c.name = name
	}
}

// CallHook runs hook once and turns its outcome into exactly one decision:
// next is called when the hook lets the transition proceed, Abort otherwise.
// next is withheld once the transition is aborted.
func (t *Transition) CallHook(hook Hook, receiver any, next Continue, opts ...HookOption) {
	var cfg hookConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var nextCalled atomic.Bool

	var cleanOnce sync.Once
	cleanup := func() {
		if cfg.cleanup != nil {
			cleanOnce.Do(cfg.cleanup)
		}
	}

	proceed := func(payload any, fromUser bool) {
		if !nextCalled.CompareAndSwap(false, true) {
			if fromUser {
				t.logger.Warn("transition next called more than once", "hook", cfg.name, "to", t.To.Path)
			}
			return
		}
		if t.Aborted() {
			cleanup()
			return
		}
		if next != nil {
			next(payload)
		}
	}

	abort := func() {
		cleanup()
		t.Abort()
	}

	fail := func(err error) {
		hookErr := &HookError{Hook: cfg.name, To: t.To.Path, AfterCommit: cfg.afterCommit, Err: err}
		if cfg.afterCommit {
			cleanup()
			proceed(nil, false)
		} else {
			abort()
		}
		t.raise(hookErr)
	}

	verdict := func(v any) {
		ok := v != nil
		if b, isBool := v.(bool); isBool {
			ok = b
		}
		if ok {
			proceed(nil, false)
		} else {
			abort()
		}
	}

	exposed := &Exposed{
		to:       t.To.Clone(),
		from:     t.From.Clone(),
		receiver: receiver,
		next:     func(payload any) { proceed(payload, true) },
		abort:    abort,
		redirect: t.Redirect,
	}

	res, err := invoke(hook, exposed)
	if err != nil {
		fail(err)
		return
	}

	switch res.kind {
	case resultBool:
		if cfg.expectBoolean {
			verdict(res.ok)
		}
	case resultDeferred:
		res.deferred.Then(func(v any) {
			if cfg.expectBoolean {
				verdict(v)
				return
			}
			proceed(v, false)
		}, fail)
	}
}

// invoke calls hook, converting a panic into an error.
func invoke(hook Hook, exposed *Exposed) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return hook(exposed)
}
