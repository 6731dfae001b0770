package runtime

type resultKind int

const (
	resultPending resultKind = iota
	resultBool
	resultDeferred
)

// Result is the normalized return value of a Hook.
// The zero value is Pending.
type Result struct {
	kind     resultKind
	ok       bool
	deferred *Deferred
}

// Bool reports a synchronous verdict. It is only meaningful where the caller
// expects a boolean (validation hooks); elsewhere it behaves like Pending.
func Bool(ok bool) Result {
	return Result{kind: resultBool, ok: ok}
}

// Defer reports a value that settles later. Resolution advances the transition,
// rejection follows the error path. A nil Deferred is Pending.
func Defer(d *Deferred) Result {
	if d == nil {
		return Pending()
	}
	return Result{kind: resultDeferred, deferred: d}
}

// Resolved is a Deferred result that has already settled to value.
func Resolved(value any) Result {
	d := NewDeferred()
	d.Resolve(value)
	return Defer(d)
}

// Rejected is a Deferred result that has already failed with err.
func Rejected(err error) Result {
	d := NewDeferred()
	d.Reject(err)
	return Defer(d)
}

// Pending means the hook will call Next, Abort or Redirect on its own.
func Pending() Result {
	return Result{}
}

// IsPending reports whether the result leaves the decision to the hook.
func (r Result) IsPending() bool {
	return r.kind == resultPending
}
