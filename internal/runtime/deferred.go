package runtime

import (
	"context"
	"errors"
	"sync"
)

// errRejectedWithoutReason replaces a nil rejection reason.
var errRejectedWithoutReason = errors.New("deferred rejected without a reason")

// Deferred is a value that settles later, exactly once, to either a value or an error.
// Callbacks registered with Then run on the goroutine that settles the value,
// or immediately if the value is already settled.
type Deferred struct {
	mu        sync.Mutex
	settled   bool
	value     any
	err       error
	done      chan struct{}
	callbacks []func()
}

// NewDeferred creates an unsettled Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolve settles d with value. It reports false if d was already settled.
func (d *Deferred) Resolve(value any) bool {
	return d.settle(value, nil)
}

// Reject settles d with err. It reports false if d was already settled.
func (d *Deferred) Reject(err error) bool {
	if err == nil {
		err = errRejectedWithoutReason
	}
	return d.settle(nil, err)
}

func (d *Deferred) settle(value any, err error) bool {
	d.mu.Lock()
	if d.settled {
		d.mu.Unlock()
		return false
	}
	d.settled = true
	d.value = value
	d.err = err
	callbacks := d.callbacks
	d.callbacks = nil
	close(d.done)
	d.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	return true
}

// Then registers the continuations for d. Exactly one of them runs, once.
// Either may be nil.
func (d *Deferred) Then(onResolve func(any), onReject func(error)) {
	run := func() {
		if d.err != nil {
			if onReject != nil {
				onReject(d.err)
			}
			return
		}
		if onResolve != nil {
			onResolve(d.value)
		}
	}

	d.mu.Lock()
	if !d.settled {
		d.callbacks = append(d.callbacks, run)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	run()
}

// Wait blocks until d settles or ctx is done.
func (d *Deferred) Wait(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
