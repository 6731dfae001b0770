package runtime

import "sync/atomic"

// Step processes one queue item and calls advance when the item lets the queue move on.
type Step[T any] func(item T, t *Transition, advance func())

// runQueue drives queue through step strictly in order, one item at a time.
// done is called once the last item advanced. An aborted transition stops the queue:
// no further item is dispatched and done is never called.
func runQueue[T any](t *Transition, queue []T, step Step[T], done func()) {
	var dispatch func(i int)
	dispatch = func(i int) {
		if t.Aborted() {
			return
		}
		if i >= len(queue) {
			done()
			return
		}
		var advanced atomic.Bool
		step(queue[i], t, func() {
			if advanced.CompareAndSwap(false, true) {
				dispatch(i + 1)
			}
		})
	}
	dispatch(0)
}
