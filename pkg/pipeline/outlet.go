package pipeline

import (
	"fmt"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Outlet is a slot in the view chain that renders one handler at a time.
// An activated outlet always owns an empty child outlet for nested routes.
type Outlet struct {
	mu        sync.Mutex
	depth     int
	handler   *domain.Handler
	data      any
	loading   bool
	activated bool
	child     *Outlet
}

// NewRoot creates the empty outlet at the top of a view chain.
func NewRoot() *Outlet {
	return &Outlet{}
}

// Name identifies the outlet by the handler it renders.
func (o *Outlet) Name() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.handler == nil {
		return fmt.Sprintf("<empty>@%d", o.depth)
	}
	return o.handler.Name
}

// Depth is the outlet's position from the root.
func (o *Outlet) Depth() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.depth
}

// Handler is the rendered handler, or nil for an empty outlet.
func (o *Outlet) Handler() *domain.Handler {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.handler
}

// Data is the value produced by the component's Data hook.
func (o *Outlet) Data() any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data
}

// Loading reports whether a Data hook is still running.
func (o *Outlet) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// Activated reports whether the component's Activate hook completed.
func (o *Outlet) Activated() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activated
}

// Child is the nested outlet, or nil for an empty outlet.
func (o *Outlet) Child() *Outlet {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.child
}

// Chain walks the outlets from o down to the deepest one, root first.
func (o *Outlet) Chain() []domain.ViewNode {
	var out []domain.ViewNode
	for cur := o; cur != nil; cur = cur.Child() {
		out = append(out, cur)
	}
	return out
}

// mount renders h in the outlet and gives it a fresh, empty child.
func (o *Outlet) mount(h *domain.Handler, depth int) *Outlet {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.depth = depth
	o.handler = h
	o.data = nil
	o.activated = false
	o.child = &Outlet{depth: depth + 1}
	return o.child
}

// clear empties the outlet and drops everything nested in it.
func (o *Outlet) clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handler = nil
	o.data = nil
	o.loading = false
	o.activated = false
	o.child = nil
}

func (o *Outlet) setActivated() {
	o.mu.Lock()
	o.activated = true
	o.mu.Unlock()
}

func (o *Outlet) setLoading(loading bool) {
	o.mu.Lock()
	o.loading = loading
	o.mu.Unlock()
}

func (o *Outlet) setData(data any) {
	o.mu.Lock()
	o.data = data
	o.loading = false
	o.mu.Unlock()
}
