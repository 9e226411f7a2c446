package window

import (
	"fmt"
	"sync"
)

// Registry tracks open window surfaces for the lifetime of the process.
// Labels are allocated from a monotonic counter and never reused, even
// after the owning window closes or its creation fails.
type Registry struct {
	mu    sync.Mutex
	next  int               // label sequence, never decremented
	count int               // open windows, floors at zero
	fixed map[string]string // Protected by mu
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fixed: make(map[string]string),
	}
}

// AllocateLabel returns the label for the next window, in the form
// "main-<n>". The sequence only advances; releasing a window never
// returns its label to the pool.
func (r *Registry) AllocateLabel() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.count++
	return fmt.Sprintf("main-%d", r.next)
}

// Release records a window-close event. The counter floors at zero so a
// close delivered after all windows are already accounted for is a no-op.
// The display layer may deliver close events more than once per window.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count > 0 {
		r.count--
	}
}

// Count returns the number of windows currently accounted open.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// ReserveFixed associates a well-known name with a window label.
// Reserved for fixed/named windows; nothing looks these up yet beyond
// the boot shell window.
func (r *Registry) ReserveFixed(name, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixed[name] = label
}

// FixedLabel returns the label reserved under name, if any.
func (r *Registry) FixedLabel(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label, ok := r.fixed[name]
	return label, ok
}
