package weblocale

import (
	"sync"

	"github.com/google/uuid"
)

// notifier dispatches ready and language-changed notifications to registered
// callbacks. Callbacks run on the goroutine that triggered the event (the
// initializing goroutine for ready, the switch worker for changes).
type notifier struct {
	mu     sync.Mutex
	ready  map[string]func(code string)
	change map[string]func(code string)
}

func (n *notifier) onReady(fn func(code string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ready == nil {
		n.ready = make(map[string]func(code string))
	}
	id := uuid.NewString()
	n.ready[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.ready, id)
	}
}

func (n *notifier) onChange(fn func(code string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.change == nil {
		n.change = make(map[string]func(code string))
	}
	id := uuid.NewString()
	n.change[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.change, id)
	}
}

func (n *notifier) emitReady(code string) {
	for _, fn := range n.snapshot(&n.ready) {
		fn(code)
	}
}

func (n *notifier) emitChange(code string) {
	for _, fn := range n.snapshot(&n.change) {
		fn(code)
	}
}

// snapshot copies a callback set so emission runs without holding the lock.
func (n *notifier) snapshot(set *map[string]func(code string)) []func(code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fns := make([]func(code string), 0, len(*set))
	for _, fn := range *set {
		fns = append(fns, fn)
	}
	return fns
}
