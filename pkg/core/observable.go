package core

import "sync"

type listenerEntry[F any] struct {
	id int
	fn F
}

// Notifier is a Listenable that calls its listeners on Notify.
// It is safe for concurrent use; listeners run on the notifying goroutine.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners []listenerEntry[func()]
}

// NewNotifier creates a Notifier with no listeners.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// AddListener registers listener and returns a function that removes it.
func (n *Notifier) AddListener(listener func()) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, listenerEntry[func()]{id: id, fn: listener})
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, entry := range n.listeners {
			if entry.id == id {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every listener registered at the time of the call.
func (n *Notifier) Notify() {
	n.mu.Lock()
	listeners := make([]listenerEntry[func()], len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()
	for _, entry := range listeners {
		entry.fn()
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Observable holds a value and notifies listeners when Set is called.
// It is safe for concurrent use.
type Observable[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners []listenerEntry[func(T)]
}

// NewObservable creates an Observable holding initial.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set stores value and notifies listeners with it.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	listeners := make([]listenerEntry[func(T)], len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()
	for _, entry := range listeners {
		entry.fn(value)
	}
}

// AddListener registers listener and returns a function that removes it.
func (o *Observable[T]) AddListener(listener func(T)) func() {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, listenerEntry[func(T)]{id: id, fn: listener})
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, entry := range o.listeners {
			if entry.id == id {
				o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
				return
			}
		}
	}
}
