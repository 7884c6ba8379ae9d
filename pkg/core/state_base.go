package core

import "sync"

// StateHolder is satisfied by any struct that embeds StateBase. Hooks
// accept a StateHolder so callers can pass their state directly.
type StateHolder interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase provides common functionality for stateful widget states.
// Embed it to get default lifecycle methods, SetState and disposers.
type StateBase struct {
	element   *StatefulElement
	disposers []func()
	disposed  bool
	mu        sync.Mutex
}

func (s *StateBase) setElement(element *StatefulElement) {
	s.element = element
}

// Element returns the element associated with this state, or nil before
// mount.
func (s *StateBase) Element() *StatefulElement {
	return s.element
}

// Context returns the build context of the hosting element, or nil before
// mount.
func (s *StateBase) Context() BuildContext {
	if s.element == nil {
		return nil
	}
	return s.element
}

// SetState executes fn and schedules a rebuild. Calls after disposal are
// no-ops.
//
// SetState must only be called on the UI goroutine; other goroutines go
// through platform.Dispatch.
func (s *StateBase) SetState(fn func()) {
	if s.IsDisposed() {
		return
	}
	if fn != nil {
		fn()
	}
	if s.element != nil {
		s.element.MarkNeedsBuild()
	}
}

// OnDispose registers cleanup to run when the state is disposed. Cleanups
// run in reverse registration order. Registering after disposal runs cleanup
// immediately. The returned function unregisters cleanup.
func (s *StateBase) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		cleanup()
		return func() {}
	}
	index := len(s.disposers)
	s.disposers = append(s.disposers, cleanup)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.disposers) {
			s.disposers[index] = nil
		}
	}
}

// RunDisposers executes all registered disposers in reverse order, once.
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}
}

// Dispose runs the registered disposers. States that override Dispose must
// still call s.StateBase.Dispose().
func (s *StateBase) Dispose() {
	s.RunDisposers()
}

// InitState is a no-op default implementation.
func (s *StateBase) InitState() {}

// Build is a default implementation that renders nothing.
func (s *StateBase) Build(ctx BuildContext) Widget {
	return nil
}

// DidChangeDependencies is a no-op default implementation.
func (s *StateBase) DidChangeDependencies() {}

// DidUpdateWidget is a no-op default implementation.
func (s *StateBase) DidUpdateWidget(oldWidget StatefulWidget) {}

// IsDisposed reports whether the state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
