package core

// UseController creates a controller and disposes it together with the state.
//
//	func (s *mapState) InitState() {
//	    s.engine = core.UseController(s, platform.NewEngine)
//	}
func UseController[C Disposable](s StateHolder, create func() C) C {
	base := s.state()
	controller := create()
	base.OnDispose(controller.Dispose)
	return controller
}

// UseListenable rebuilds the state whenever listenable notifies. The
// subscription ends when the state is disposed.
func UseListenable(s StateHolder, listenable Listenable) {
	base := s.state()
	unsubscribe := listenable.AddListener(func() {
		base.SetState(nil)
	})
	base.OnDispose(unsubscribe)
}

// UseObservable rebuilds the state whenever obs changes. Call it once, from
// InitState. The subscription ends when the state is disposed.
func UseObservable[T any](s StateHolder, obs *Observable[T]) {
	base := s.state()
	unsubscribe := obs.AddListener(func(T) {
		base.SetState(nil)
	})
	base.OnDispose(unsubscribe)
}

// Managed holds a value owned by one state and rebuilds that state when the
// value changes.
//
// Managed is not safe for concurrent use; touch it only on the UI goroutine.
type Managed[T any] struct {
	base  *StateBase
	value T
}

// NewManaged creates a managed value tied to s.
func NewManaged[T any](s StateHolder, initial T) *Managed[T] {
	return &Managed[T]{
		base:  s.state(),
		value: initial,
	}
}

// Value returns the current value.
func (m *Managed[T]) Value() T {
	return m.value
}

// Set updates the value and schedules a rebuild.
func (m *Managed[T]) Set(value T) {
	m.value = value
	m.base.SetState(nil)
}

// Update applies transform to the current value and schedules a rebuild.
func (m *Managed[T]) Update(transform func(T) T) {
	m.value = transform(m.value)
	m.base.SetState(nil)
}
