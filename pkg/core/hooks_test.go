package core

import "testing"

type mockDisposable struct {
	disposed bool
}

func (m *mockDisposable) Dispose() {
	m.disposed = true
}

func TestUseController(t *testing.T) {
	base := &StateBase{}

	controller := UseController(base, func() *mockDisposable {
		return &mockDisposable{}
	})

	if controller.disposed {
		t.Error("Controller should not be disposed initially")
	}

	base.Dispose()

	if !controller.disposed {
		t.Error("Controller should be disposed when StateBase is disposed")
	}
}

func TestUseListenable(t *testing.T) {
	base := &StateBase{}
	notifier := NewNotifier()

	UseListenable(base, notifier)

	if notifier.ListenerCount() != 1 {
		t.Errorf("Expected 1 listener, got %d", notifier.ListenerCount())
	}

	base.Dispose()

	if notifier.ListenerCount() != 0 {
		t.Errorf("Expected 0 listeners after dispose, got %d", notifier.ListenerCount())
	}
}

func TestUseObservable_Cleanup(t *testing.T) {
	base := &StateBase{}
	obs := NewObservable(0)

	UseObservable(base, obs)
	base.Dispose()

	// After dispose, setting the observable must not reach the state.
	obs.Set(999)
	if obs.Value() != 999 {
		t.Errorf("Expected 999, got %d", obs.Value())
	}
}

func TestOnDisposeRunsInReverseOrder(t *testing.T) {
	base := &StateBase{}
	var order []int
	base.OnDispose(func() { order = append(order, 1) })
	unregister := base.OnDispose(func() { order = append(order, 2) })
	base.OnDispose(func() { order = append(order, 3) })
	unregister()

	base.Dispose()
	base.Dispose()

	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("dispose order = %v, want [3 1]", order)
	}
}

func TestOnDisposeAfterDisposalRunsImmediately(t *testing.T) {
	base := &StateBase{}
	base.Dispose()

	ran := false
	base.OnDispose(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after disposal should run immediately")
	}
}

func TestManaged(t *testing.T) {
	base := &StateBase{}
	value := NewManaged(base, 10)

	value.Set(21)
	if value.Value() != 21 {
		t.Errorf("Expected 21, got %d", value.Value())
	}

	value.Update(func(v int) int { return v * 2 })
	if value.Value() != 42 {
		t.Errorf("Expected 42, got %d", value.Value())
	}
}

func TestNotifierRemoveDuringNotify(t *testing.T) {
	n := NewNotifier()
	calls := 0
	var remove func()
	remove = n.AddListener(func() {
		calls++
		remove()
	})
	n.AddListener(func() { calls++ })

	n.Notify()
	n.Notify()

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
