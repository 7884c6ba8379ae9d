package core

import "reflect"

// Widget is an immutable description of part of the tree.
type Widget interface {
	// CreateElement instantiates the element hosting this widget.
	CreateElement() Element
	// Key distinguishes siblings of the same type. Keys must be comparable.
	Key() any
}

// StatelessWidget builds its subtree purely from its own fields.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget keeps mutable state in a [State] that outlives rebuilds.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// State is the mutable half of a StatefulWidget.
type State interface {
	InitState()
	Build(ctx BuildContext) Widget
	SetState(fn func())
	Dispose()
	DidChangeDependencies()
	DidUpdateWidget(oldWidget StatefulWidget)
}

// InheritedWidget publishes a value to every descendant.
type InheritedWidget interface {
	Widget
	ChildWidget() Widget
	// UpdateShouldNotify reports whether dependents must be told about the
	// change from old to this widget.
	UpdateShouldNotify(old InheritedWidget) bool
}

// BuildContext is the handle a widget gets to its location in the tree.
type BuildContext interface {
	Widget() Widget
	FindAncestor(predicate func(Element) bool) Element
	// DependOnInherited returns the nearest ancestor InheritedWidget of the
	// given type and registers the caller as a dependent, or nil.
	DependOnInherited(inheritedType reflect.Type) any
}

// Element is the instantiation of a Widget at a location in the tree.
type Element interface {
	BuildContext
	Mount(parent Element, slot any)
	Update(newWidget Widget)
	Unmount()
	RebuildIfNeeded()
	MarkNeedsBuild()
	Depth() int
	VisitChildren(visitor func(Element) bool)
}

// Disposable is implemented by controllers that hold resources.
type Disposable interface {
	Dispose()
}

// Listenable notifies listeners of changes. AddListener returns a function
// that removes the listener.
type Listenable interface {
	AddListener(listener func()) func()
}

// DependOn looks up the nearest ancestor inherited widget of type T and
// registers ctx as its dependent. The boolean is false when no ancestor of
// that type exists.
func DependOn[T InheritedWidget](ctx BuildContext) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	found := ctx.DependOnInherited(reflect.TypeFor[T]())
	if found == nil {
		return zero, false
	}
	typed, ok := found.(T)
	return typed, ok
}
