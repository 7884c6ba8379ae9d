package core

// InheritedElement hosts an [InheritedWidget] and tracks the descendants
// that looked it up.
//
// When the widget is replaced and [InheritedWidget.UpdateShouldNotify]
// returns true, every registered dependent is told synchronously, before the
// subtree is rebuilt. Stateful dependents receive DidChangeDependencies.
type InheritedElement struct {
	elementBase
	child      Element
	dependents map[Element]struct{}
}

// NewInheritedElement creates an InheritedElement.
// The widget and build owner are set later by the framework during inflation.
func NewInheritedElement() *InheritedElement {
	return &InheritedElement{
		dependents: make(map[Element]struct{}),
	}
}

func (e *InheritedElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *InheritedElement) Update(newWidget Widget) {
	oldWidget := e.widget.(InheritedWidget)
	e.widget = newWidget
	if newWidget.(InheritedWidget).UpdateShouldNotify(oldWidget) {
		// Snapshot first: a dependent may look the value up again while
		// being notified.
		dependents := make([]Element, 0, len(e.dependents))
		for dependent := range e.dependents {
			dependents = append(dependents, dependent)
		}
		for _, dependent := range dependents {
			notifyDependent(dependent)
		}
	}
	e.MarkNeedsBuild()
}

func (e *InheritedElement) Unmount() {
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	e.unmountBase()
	e.dependents = nil
}

func (e *InheritedElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	inherited := e.widget.(InheritedWidget)
	e.child = updateChild(e.child, inherited.ChildWidget(), e, e.buildOwner)
}

func (e *InheritedElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// AddDependent registers an element as depending on this inherited widget.
func (e *InheritedElement) AddDependent(dependent Element) {
	if e.dependents == nil {
		e.dependents = make(map[Element]struct{})
	}
	e.dependents[dependent] = struct{}{}
}

// RemoveDependent unregisters an element.
func (e *InheritedElement) RemoveDependent(dependent Element) {
	delete(e.dependents, dependent)
}

// DependentCount reports how many elements currently depend on this one.
func (e *InheritedElement) DependentCount() int {
	return len(e.dependents)
}

func notifyDependent(element Element) {
	if stateful, ok := element.(*StatefulElement); ok {
		stateful.didChangeDependencies()
		return
	}
	element.MarkNeedsBuild()
}
