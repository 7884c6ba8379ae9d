package core

import (
	"reflect"
	"slices"
	"time"

	"github.com/go-drift/drift-maps/pkg/errors"
)

type elementBase struct {
	widget       Widget
	parent       Element
	depth        int
	slot         any
	buildOwner   *BuildOwner
	dirty        bool
	self         Element
	mounted      bool
	dependencies []*InheritedElement
}

func (e *elementBase) Widget() Widget {
	return e.widget
}

func (e *elementBase) Depth() int {
	return e.depth
}

func (e *elementBase) MarkNeedsBuild() {
	if e.dirty {
		return
	}
	e.dirty = true
	if e.buildOwner != nil && e.self != nil {
		e.buildOwner.ScheduleBuild(e.self)
	}
}

func (e *elementBase) parentElement() Element {
	return e.parent
}

func (e *elementBase) setSelf(self Element) {
	e.self = self
}

func (e *elementBase) setBuildOwner(owner *BuildOwner) {
	e.buildOwner = owner
}

func (e *elementBase) isMounted() bool {
	return e.mounted
}

func (e *elementBase) mountBase(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.mounted = true
}

// unmountBase marks the element unmounted and drops its inherited
// registrations so a disposed state is never told about later changes.
func (e *elementBase) unmountBase() {
	e.mounted = false
	for _, dep := range e.dependencies {
		dep.RemoveDependent(e.self)
	}
	e.dependencies = nil
}

func (e *elementBase) FindAncestor(predicate func(Element) bool) Element {
	current := e.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		base, ok := current.(interface{ parentElement() Element })
		if !ok {
			break
		}
		current = base.parentElement()
	}
	return nil
}

func (e *elementBase) DependOnInherited(inheritedType reflect.Type) any {
	found := e.FindAncestor(func(candidate Element) bool {
		inherited, ok := candidate.(*InheritedElement)
		return ok && reflect.TypeOf(inherited.widget) == inheritedType
	})
	if found == nil {
		return nil
	}
	inherited := found.(*InheritedElement)
	inherited.AddDependent(e.self)
	if !slices.Contains(e.dependencies, inherited) {
		e.dependencies = append(e.dependencies, inherited)
	}
	return inherited.widget
}

// findHost returns the node that this element's host nodes attach to: the
// node of the nearest host element or portal above it.
func (e *elementBase) findHost() Node {
	found := e.FindAncestor(func(candidate Element) bool {
		_, ok := candidate.(interface{ childHost() Node })
		return ok
	})
	if found == nil {
		return nil
	}
	return found.(interface{ childHost() Node }).childHost()
}

// safeBuild executes a build function with panic recovery. A failed build
// is reported and renders nothing.
func (e *elementBase) safeBuild(buildFn func() Widget) (built Widget) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportBuildError(&errors.BuildError{
				Widget:     reflect.TypeOf(e.widget).String(),
				Element:    reflect.TypeOf(e.self).String(),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			built = nil
		}
	}()
	return buildFn()
}

// StatelessElement hosts a StatelessWidget.
type StatelessElement struct {
	elementBase
	child Element
}

// NewStatelessElement creates a StatelessElement. The widget and build owner
// are set by the framework during inflation.
func NewStatelessElement() *StatelessElement {
	return &StatelessElement{}
}

func (e *StatelessElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *StatelessElement) Unmount() {
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	e.unmountBase()
}

func (e *StatelessElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	widget := e.widget.(StatelessWidget)
	built := e.safeBuild(func() Widget {
		return widget.Build(e)
	})
	e.child = updateChild(e.child, built, e, e.buildOwner)
}

func (e *StatelessElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// StatefulElement hosts a StatefulWidget and its State.
type StatefulElement struct {
	elementBase
	child Element
	state State
}

// NewStatefulElement creates a StatefulElement. The widget and build owner
// are set by the framework during inflation.
func NewStatefulElement() *StatefulElement {
	return &StatefulElement{}
}

// State returns the element's state, or nil before mount.
func (e *StatefulElement) State() State {
	return e.state
}

func (e *StatefulElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	widget := e.widget.(StatefulWidget)
	e.state = widget.CreateState()
	if setter, ok := e.state.(interface{ setElement(*StatefulElement) }); ok {
		setter.setElement(e)
	} else if setter, ok := e.state.(interface{ SetElement(*StatefulElement) }); ok {
		setter.SetElement(e)
	}
	e.state.InitState()
	e.state.DidChangeDependencies()
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatefulElement) Update(newWidget Widget) {
	oldWidget := e.widget.(StatefulWidget)
	e.widget = newWidget
	e.state.DidUpdateWidget(oldWidget)
	e.MarkNeedsBuild()
}

// Unmount tears down descendants before disposing the state, so a state's
// Dispose never observes mounted children.
func (e *StatefulElement) Unmount() {
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	e.unmountBase()
	if e.state != nil {
		e.state.Dispose()
	}
}

func (e *StatefulElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeBuild(func() Widget {
		return e.state.Build(e)
	})
	e.child = updateChild(e.child, built, e, e.buildOwner)
}

func (e *StatefulElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// didChangeDependencies forwards an inherited change to the state, unless
// the element has already been unmounted.
func (e *StatefulElement) didChangeDependencies() {
	if !e.mounted || e.state == nil {
		return
	}
	e.state.DidChangeDependencies()
	e.MarkNeedsBuild()
}

func updateChild(existing Element, widget Widget, parent Element, owner *BuildOwner) Element {
	if widget == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdateWidget(existing.Widget(), widget) {
		existing.Update(widget)
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	element := inflateWidget(widget, owner)
	element.Mount(parent, nil)
	return element
}

// updateChildren reconciles children by position. Surplus old elements are
// unmounted before new ones are mounted.
func updateChildren(existing []Element, widgets []Widget, parent Element, owner *BuildOwner) []Element {
	for i := len(widgets); i < len(existing); i++ {
		existing[i].Unmount()
	}
	updated := make([]Element, 0, len(widgets))
	for index, childWidget := range widgets {
		var current Element
		if index < len(existing) {
			current = existing[index]
		}
		if child := updateChild(current, childWidget, parent, owner); child != nil {
			updated = append(updated, child)
		}
	}
	return updated
}

func canUpdateWidget(existing Widget, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return existing.Key() == next.Key()
}

func inflateWidget(widget Widget, owner *BuildOwner) Element {
	element := widget.CreateElement()
	if setter, ok := element.(interface{ setWidget(Widget) }); ok {
		setter.setWidget(widget)
	}
	if setter, ok := element.(interface{ setBuildOwner(*BuildOwner) }); ok {
		setter.setBuildOwner(owner)
	}
	if setter, ok := element.(interface{ setSelf(Element) }); ok {
		setter.setSelf(element)
	}
	return element
}

func (e *elementBase) setWidget(widget Widget) {
	e.widget = widget
}
