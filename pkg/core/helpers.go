package core

// StatelessBase provides default CreateElement and Key implementations for
// stateless widgets:
//
//	type Label struct {
//	    core.StatelessBase
//	    Text string
//	}
//
//	func (l Label) Build(ctx core.BuildContext) core.Widget {
//	    return widgets.Text{Content: l.Text}
//	}
type StatelessBase struct{}

// CreateElement returns a new StatelessElement.
func (StatelessBase) CreateElement() Element { return NewStatelessElement() }

// Key returns nil (no key).
func (StatelessBase) Key() any { return nil }

// StatefulBase provides default CreateElement and Key implementations for
// stateful widgets:
//
//	type Pin struct {
//	    core.StatefulBase
//	}
//
//	func (Pin) CreateState() core.State { return &pinState{} }
type StatefulBase struct{}

// CreateElement returns a new StatefulElement.
func (StatefulBase) CreateElement() Element { return NewStatefulElement() }

// Key returns nil (no key).
func (StatefulBase) Key() any { return nil }

// InheritedBase provides default CreateElement and Key implementations for
// inherited widgets. Embed it next to a Child field and implement
// [InheritedWidget.UpdateShouldNotify] and [InheritedWidget.ChildWidget]:
//
//	type ThemeScope struct {
//	    core.InheritedBase
//	    Theme *Theme
//	    Child core.Widget
//	}
//
//	func (t ThemeScope) ChildWidget() core.Widget { return t.Child }
//
//	func (t ThemeScope) UpdateShouldNotify(old core.InheritedWidget) bool {
//	    return t.Theme != old.(ThemeScope).Theme
//	}
type InheritedBase struct{}

// CreateElement returns a new InheritedElement.
func (InheritedBase) CreateElement() Element { return NewInheritedElement() }

// Key returns nil (no key).
func (InheritedBase) Key() any { return nil }
