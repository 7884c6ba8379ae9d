// Package core provides the widget and element framework that drives
// map overlays.
//
// Widgets are immutable descriptions. Elements are their instantiation at a
// location in the tree and own identity and lifecycle. Stateful widgets keep
// a [State] whose lifecycle methods run in a fixed order:
//
//	InitState -> DidChangeDependencies -> Build
//	                 (on ambient change) -> DidChangeDependencies -> Build
//	                 (on new config)     -> DidUpdateWidget -> Build
//	Dispose (after descendants are unmounted)
//
// All of this runs on the UI goroutine. Other goroutines hand work over with
// platform.Dispatch.
//
// # Stateful Widgets
//
// Embed StateBase in the state struct:
//
//	type pinState struct {
//	    core.StateBase
//	    selected bool
//	}
//
//	func (s *pinState) Build(ctx core.BuildContext) core.Widget {
//	    return widgets.Text{Content: "pin"}
//	}
//
// # Ambient Values
//
// An [InheritedWidget] publishes a value to its subtree. Descendants look it
// up with [DependOn], which also registers them for DidChangeDependencies
// when the value changes. A missing ancestor is reported as absence, not as
// an error.
//
// # Host Nodes and Portals
//
// Host widgets produce [Node]s that attach to the nearest host ancestor.
// A [Portal] mounts its children as ordinary descendants while attaching
// their nodes to a foreign target node, which is how content is projected
// into slots owned by objects outside the tree.
package core
