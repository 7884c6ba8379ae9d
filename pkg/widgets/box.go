package widgets

import "github.com/go-drift/drift-maps/pkg/core"

// Box is a container node with a class list and children.
type Box struct {
	core.HostBase
	// Class is the node's class list.
	Class    string
	Children []core.Widget
}

// CreateNode creates a "div" node.
func (b Box) CreateNode(ctx core.BuildContext) core.Node {
	return core.NewHostNode("div")
}

// UpdateNode applies Class.
func (b Box) UpdateNode(ctx core.BuildContext, node core.Node) {
	node.(*core.HostNode).SetClass(b.Class)
}

// ChildWidgets returns the children.
func (b Box) ChildWidgets() []core.Widget {
	return b.Children
}
