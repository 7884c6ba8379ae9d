package widgets

import "github.com/go-drift/drift-maps/pkg/core"

// Text displays a string.
type Text struct {
	core.HostBase
	Content string
	// Class is the node's class list.
	Class string
}

// CreateNode creates a "span" node.
func (t Text) CreateNode(ctx core.BuildContext) core.Node {
	return core.NewHostNode("span")
}

// UpdateNode applies Content and Class.
func (t Text) UpdateNode(ctx core.BuildContext, node core.Node) {
	host := node.(*core.HostNode)
	host.SetText(t.Content)
	host.SetClass(t.Class)
}
