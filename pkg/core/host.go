package core

import "slices"

// Node is a host-side object that host widgets render into. Containers owned
// by map overlays implement Node so that projected content can attach to
// them.
type Node interface {
	AppendChild(child Node)
	RemoveChild(child Node)
}

// NodeSnapshot is a serializable copy of a HostNode subtree.
type NodeSnapshot struct {
	Tag      string         `json:"tag"`
	Class    string         `json:"class,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// HostNode is the in-memory node produced by host widgets.
//
// A HostNode tree may carry an observer on any ancestor; every mutation
// below it calls the nearest observer once. HostNode is not safe for
// concurrent use.
type HostNode struct {
	tag      string
	class    string
	text     string
	parent   *HostNode
	children []Node
	observer func()
}

// NewHostNode creates a detached node with the given tag.
func NewHostNode(tag string) *HostNode {
	return &HostNode{tag: tag}
}

// Tag returns the node tag.
func (n *HostNode) Tag() string { return n.tag }

// Class returns the node's class list.
func (n *HostNode) Class() string { return n.class }

// Text returns the node's own text.
func (n *HostNode) Text() string { return n.text }

// Parent returns the parent node, or nil when detached.
func (n *HostNode) Parent() *HostNode { return n.parent }

// SetClass replaces the class list.
func (n *HostNode) SetClass(class string) {
	if n.class == class {
		return
	}
	n.class = class
	n.changed()
}

// SetText replaces the node's own text.
func (n *HostNode) SetText(text string) {
	if n.text == text {
		return
	}
	n.text = text
	n.changed()
}

// AppendChild attaches child as the last child.
func (n *HostNode) AppendChild(child Node) {
	if child == nil {
		return
	}
	if hn, ok := child.(*HostNode); ok {
		if hn.parent != nil {
			hn.parent.RemoveChild(hn)
		}
		hn.parent = n
	}
	n.children = append(n.children, child)
	n.changed()
}

// RemoveChild detaches child. Removing a node that is not a child is a no-op.
func (n *HostNode) RemoveChild(child Node) {
	index := slices.Index(n.children, child)
	if index < 0 {
		return
	}
	n.children = slices.Delete(n.children, index, index+1)
	if hn, ok := child.(*HostNode); ok {
		hn.parent = nil
	}
	n.changed()
}

// Children returns a copy of the child list.
func (n *HostNode) Children() []Node {
	return slices.Clone(n.children)
}

// Observe installs fn as the observer for this subtree. Pass nil to remove it.
func (n *HostNode) Observe(fn func()) {
	n.observer = fn
}

// TextContent concatenates the text of this node and its descendants in
// document order.
func (n *HostNode) TextContent() string {
	text := n.text
	for _, child := range n.children {
		if hn, ok := child.(*HostNode); ok {
			text += hn.TextContent()
		}
	}
	return text
}

// Snapshot copies the subtree into a serializable value. Children that are
// not HostNodes are skipped.
func (n *HostNode) Snapshot() NodeSnapshot {
	snap := NodeSnapshot{Tag: n.tag, Class: n.class, Text: n.text}
	for _, child := range n.children {
		if hn, ok := child.(*HostNode); ok {
			snap.Children = append(snap.Children, hn.Snapshot())
		}
	}
	return snap
}

func (n *HostNode) changed() {
	for current := n; current != nil; current = current.parent {
		if current.observer != nil {
			current.observer()
			return
		}
	}
}

// HostWidget produces a host node and keeps it in sync with its fields.
type HostWidget interface {
	Widget
	CreateNode(ctx BuildContext) Node
	UpdateNode(ctx BuildContext, node Node)
}

// HostBase provides default CreateElement and Key implementations for host
// widgets.
type HostBase struct{}

// CreateElement returns a new HostElement.
func (HostBase) CreateElement() Element { return NewHostElement() }

// Key returns nil (no key).
func (HostBase) Key() any { return nil }

// HostElement hosts a HostWidget. Its node is attached to the nearest host
// ancestor on mount and detached on unmount. Children declared through a
// ChildWidgets() []Widget method attach to this element's node.
type HostElement struct {
	elementBase
	node     Node
	host     Node
	children []Element
}

// NewHostElement creates a HostElement.
func NewHostElement() *HostElement {
	return &HostElement{}
}

// Node returns the element's host node.
func (e *HostElement) Node() Node {
	return e.node
}

func (e *HostElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.node = e.widget.(HostWidget).CreateNode(e)
	e.host = e.findHost()
	if e.host != nil {
		e.host.AppendChild(e.node)
	}
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *HostElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

// Unmount removes children first, then detaches this element's own node.
func (e *HostElement) Unmount() {
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil
	if e.host != nil {
		e.host.RemoveChild(e.node)
		e.host = nil
	}
	e.unmountBase()
}

func (e *HostElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	widget := e.widget.(HostWidget)
	widget.UpdateNode(e, e.node)
	var childWidgets []Widget
	if parent, ok := widget.(interface{ ChildWidgets() []Widget }); ok {
		childWidgets = parent.ChildWidgets()
	}
	e.children = updateChildren(e.children, childWidgets, e, e.buildOwner)
}

func (e *HostElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

func (e *HostElement) childHost() Node {
	return e.node
}
