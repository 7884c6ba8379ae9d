package core

// Portal mounts Children as ordinary descendants of the element that built
// it, while attaching their host nodes to Target. The target is typically a
// node owned by something outside the tree, such as a map overlay's content
// slot.
//
// A Portal is keyed by its target: switching to a different target unmounts
// the children from the old one and mounts them afresh on the new one.
type Portal struct {
	Target   Node
	Children []Widget
}

// CreateElement returns a new PortalElement.
func (p Portal) CreateElement() Element { return &PortalElement{} }

// Key returns the target node.
func (p Portal) Key() any { return p.Target }

// PortalElement hosts a Portal.
type PortalElement struct {
	elementBase
	children []Element
}

// Target returns the node children attach to.
func (e *PortalElement) Target() Node {
	return e.widget.(Portal).Target
}

func (e *PortalElement) Mount(parent Element, slot any) {
	e.mountBase(parent, slot)
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *PortalElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *PortalElement) Unmount() {
	for _, child := range e.children {
		child.Unmount()
	}
	e.children = nil
	e.unmountBase()
}

func (e *PortalElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	e.children = updateChildren(e.children, e.widget.(Portal).Children, e, e.buildOwner)
}

func (e *PortalElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if !visitor(child) {
			return
		}
	}
}

func (e *PortalElement) childHost() Node {
	return e.Target()
}

// MountRoot mounts widget as the root of a new tree whose host nodes attach
// to root. The returned element is a PortalElement; update it with
// UpdateRoot.
func MountRoot(widget Widget, owner *BuildOwner, root Node) Element {
	element := inflateWidget(Portal{Target: root, Children: []Widget{widget}}, owner)
	element.Mount(nil, nil)
	return element
}

// UpdateRoot replaces the widget below a root created by MountRoot. The new
// configuration takes effect on the next FlushBuild.
func UpdateRoot(root Element, widget Widget) {
	portal, ok := root.(*PortalElement)
	if !ok {
		return
	}
	portal.Update(Portal{Target: portal.Target(), Children: []Widget{widget}})
}
