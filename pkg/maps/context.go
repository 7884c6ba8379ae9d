package maps

import (
	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// MapScope publishes a map instance to its subtree. Replacing Map with a
// different instance tears down and recreates every overlay below.
type MapScope struct {
	core.InheritedBase
	Map   mapsapi.Map
	Child core.Widget
}

// ChildWidget returns the child.
func (m MapScope) ChildWidget() core.Widget { return m.Child }

// UpdateShouldNotify reports whether the map instance changed.
func (m MapScope) UpdateShouldNotify(old core.InheritedWidget) bool {
	return m.Map != old.(MapScope).Map
}

// MapOf returns the map published by the nearest MapScope and registers ctx
// as its dependent. It returns nil when there is no scope or the scope has
// no map yet.
func MapOf(ctx core.BuildContext) mapsapi.Map {
	scope, ok := core.DependOn[MapScope](ctx)
	if !ok {
		return nil
	}
	return scope.Map
}

// APIProvider publishes the engine services overlays need.
type APIProvider struct {
	core.InheritedBase
	// Loader resolves engine libraries. It is shared by every overlay
	// below and is never torn down by them.
	Loader *LibraryLoader
	// Events is the engine's event subscription API.
	Events mapsapi.EventSystem
	Child  core.Widget
}

// ChildWidget returns the child.
func (p APIProvider) ChildWidget() core.Widget { return p.Child }

// UpdateShouldNotify reports whether either service changed.
func (p APIProvider) UpdateShouldNotify(old core.InheritedWidget) bool {
	prev := old.(APIProvider)
	return p.Loader != prev.Loader || p.Events != prev.Events
}

// APIProviderOf returns the nearest APIProvider and registers ctx as its
// dependent, or nil when there is none.
func APIProviderOf(ctx core.BuildContext) *APIProvider {
	provider, ok := core.DependOn[APIProvider](ctx)
	if !ok {
		return nil
	}
	return &provider
}
