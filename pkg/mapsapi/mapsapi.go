// Package mapsapi describes the map engine objects that overlay widgets
// drive. The interfaces are the boundary between the widget tree and the
// engine: the widgets in package maps only ever talk to the engine through
// them, and package platform implements them over native channels.
//
// Every mutating call may fail. Engine errors are returned unmodified so
// the caller decides how to surface them.
package mapsapi

import (
	"context"

	"github.com/go-drift/drift-maps/pkg/core"
)

// Map is a live map engine instance. Two Map values are the same instance
// exactly when they compare equal.
type Map interface {
	MapID() string
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CollisionBehavior controls how a marker behaves when it collides with
// other markers or map labels.
type CollisionBehavior string

const (
	// CollisionRequired always displays the marker.
	CollisionRequired CollisionBehavior = "REQUIRED"
	// CollisionRequiredAndHidesOptional always displays the marker and
	// hides optional markers or labels that overlap it.
	CollisionRequiredAndHidesOptional CollisionBehavior = "REQUIRED_AND_HIDES_OPTIONAL"
	// CollisionOptionalAndHidesLowerPriority displays the marker only if it
	// does not overlap other markers, hiding lower priority ones.
	CollisionOptionalAndHidesLowerPriority CollisionBehavior = "OPTIONAL_AND_HIDES_LOWER_PRIORITY"
)

// Valid reports whether c is one of the known collision behaviors.
func (c CollisionBehavior) Valid() bool {
	switch c {
	case CollisionRequired, CollisionRequiredAndHidesOptional, CollisionOptionalAndHidesLowerPriority:
		return true
	}
	return false
}

// Library is a lazily loaded module of engine functionality.
type Library any

// LibraryMarker is the name of the library that provides advanced markers.
const LibraryMarker = "marker"

// Importer resolves a library by name. It may block; callers run it off the
// UI goroutine.
type Importer func(ctx context.Context, name string) (Library, error)

// MarkerLibrary is the shape of the resolved "marker" library.
type MarkerLibrary interface {
	NewAdvancedMarker() (AdvancedMarker, error)
	NewContainer() (Container, error)
}

// AdvancedMarker is a marker overlay owned by the engine. Passing nil to
// SetMap detaches it from any map.
type AdvancedMarker interface {
	SetMap(m Map) error
	SetPosition(position *LatLng) error
	SetGmpDraggable(draggable bool) error
	SetCollisionBehavior(behavior CollisionBehavior) error
	SetZIndex(zIndex int) error
	SetTitle(title string) error
	SetContent(content Container) error
}

// Container is a foreign content slot attached to a marker. Widgets mount
// into it through a core.Portal.
type Container interface {
	core.Node
	SetClassName(className string) error
	// Remove detaches the container from whatever holds it.
	Remove() error
}
