package maps

import (
	"go.uber.org/multierr"

	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// Ptr returns a pointer to v, for filling optional props.
func Ptr[T any](v T) *T {
	return &v
}

// field remembers the last value written to one engine field.
type field[T comparable] struct {
	value T
	set   bool
}

// write calls set with value unless value was the last one written. The
// value is only remembered once set succeeds.
func (f *field[T]) write(value T, set func(T) error) error {
	if f.set && f.value == value {
		return nil
	}
	if err := set(value); err != nil {
		return err
	}
	f.value, f.set = value, true
	return nil
}

// propSnapshot holds the values last written to one marker and its
// container. It is reset whenever a new marker is created.
type propSnapshot struct {
	position          field[*mapsapi.LatLng]
	draggable         field[bool]
	collisionBehavior field[mapsapi.CollisionBehavior]
	zIndex            field[int]
	title             field[string]
	contentClass      field[string]
}

// apply writes every present prop that changed since the last write. A
// failed write is returned and retried on the next apply; the other fields
// are still written.
func (p *propSnapshot) apply(w AdvancedMarker, marker mapsapi.AdvancedMarker, container mapsapi.Container) error {
	var errs error
	if w.Position != nil {
		errs = multierr.Append(errs, engineError("SetPosition", marker,
			p.position.write(w.Position, marker.SetPosition)))
	}
	if w.Draggable != nil {
		errs = multierr.Append(errs, engineError("SetGmpDraggable", marker,
			p.draggable.write(*w.Draggable, marker.SetGmpDraggable)))
	}
	if w.CollisionBehavior != nil {
		errs = multierr.Append(errs, engineError("SetCollisionBehavior", marker,
			p.collisionBehavior.write(*w.CollisionBehavior, marker.SetCollisionBehavior)))
	}
	if w.ZIndex != nil {
		errs = multierr.Append(errs, engineError("SetZIndex", marker,
			p.zIndex.write(*w.ZIndex, marker.SetZIndex)))
	}
	if w.Title != nil {
		errs = multierr.Append(errs, engineError("SetTitle", marker,
			p.title.write(*w.Title, marker.SetTitle)))
	}
	if container != nil && w.ContentClass != "" {
		errs = multierr.Append(errs, engineError("SetClassName", container,
			p.contentClass.write(w.ContentClass, container.SetClassName)))
	}
	return errs
}
