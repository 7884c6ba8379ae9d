package maps

import (
	"unsafe"

	"go.uber.org/multierr"

	"github.com/go-drift/drift-maps/pkg/errors"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// funcIdentity returns the identity of a func value: two values share an
// identity exactly when they are the same closure. Nil has identity 0.
func funcIdentity[F any](fn F) uintptr {
	return *(*uintptr)(unsafe.Pointer(&fn))
}

// handlerSet holds one handler per entry of mapsapi.MarkerEvents.
type handlerSet [4]mapsapi.EventHandler

func handlersOf(w AdvancedMarker) handlerSet {
	return handlerSet{w.OnClick, w.OnDragStart, w.OnDrag, w.OnDragEnd}
}

func (h handlerSet) identities() [4]uintptr {
	var ids [4]uintptr
	for i, handler := range h {
		if handler != nil {
			ids[i] = funcIdentity(handler)
		}
	}
	return ids
}

func (h handlerSet) hasDragHandler() bool {
	return h[1] != nil || h[2] != nil || h[3] != nil
}

// eventBinder keeps the listeners on one marker equal to the current
// handler set. Any change clears every listener on the marker and attaches
// the new set, so a stale handler is never left attached next to a new
// one.
type eventBinder struct {
	events mapsapi.EventSystem
	target mapsapi.AdvancedMarker
	bound  [4]uintptr
}

// bind brings the listeners in line with handlers. draggable is the
// marker's Draggable prop, used for the drag advisory.
func (b *eventBinder) bind(events mapsapi.EventSystem, marker mapsapi.AdvancedMarker, handlers handlerSet, draggable *bool) error {
	ids := handlers.identities()
	if b.events == events && b.target == marker && b.bound == ids {
		return nil
	}
	if err := b.clear(); err != nil {
		return err
	}
	if events == nil || marker == nil {
		return nil
	}
	b.events, b.target = events, marker

	if draggable == nil && handlers.hasDragHandler() {
		errors.ReportAdvisory(&errors.Advisory{
			Op:      "maps.AdvancedMarker",
			Message: "drag handler set but Draggable is not; the marker will not be draggable",
			Overlay: overlayName(marker),
		})
	}

	var errs error
	for i, name := range mapsapi.MarkerEvents {
		if handlers[i] == nil {
			continue
		}
		if _, err := events.AddListener(marker, name, handlers[i]); err != nil {
			errs = multierr.Append(errs, engineError("AddListener("+name+")", marker, err))
			continue
		}
		b.bound[i] = ids[i]
	}
	return errs
}

// clear removes every listener on the bound marker. On failure the binder
// keeps its state so the next pass tries again.
func (b *eventBinder) clear() error {
	if b.target != nil && b.events != nil {
		if err := b.events.ClearInstanceListeners(b.target); err != nil {
			return engineError("ClearInstanceListeners", b.target, err)
		}
	}
	*b = eventBinder{}
	return nil
}
