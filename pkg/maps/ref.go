package maps

import (
	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// MarkerRef holds the marker currently owned by an AdvancedMarker. Pass
// Callback() as the widget's Ref; Current then always returns the
// controller's marker, or nil while it has none.
//
// Like the controller that fills it, a MarkerRef belongs to the UI
// goroutine.
type MarkerRef struct {
	current  mapsapi.AdvancedMarker
	callback func(mapsapi.AdvancedMarker)
}

// NewMarkerRef creates an empty ref.
func NewMarkerRef() *MarkerRef {
	r := &MarkerRef{}
	r.callback = r.Set
	return r
}

// Current returns the recorded marker.
func (r *MarkerRef) Current() mapsapi.AdvancedMarker {
	return r.current
}

// Set records marker.
func (r *MarkerRef) Set(marker mapsapi.AdvancedMarker) {
	r.current = marker
}

// Callback returns the ref's setter. The same func value is returned on
// every call, so handing it to a widget on each build does not count as a
// new Ref.
func (r *MarkerRef) Callback() func(mapsapi.AdvancedMarker) {
	return r.callback
}

// UseAdvancedMarkerRef creates a slot for a marker created by a descendant
// and a Ref callback that fills it. The owning state rebuilds whenever the
// slot changes. Call it once, from InitState.
//
//	func (s *pinListState) InitState() {
//	    s.setSelected, s.selected = maps.UseAdvancedMarkerRef(s)
//	}
func UseAdvancedMarkerRef(s core.StateHolder) (func(mapsapi.AdvancedMarker), *core.Managed[mapsapi.AdvancedMarker]) {
	slot := core.NewManaged[mapsapi.AdvancedMarker](s, nil)
	callback := func(marker mapsapi.AdvancedMarker) {
		if slot.Value() == marker {
			return
		}
		slot.Set(marker)
	}
	return callback, slot
}

// refPublisher reports a controller's marker to its Ref. When the Ref
// callback itself is replaced, the old callback is told nil and the new one
// gets the current marker.
type refPublisher struct {
	callback  func(mapsapi.AdvancedMarker)
	identity  uintptr
	published mapsapi.AdvancedMarker
}

func (r *refPublisher) publish(callback func(mapsapi.AdvancedMarker), marker mapsapi.AdvancedMarker) {
	if id := funcIdentity(callback); id != r.identity {
		r.release()
		r.callback, r.identity = callback, id
	}
	if r.published == marker {
		return
	}
	r.published = marker
	if r.callback != nil {
		r.callback(marker)
	}
}

// release tells the current callback that there is no marker anymore.
func (r *refPublisher) release() {
	if r.callback != nil && r.published != nil {
		r.callback(nil)
	}
	r.published = nil
}
