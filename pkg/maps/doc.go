// Package maps binds map overlays to the widget tree.
//
// A map subtree is wrapped in two ambient widgets. [MapScope] publishes the
// live [mapsapi.Map]. [APIProvider] publishes the shared [LibraryLoader]
// and the engine's [mapsapi.EventSystem]. Overlay widgets below them look
// both up and create engine objects only once everything they need is
// available:
//
//	maps.APIProvider{
//	    Loader: loader,
//	    Events: engine,
//	    Child: maps.MapScope{
//	        Map: engine.Map("main"),
//	        Child: maps.AdvancedMarker{
//	            Position:  &home,
//	            Draggable: maps.Ptr(true),
//	            OnDragEnd: s.onMoved,
//	            Children:  []core.Widget{widgets.Text{Content: "Home"}},
//	        },
//	    },
//	}
//
// # Advanced Markers
//
// Each mounted [AdvancedMarker] owns at most one engine marker. The marker
// exists exactly while a map is in scope, the "marker" library has been
// loaded and the widget is mounted. Nested children are rendered into a
// content container owned by the marker through a [core.Portal].
//
// Props are pointers: nil leaves the engine value alone, non-nil values are
// written whenever they differ from the last written value. Positions are
// compared by pointer, so passing a fresh *LatLng on every build writes it
// every time.
//
// Event handlers are rebound whenever one of them changes identity. A
// closure created inside Build is a new identity on every build; keep
// handlers in state fields to avoid rebinding.
//
// Engine failures during a sync pass are reported through the errors
// package and retried on the next pass.
package maps
