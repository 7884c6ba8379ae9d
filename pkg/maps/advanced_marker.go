package maps

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/errors"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// AdvancedMarker places an engine advanced marker on the map in scope.
//
// The marker is created once a [MapScope] with a map and an [APIProvider]
// whose loader has the "marker" library are both above the widget. The
// library is requested automatically. The marker is destroyed when the
// widget unmounts or when the map, the loader or the library changes, and a
// new one is created as soon as everything is available again.
//
// Children are rendered into the marker's content container in place of
// the default pin. The container is created only if Children is non-empty
// when the marker is created; children added to a marker created without
// them are not shown until the marker is recreated.
type AdvancedMarker struct {
	core.StatefulBase

	Position          *mapsapi.LatLng
	Draggable         *bool
	CollisionBehavior *mapsapi.CollisionBehavior
	ZIndex            *int
	Title             *string

	// ContentClass is the class name given to the content container. Empty
	// leaves the container's class alone.
	ContentClass string
	Children     []core.Widget

	OnClick     mapsapi.EventHandler
	OnDragStart mapsapi.EventHandler
	OnDrag      mapsapi.EventHandler
	OnDragEnd   mapsapi.EventHandler

	// Ref is called with the marker when it is created and with nil when it
	// is destroyed. See MarkerRef and UseAdvancedMarkerRef.
	Ref func(mapsapi.AdvancedMarker)
}

// CreateState creates the marker controller.
func (AdvancedMarker) CreateState() core.State {
	return &advancedMarkerState{}
}

// LifecyclePhase is where a marker controller is in its lifecycle.
type LifecyclePhase int

const (
	// PhaseUnmounted means the widget is not mounted.
	PhaseUnmounted LifecyclePhase = iota
	// PhaseAwaitingPrerequisites means the map or the library is missing.
	PhaseAwaitingPrerequisites
	// PhaseActive means the controller owns a live marker.
	PhaseActive
)

func (p LifecyclePhase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseAwaitingPrerequisites:
		return "awaiting"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// PhaseOf returns the lifecycle phase of the AdvancedMarker hosted by e.
// Any other element reports PhaseUnmounted.
func PhaseOf(e core.Element) LifecyclePhase {
	stateful, ok := e.(*core.StatefulElement)
	if !ok {
		return PhaseUnmounted
	}
	s, ok := stateful.State().(*advancedMarkerState)
	if !ok {
		return PhaseUnmounted
	}
	return s.phase
}

// MarkerOf returns the marker owned by the AdvancedMarker hosted by e, or
// nil.
func MarkerOf(e core.Element) mapsapi.AdvancedMarker {
	stateful, ok := e.(*core.StatefulElement)
	if !ok {
		return nil
	}
	if s, ok := stateful.State().(*advancedMarkerState); ok {
		return s.marker
	}
	return nil
}

type advancedMarkerState struct {
	core.StateBase
	phase LifecyclePhase

	loader  *LibraryLoader
	unwatch func()

	// Set while a marker exists.
	marker    mapsapi.AdvancedMarker
	container mapsapi.Container
	library   mapsapi.MarkerLibrary
	attached  mapsapi.Map

	props  propSnapshot
	events eventBinder
	ref    refPublisher
}

func (s *advancedMarkerState) widget() AdvancedMarker {
	return s.Element().Widget().(AdvancedMarker)
}

func (s *advancedMarkerState) InitState() {
	s.phase = PhaseAwaitingPrerequisites
}

func (s *advancedMarkerState) DidChangeDependencies() {
	s.sync()
}

func (s *advancedMarkerState) DidUpdateWidget(old core.StatefulWidget) {
	s.sync()
}

func (s *advancedMarkerState) Build(ctx core.BuildContext) core.Widget {
	if s.marker == nil || s.container == nil {
		return nil
	}
	return core.Portal{Target: s.container, Children: s.widget().Children}
}

// Dispose runs after the projected children have been unmounted.
func (s *advancedMarkerState) Dispose() {
	s.watch(nil)
	reportAll(s.teardown())
	s.ref.release()
	s.phase = PhaseUnmounted
	s.StateBase.Dispose()
}

// sync runs one pass and reports what failed. Failed steps are retried by
// the next pass.
func (s *advancedMarkerState) sync() {
	reportAll(s.reconcile())
}

func (s *advancedMarkerState) librariesChanged() {
	if s.IsDisposed() {
		return
	}
	s.sync()
	s.SetState(nil)
}

// watch subscribes to library loads on loader, replacing any previous
// subscription.
func (s *advancedMarkerState) watch(loader *LibraryLoader) {
	if loader == s.loader {
		return
	}
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	s.loader = loader
	if loader != nil {
		s.unwatch = loader.AddListener(s.librariesChanged)
	}
}

// reconcile moves the controller to the phase its inputs call for, then
// brings listeners and fields of the live marker up to date.
func (s *advancedMarkerState) reconcile() error {
	w := s.widget()
	ctx := s.Context()
	m := MapOf(ctx)

	var events mapsapi.EventSystem
	var loader *LibraryLoader
	if api := APIProviderOf(ctx); api != nil {
		loader, events = api.Loader, api.Events
	}
	s.watch(loader)

	// An unusable library gates like a missing one.
	library, errs := s.markerLibrary(loader)

	if s.marker != nil && (m == nil || library == nil || m != s.attached || library != s.library) {
		errs = multierr.Append(errs, s.teardown())
	}
	if s.marker == nil && m != nil && library != nil {
		errs = multierr.Append(errs, s.create(w, m, library))
	}
	if s.marker == nil {
		s.ref.publish(w.Ref, nil)
		return errs
	}

	errs = multierr.Append(errs, s.events.bind(events, s.marker, handlersOf(w), w.Draggable))
	errs = multierr.Append(errs, s.props.apply(w, s.marker, s.container))
	s.ref.publish(w.Ref, s.marker)
	return errs
}

// markerLibrary returns the resolved "marker" library, or nil while it is
// loading. A missing library is requested.
func (s *advancedMarkerState) markerLibrary(loader *LibraryLoader) (mapsapi.MarkerLibrary, error) {
	if loader == nil {
		return nil, nil
	}
	lib, ok := loader.Resolve(mapsapi.LibraryMarker)
	if !ok {
		loader.Request(mapsapi.LibraryMarker)
		return nil, nil
	}
	markerLib, ok := lib.(mapsapi.MarkerLibrary)
	if !ok {
		return nil, &errors.MapsError{
			Op:   "maps.AdvancedMarker",
			Kind: errors.KindLibrary,
			Err:  ErrUnexpectedLibrary,
		}
	}
	return markerLib, nil
}

// create builds a marker, its container when there are children, and
// attaches it to m. On failure everything built so far is torn down.
func (s *advancedMarkerState) create(w AdvancedMarker, m mapsapi.Map, library mapsapi.MarkerLibrary) error {
	marker, err := library.NewAdvancedMarker()
	if err != nil {
		return engineError("NewAdvancedMarker", nil, err)
	}
	s.marker = marker
	s.library = library
	s.props = propSnapshot{}

	if len(w.Children) > 0 {
		container, err := library.NewContainer()
		if err != nil {
			return multierr.Append(engineError("NewContainer", marker, err), s.teardown())
		}
		s.container = container
		if err := marker.SetContent(container); err != nil {
			return multierr.Append(engineError("SetContent", marker, err), s.teardown())
		}
	}

	if err := marker.SetMap(m); err != nil {
		return multierr.Append(engineError("SetMap", marker, err), s.teardown())
	}
	s.attached = m
	s.setPhase(PhaseActive)
	return nil
}

// teardown releases the marker in reverse order of creation: listeners,
// map attachment, container, then the reference itself. Every step is
// attempted; the marker is dropped even if the engine rejects one of them.
func (s *advancedMarkerState) teardown() error {
	if s.marker == nil {
		return nil
	}
	marker := s.marker

	var errs error
	if err := s.events.clear(); err != nil {
		errs = multierr.Append(errs, err)
		s.events = eventBinder{}
	}
	if s.attached != nil {
		errs = multierr.Append(errs, engineError("SetMap(nil)", marker, marker.SetMap(nil)))
	}
	if s.container != nil {
		errs = multierr.Append(errs, engineError("RemoveContainer", s.container, s.container.Remove()))
	}
	s.ref.publish(s.ref.callback, nil)

	s.marker = nil
	s.container = nil
	s.library = nil
	s.attached = nil
	s.props = propSnapshot{}
	s.setPhase(PhaseAwaitingPrerequisites)
	return errs
}

func (s *advancedMarkerState) setPhase(phase LifecyclePhase) {
	if s.phase == phase {
		return
	}
	errors.Logger().Debug("advanced marker phase",
		zap.Stringer("from", s.phase),
		zap.Stringer("to", phase),
		zap.String("overlay", overlayName(s.marker)))
	s.phase = phase
}
