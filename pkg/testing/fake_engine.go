package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// Op is one call recorded by a FakeEngine.
type Op struct {
	Target string
	Method string
	Value  any
}

func (o Op) String() string {
	if o.Value == nil {
		return fmt.Sprintf("%s.%s()", o.Target, o.Method)
	}
	return fmt.Sprintf("%s.%s(%v)", o.Target, o.Method, o.Value)
}

// FakeEngine is an in-memory map engine that records every call in order.
// It implements mapsapi.MarkerLibrary and mapsapi.EventSystem, and Import
// is a mapsapi.Importer.
//
// Calls can be made to fail with Fail, and library imports can be held
// back with HoldImports to simulate a slow load. Positions are recorded by
// value.
type FakeEngine struct {
	mu         sync.Mutex
	ops        []Op
	failures   map[string]error
	nextLID    int
	markers    []*FakeMarker
	containers []*FakeContainer
	listeners  map[mapsapi.ListenerID]*fakeListener
	imports    map[string]int
	gate       chan struct{}
}

type fakeListener struct {
	target  *FakeMarker
	event   string
	handler mapsapi.EventHandler
}

// NewFakeEngine creates an engine with no objects.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		failures:  make(map[string]error),
		listeners: make(map[mapsapi.ListenerID]*fakeListener),
		imports:   make(map[string]int),
	}
}

// FakeMap is a map instance. Distinct pointers are distinct instances.
type FakeMap struct {
	ID string
}

// MapID returns the map id.
func (m *FakeMap) MapID() string { return m.ID }

func (m *FakeMap) String() string { return m.ID }

// NewMap creates a map instance.
func (e *FakeEngine) NewMap(id string) *FakeMap {
	return &FakeMap{ID: id}
}

// Fail makes every later call of method return err. A nil err clears it.
// Method names are the mapsapi method names, e.g. "SetTitle" or
// "AddListener".
func (e *FakeEngine) Fail(method string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.failures, method)
		return
	}
	e.failures[method] = err
}

// record appends an op and returns the injected failure for method.
func (e *FakeEngine) record(target, method string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ops = append(e.ops, Op{Target: target, Method: method, Value: value})
	return e.failures[method]
}

// Ops returns the recorded calls.
func (e *FakeEngine) Ops() []Op {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Op(nil), e.ops...)
}

// OpStrings returns the recorded calls formatted with Op.String.
func (e *FakeEngine) OpStrings() []string {
	ops := e.Ops()
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

// Count returns how many times method was called.
func (e *FakeEngine) Count(method string) int {
	n := 0
	for _, op := range e.Ops() {
		if op.Method == method {
			n++
		}
	}
	return n
}

// ResetOps forgets the recorded calls.
func (e *FakeEngine) ResetOps() {
	e.mu.Lock()
	e.ops = nil
	e.mu.Unlock()
}

// HoldImports makes Import block until the returned release function is
// called or the import's context ends.
func (e *FakeEngine) HoldImports() (release func()) {
	gate := make(chan struct{})
	e.mu.Lock()
	e.gate = gate
	e.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Import resolves libraries. "marker" resolves to the engine itself; any
// other name resolves to its own name. Imports run off the UI goroutine, so
// they are counted rather than recorded as ops.
func (e *FakeEngine) Import(ctx context.Context, name string) (mapsapi.Library, error) {
	e.mu.Lock()
	gate := e.gate
	e.imports[name]++
	e.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e.mu.Lock()
	err := e.failures["Import"]
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if name == mapsapi.LibraryMarker {
		return e, nil
	}
	return name, nil
}

// ImportCount returns how many times name was imported.
func (e *FakeEngine) ImportCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.imports[name]
}

// NewAdvancedMarker creates a marker.
func (e *FakeEngine) NewAdvancedMarker() (mapsapi.AdvancedMarker, error) {
	e.mu.Lock()
	marker := &FakeMarker{engine: e, name: fmt.Sprintf("marker#%d", len(e.markers)+1)}
	e.mu.Unlock()
	if err := e.record(marker.name, "NewAdvancedMarker", nil); err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.markers = append(e.markers, marker)
	e.mu.Unlock()
	return marker, nil
}

// NewContainer creates a content container.
func (e *FakeEngine) NewContainer() (mapsapi.Container, error) {
	e.mu.Lock()
	container := &FakeContainer{name: fmt.Sprintf("container#%d", len(e.containers)+1), engine: e}
	container.Root = core.NewHostNode("div")
	e.mu.Unlock()
	if err := e.record(container.name, "NewContainer", nil); err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.containers = append(e.containers, container)
	e.mu.Unlock()
	return container, nil
}

// Markers returns every marker created so far.
func (e *FakeEngine) Markers() []*FakeMarker {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*FakeMarker(nil), e.markers...)
}

// LiveMarkers returns the markers currently attached to a map.
func (e *FakeEngine) LiveMarkers() []*FakeMarker {
	var live []*FakeMarker
	for _, m := range e.Markers() {
		if m.Map != nil {
			live = append(live, m)
		}
	}
	return live
}

// Containers returns every container created so far.
func (e *FakeEngine) Containers() []*FakeContainer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*FakeContainer(nil), e.containers...)
}

// AddListener attaches handler to a marker of this engine.
func (e *FakeEngine) AddListener(target any, event string, handler mapsapi.EventHandler) (mapsapi.ListenerID, error) {
	marker, ok := target.(*FakeMarker)
	if !ok {
		return 0, fmt.Errorf("fake engine: cannot listen on %T", target)
	}
	if err := e.record(marker.name, "AddListener", event); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextLID++
	id := mapsapi.ListenerID(e.nextLID)
	e.listeners[id] = &fakeListener{target: marker, event: event, handler: handler}
	return id, nil
}

// RemoveListener detaches one listener.
func (e *FakeEngine) RemoveListener(id mapsapi.ListenerID) error {
	e.mu.Lock()
	l, ok := e.listeners[id]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("fake engine: unknown listener %d", id)
	}
	if err := e.record(l.target.name, "RemoveListener", l.event); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.listeners, id)
	e.mu.Unlock()
	return nil
}

// ClearInstanceListeners detaches every listener on target.
func (e *FakeEngine) ClearInstanceListeners(target any) error {
	marker, ok := target.(*FakeMarker)
	if !ok {
		return fmt.Errorf("fake engine: cannot clear %T", target)
	}
	if err := e.record(marker.name, "ClearInstanceListeners", nil); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, l := range e.listeners {
		if l.target == marker {
			delete(e.listeners, id)
		}
	}
	return nil
}

// Listeners returns the number of listeners per event attached to target.
func (e *FakeEngine) Listeners(target mapsapi.AdvancedMarker) map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := make(map[string]int)
	for _, l := range e.listeners {
		if mapsapi.AdvancedMarker(l.target) == target {
			counts[l.event]++
		}
	}
	return counts
}

// ListenerCount returns the number of attached listeners on all markers.
func (e *FakeEngine) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Emit calls every handler attached to target for event, on the calling
// goroutine, and returns how many ran.
func (e *FakeEngine) Emit(target mapsapi.AdvancedMarker, event mapsapi.Event) int {
	e.mu.Lock()
	var handlers []mapsapi.EventHandler
	for _, l := range e.listeners {
		if mapsapi.AdvancedMarker(l.target) == target && l.event == event.Name {
			handlers = append(handlers, l.handler)
		}
	}
	e.mu.Unlock()
	for _, h := range handlers {
		h(event)
	}
	return len(handlers)
}

// FakeMarker is a marker created by a FakeEngine. Its fields hold the last
// value written.
type FakeMarker struct {
	engine *FakeEngine
	name   string

	Map               mapsapi.Map
	Position          *mapsapi.LatLng
	Draggable         bool
	CollisionBehavior mapsapi.CollisionBehavior
	ZIndex            int
	Title             string
	Content           mapsapi.Container
}

func (m *FakeMarker) String() string { return m.name }

func (m *FakeMarker) SetMap(target mapsapi.Map) error {
	var value any
	if target != nil {
		value = target.MapID()
	}
	if err := m.engine.record(m.name, "SetMap", value); err != nil {
		return err
	}
	m.Map = target
	return nil
}

func (m *FakeMarker) SetPosition(position *mapsapi.LatLng) error {
	var value any
	if position != nil {
		value = *position
	}
	if err := m.engine.record(m.name, "SetPosition", value); err != nil {
		return err
	}
	m.Position = position
	return nil
}

func (m *FakeMarker) SetGmpDraggable(draggable bool) error {
	if err := m.engine.record(m.name, "SetGmpDraggable", draggable); err != nil {
		return err
	}
	m.Draggable = draggable
	return nil
}

func (m *FakeMarker) SetCollisionBehavior(behavior mapsapi.CollisionBehavior) error {
	if err := m.engine.record(m.name, "SetCollisionBehavior", behavior); err != nil {
		return err
	}
	m.CollisionBehavior = behavior
	return nil
}

func (m *FakeMarker) SetZIndex(zIndex int) error {
	if err := m.engine.record(m.name, "SetZIndex", zIndex); err != nil {
		return err
	}
	m.ZIndex = zIndex
	return nil
}

func (m *FakeMarker) SetTitle(title string) error {
	if err := m.engine.record(m.name, "SetTitle", title); err != nil {
		return err
	}
	m.Title = title
	return nil
}

func (m *FakeMarker) SetContent(content mapsapi.Container) error {
	var value any
	if content != nil {
		value = overlayString(content)
	}
	if err := m.engine.record(m.name, "SetContent", value); err != nil {
		return err
	}
	m.Content = content
	return nil
}

// FakeContainer is a content container created by a FakeEngine. Projected
// nodes attach to Root.
type FakeContainer struct {
	engine    *FakeEngine
	name      string
	Root      *core.HostNode
	ClassName string
	Removed   bool
}

func (c *FakeContainer) String() string { return c.name }

func (c *FakeContainer) AppendChild(child core.Node) { c.Root.AppendChild(child) }

func (c *FakeContainer) RemoveChild(child core.Node) { c.Root.RemoveChild(child) }

func (c *FakeContainer) SetClassName(className string) error {
	if err := c.engine.record(c.name, "SetClassName", className); err != nil {
		return err
	}
	c.ClassName = className
	return nil
}

func (c *FakeContainer) Remove() error {
	if err := c.engine.record(c.name, "Remove", nil); err != nil {
		return err
	}
	c.Removed = true
	return nil
}

func overlayString(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}
