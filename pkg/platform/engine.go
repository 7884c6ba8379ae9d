package platform

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/errors"
	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

// DefaultChannelPrefix prefixes the channels used by NewEngine.
const DefaultChannelPrefix = "drift_maps"

// Engine drives a native map engine over platform channels. It implements
// [mapsapi.EventSystem], its ImportLibrary method is a [mapsapi.Importer],
// and the "marker" library it resolves creates markers and containers
// backed by native objects.
//
// Calls go out on the "<prefix>/engine" method channel, which also serves
// the native "markerDestroyed" call. Marker events come back on
// "<prefix>/events" and are delivered to handlers through [Dispatch], so
// handlers always run on the UI goroutine.
//
// Create with [NewEngine] and dispose with [core.UseController]:
//
//	s.engine = core.UseController(s, platform.NewEngine)
//
// Engine is safe for concurrent use.
type Engine struct {
	methods *MethodChannel
	events  *EventChannel
	sub     *Subscription
	nextID  atomic.Int64

	mu        sync.Mutex
	listeners map[mapsapi.ListenerID]listenerEntry
	closed    bool
}

type listenerEntry struct {
	marker  int64
	event   string
	handler mapsapi.EventHandler
}

// NewEngine creates an engine on the default channels.
func NewEngine() *Engine {
	return NewEngineWithPrefix(DefaultChannelPrefix)
}

// NewEngineWithPrefix creates an engine whose channels are named after
// prefix. Creating a second engine with the same prefix takes over the
// channels.
func NewEngineWithPrefix(prefix string) *Engine {
	e := &Engine{
		methods:   NewMethodChannel(prefix + "/engine"),
		events:    NewEventChannel(prefix + "/events"),
		listeners: make(map[mapsapi.ListenerID]listenerEntry),
	}
	e.methods.SetHandler(e.handleCall)
	e.sub = e.events.Listen(EventHandler{
		OnEvent: e.handleEvent,
		OnError: func(err error) {
			errors.Logger().Warn("map event stream error",
				zap.String("channel", e.events.Name()),
				zap.Error(err))
		},
	})
	return e
}

// Dispose stops event delivery and drops every listener. Later calls fail
// with ErrClosed.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	clear(e.listeners)
	e.mu.Unlock()
	e.sub.Cancel()
}

// Map returns the handle for the native map with the given id. Handles for
// the same id compare equal.
func (e *Engine) Map(id string) mapsapi.Map {
	return NativeMap{ID: id}
}

// NativeMap is a map instance living on the native side.
type NativeMap struct {
	ID string
}

// MapID returns the native map id.
func (m NativeMap) MapID() string { return m.ID }

// NativeLibrary is a loaded library this package has no Go surface for.
type NativeLibrary struct {
	Name string
}

// ImportLibrary asks the native side to load a library. The "marker"
// library resolves to a [mapsapi.MarkerLibrary].
func (e *Engine) ImportLibrary(ctx context.Context, name string) (mapsapi.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := e.invoke("loadLibrary", map[string]any{"name": name}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == mapsapi.LibraryMarker {
		return &markerLibrary{engine: e}, nil
	}
	return NativeLibrary{Name: name}, nil
}

// ListenerCount reports how many listeners are attached.
func (e *Engine) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

func (e *Engine) invoke(method string, args map[string]any) (any, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return e.methods.Invoke(method, args)
}

// AddListener subscribes handler to event on a marker created by this
// engine.
func (e *Engine) AddListener(target any, event string, handler mapsapi.EventHandler) (mapsapi.ListenerID, error) {
	marker, err := e.ownMarker(target)
	if err != nil {
		return 0, err
	}
	id := mapsapi.ListenerID(e.nextID.Add(1))
	if _, err := e.invoke("addListener", map[string]any{
		"listener": int64(id),
		"marker":   marker.id,
		"event":    event,
	}); err != nil {
		return 0, err
	}
	e.mu.Lock()
	e.listeners[id] = listenerEntry{marker: marker.id, event: event, handler: handler}
	e.mu.Unlock()
	return id, nil
}

// RemoveListener removes one subscription.
func (e *Engine) RemoveListener(id mapsapi.ListenerID) error {
	e.mu.Lock()
	_, ok := e.listeners[id]
	e.mu.Unlock()
	if !ok {
		return ErrUnknownListener
	}
	if _, err := e.invoke("removeListener", map[string]any{"listener": int64(id)}); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.listeners, id)
	e.mu.Unlock()
	return nil
}

// ClearInstanceListeners removes every subscription on a marker.
func (e *Engine) ClearInstanceListeners(target any) error {
	marker, err := e.ownMarker(target)
	if err != nil {
		return err
	}
	if _, err := e.invoke("clearListeners", map[string]any{"marker": marker.id}); err != nil {
		return err
	}
	e.mu.Lock()
	for id, entry := range e.listeners {
		if entry.marker == marker.id {
			delete(e.listeners, id)
		}
	}
	e.mu.Unlock()
	return nil
}

func (e *Engine) ownMarker(target any) (*nativeMarker, error) {
	marker, ok := target.(*nativeMarker)
	if !ok || marker.engine != e {
		return nil, fmt.Errorf("%w: %T", ErrForeignObject, target)
	}
	return marker, nil
}

// handleEvent routes a native event to its listener on the UI goroutine.
// The listener is looked up when the callback runs, so events for listeners
// removed in the meantime are dropped.
func (e *Engine) handleEvent(data any) {
	payload := parseMap(data)
	rawID, ok := toInt64(payload["listener"])
	if !ok {
		errors.Logger().Debug("map event without listener id", zap.Any("payload", data))
		return
	}
	id := mapsapi.ListenerID(rawID)

	event := mapsapi.Event{Name: parseString(payload["name"])}
	if pos := parseMap(payload["position"]); pos != nil {
		lat, _ := toFloat64(pos["lat"])
		lng, _ := toFloat64(pos["lng"])
		event.Position = &mapsapi.LatLng{Lat: lat, Lng: lng}
	}
	if !Dispatch(func() { e.deliver(id, event) }) {
		errors.Logger().Debug("map event dropped, no dispatcher",
			zap.String("event", event.Name),
			zap.Int64("listener", rawID))
	}
}

// deliver runs on the UI goroutine.
func (e *Engine) deliver(id mapsapi.ListenerID, event mapsapi.Event) {
	e.mu.Lock()
	entry, ok := e.listeners[id]
	closed := e.closed
	e.mu.Unlock()
	if !ok || closed {
		return
	}
	if event.Name == "" {
		event.Name = entry.event
	}
	entry.handler(event)
}

// handleCall serves calls the native side makes on the engine channel.
// "markerDestroyed" reports a marker the engine disposed on its own; its
// listeners are dropped so late events never reach Go handlers.
func (e *Engine) handleCall(method string, args any) (any, error) {
	switch method {
	case "markerDestroyed":
		marker, ok := toInt64(parseMap(args)["marker"])
		if !ok {
			return nil, fmt.Errorf("%w: markerDestroyed needs a marker id", ErrInvalidArguments)
		}
		e.mu.Lock()
		dropped := 0
		for id, entry := range e.listeners {
			if entry.marker == marker {
				delete(e.listeners, id)
				dropped++
			}
		}
		e.mu.Unlock()
		errors.Logger().Debug("native marker destroyed",
			zap.Int64("marker", marker),
			zap.Int("listeners", dropped))
		return map[string]any{"listeners": dropped}, nil
	default:
		return nil, ErrMethodNotFound
	}
}

type markerLibrary struct {
	engine *Engine
}

func (l *markerLibrary) NewAdvancedMarker() (mapsapi.AdvancedMarker, error) {
	id := l.engine.nextID.Add(1)
	if _, err := l.engine.invoke("createMarker", map[string]any{"marker": id}); err != nil {
		return nil, err
	}
	return &nativeMarker{engine: l.engine, id: id}, nil
}

func (l *markerLibrary) NewContainer() (mapsapi.Container, error) {
	id := l.engine.nextID.Add(1)
	if _, err := l.engine.invoke("createContainer", map[string]any{"container": id}); err != nil {
		return nil, err
	}
	c := &nativeContainer{engine: l.engine, id: id, root: core.NewHostNode("div")}
	c.root.Observe(c.contentChanged)
	return c, nil
}

type nativeMarker struct {
	engine *Engine
	id     int64
}

func (m *nativeMarker) String() string {
	return fmt.Sprintf("marker#%d", m.id)
}

func (m *nativeMarker) setField(field string, value any) error {
	_, err := m.engine.invoke("setMarkerField", map[string]any{
		"marker": m.id,
		"field":  field,
		"value":  value,
	})
	return err
}

func (m *nativeMarker) SetMap(target mapsapi.Map) error {
	if target == nil {
		return m.setField("map", nil)
	}
	return m.setField("map", target.MapID())
}

func (m *nativeMarker) SetPosition(position *mapsapi.LatLng) error {
	return m.setField("position", position)
}

func (m *nativeMarker) SetGmpDraggable(draggable bool) error {
	return m.setField("gmpDraggable", draggable)
}

func (m *nativeMarker) SetCollisionBehavior(behavior mapsapi.CollisionBehavior) error {
	return m.setField("collisionBehavior", string(behavior))
}

func (m *nativeMarker) SetZIndex(zIndex int) error {
	return m.setField("zIndex", zIndex)
}

func (m *nativeMarker) SetTitle(title string) error {
	return m.setField("title", title)
}

func (m *nativeMarker) SetContent(content mapsapi.Container) error {
	if content == nil {
		return m.setField("content", nil)
	}
	container, ok := content.(*nativeContainer)
	if !ok || container.engine != m.engine {
		return fmt.Errorf("%w: %T", ErrForeignObject, content)
	}
	return m.setField("content", container.id)
}

// nativeContainer mirrors a native content element. Projected widgets
// mount into root; every change below it is sent to the native side as a
// full snapshot.
type nativeContainer struct {
	engine    *Engine
	id        int64
	root      *core.HostNode
	className string
	removed   bool
}

func (c *nativeContainer) AppendChild(child core.Node) { c.root.AppendChild(child) }

func (c *nativeContainer) RemoveChild(child core.Node) { c.root.RemoveChild(child) }

func (c *nativeContainer) SetClassName(className string) error {
	c.className = className
	return c.flush()
}

func (c *nativeContainer) Remove() error {
	if c.removed {
		return nil
	}
	c.removed = true
	c.root.Observe(nil)
	_, err := c.engine.invoke("removeContainer", map[string]any{"container": c.id})
	return err
}

func (c *nativeContainer) flush() error {
	if c.removed {
		return ErrClosed
	}
	_, err := c.engine.invoke("setContainerContent", map[string]any{
		"container": c.id,
		"className": c.className,
		"content":   c.root.Snapshot(),
	})
	return err
}

func (c *nativeContainer) contentChanged() {
	if err := c.flush(); err != nil {
		errors.Report(&errors.MapsError{
			Op:      "platform.syncContainer",
			Kind:    errors.KindPlatform,
			Overlay: fmt.Sprintf("container#%d", c.id),
			Err:     err,
		})
	}
}
