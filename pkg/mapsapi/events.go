package mapsapi

// Marker event names.
const (
	EventClick     = "click"
	EventDragStart = "dragstart"
	EventDrag      = "drag"
	EventDragEnd   = "dragend"
)

// MarkerEvents lists the events advanced markers support, in binding order.
var MarkerEvents = []string{EventClick, EventDragStart, EventDrag, EventDragEnd}

// Event is delivered to listeners. Position is set for drag events.
type Event struct {
	Name     string  `json:"name"`
	Position *LatLng `json:"position,omitempty"`
}

// EventHandler receives engine events on the UI goroutine.
type EventHandler func(Event)

// ListenerID identifies one subscription.
type ListenerID int64

// EventSystem is the engine's event subscription API.
type EventSystem interface {
	AddListener(target any, event string, handler EventHandler) (ListenerID, error)
	RemoveListener(id ListenerID) error
	// ClearInstanceListeners removes every listener attached to target.
	ClearInstanceListeners(target any) error
}
