package maps

import (
	"testing"

	"github.com/go-drift/drift-maps/pkg/mapsapi"
)

func TestFuncIdentity(t *testing.T) {
	a := func(mapsapi.Event) {}
	counter := 0
	b := func(mapsapi.Event) { counter++ }
	c := func(mapsapi.Event) { counter += 2 }

	if funcIdentity(a) != funcIdentity(a) {
		t.Error("a func differs from itself")
	}
	if funcIdentity(b) == funcIdentity(c) {
		t.Error("distinct closures share an identity")
	}
	var none mapsapi.EventHandler
	if funcIdentity(none) != 0 {
		t.Error("nil func has a non-zero identity")
	}
}

func TestHandlerSet(t *testing.T) {
	w := AdvancedMarker{OnClick: noop}
	if handlersOf(w).hasDragHandler() {
		t.Error("click is not a drag handler")
	}
	for _, w := range []AdvancedMarker{{OnDragStart: noop}, {OnDrag: noop}, {OnDragEnd: noop}} {
		if !handlersOf(w).hasDragHandler() {
			t.Error("drag handler not detected")
		}
	}
	ids := handlersOf(w).identities()
	if ids[0] == 0 || ids[1] != 0 || ids[2] != 0 || ids[3] != 0 {
		t.Errorf("identities = %v", ids)
	}
	if len(mapsapi.MarkerEvents) != len(handlerSet{}) {
		t.Errorf("%d marker events for %d handler slots", len(mapsapi.MarkerEvents), len(handlerSet{}))
	}
}
