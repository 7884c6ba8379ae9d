package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-drift/drift-maps/pkg/mapsapi"
	"github.com/google/go-cmp/cmp"
)

func TestFakeEngine_RecordsCalls(t *testing.T) {
	engine := NewFakeEngine()
	m := engine.NewMap("main")

	marker, err := engine.NewAdvancedMarker()
	if err != nil {
		t.Fatal(err)
	}
	container, _ := engine.NewContainer()
	marker.SetContent(container)
	marker.SetPosition(&mapsapi.LatLng{Lat: 1, Lng: 2})
	marker.SetTitle("pin")
	marker.SetMap(m)
	marker.SetMap(nil)

	want := []string{
		"marker#1.NewAdvancedMarker()",
		"container#1.NewContainer()",
		"marker#1.SetContent(container#1)",
		"marker#1.SetPosition({1 2})",
		"marker#1.SetTitle(pin)",
		"marker#1.SetMap(main)",
		"marker#1.SetMap()",
	}
	if diff := cmp.Diff(want, engine.OpStrings()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if engine.Count("SetMap") != 2 {
		t.Errorf("SetMap count = %d, want 2", engine.Count("SetMap"))
	}
	if len(engine.LiveMarkers()) != 0 {
		t.Error("detached marker reported live")
	}

	engine.ResetOps()
	if len(engine.Ops()) != 0 {
		t.Error("ResetOps kept ops")
	}
}

func TestFakeEngine_Fail(t *testing.T) {
	engine := NewFakeEngine()
	boom := errors.New("boom")
	engine.Fail("SetTitle", boom)

	marker, _ := engine.NewAdvancedMarker()
	if err := marker.SetTitle("x"); !errors.Is(err, boom) {
		t.Errorf("SetTitle err = %v, want boom", err)
	}
	if marker.(*FakeMarker).Title != "" {
		t.Error("failed write stored the value")
	}

	engine.Fail("SetTitle", nil)
	if err := marker.SetTitle("x"); err != nil {
		t.Errorf("SetTitle after clearing failure: %v", err)
	}

	engine.Fail("NewAdvancedMarker", boom)
	if _, err := engine.NewAdvancedMarker(); err == nil {
		t.Error("expected creation failure")
	}
	if len(engine.Markers()) != 1 {
		t.Errorf("markers = %d, want 1", len(engine.Markers()))
	}
}

func TestFakeEngine_Listeners(t *testing.T) {
	engine := NewFakeEngine()
	marker, _ := engine.NewAdvancedMarker()

	var got []string
	id, err := engine.AddListener(marker, mapsapi.EventClick, func(e mapsapi.Event) { got = append(got, e.Name) })
	if err != nil {
		t.Fatal(err)
	}
	engine.AddListener(marker, mapsapi.EventDrag, func(e mapsapi.Event) { got = append(got, e.Name) })

	if diff := cmp.Diff(map[string]int{"click": 1, "drag": 1}, engine.Listeners(marker)); diff != "" {
		t.Errorf("listeners mismatch (-want +got):\n%s", diff)
	}
	if n := engine.Emit(marker, mapsapi.Event{Name: mapsapi.EventClick}); n != 1 {
		t.Errorf("Emit ran %d handlers, want 1", n)
	}

	if err := engine.RemoveListener(id); err != nil {
		t.Fatal(err)
	}
	if err := engine.RemoveListener(id); err == nil {
		t.Error("removing twice should fail")
	}
	if err := engine.ClearInstanceListeners(marker); err != nil {
		t.Fatal(err)
	}
	if engine.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d, want 0", engine.ListenerCount())
	}
	if _, err := engine.AddListener("not a marker", mapsapi.EventClick, nil); err == nil {
		t.Error("expected error for a foreign target")
	}
	if diff := cmp.Diff([]string{"click"}, got); diff != "" {
		t.Errorf("handled events mismatch (-want +got):\n%s", diff)
	}
}

func TestFakeEngine_Import(t *testing.T) {
	engine := NewFakeEngine()

	lib, err := engine.Import(context.Background(), mapsapi.LibraryMarker)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lib.(mapsapi.MarkerLibrary); !ok {
		t.Errorf("marker library is %T", lib)
	}
	if other, _ := engine.Import(context.Background(), "places"); other != "places" {
		t.Errorf("places library = %v", other)
	}
	if engine.ImportCount(mapsapi.LibraryMarker) != 1 {
		t.Errorf("ImportCount = %d, want 1", engine.ImportCount(mapsapi.LibraryMarker))
	}
	if len(engine.Ops()) != 0 {
		t.Error("imports recorded as ops")
	}
}

func TestFakeEngine_HoldImports(t *testing.T) {
	engine := NewFakeEngine()
	release := engine.HoldImports()

	done := make(chan error, 1)
	go func() {
		_, err := engine.Import(context.Background(), mapsapi.LibraryMarker)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("import finished while held")
	case <-time.After(10 * time.Millisecond):
	}

	release()
	release()
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	held := engine.HoldImports()
	defer held()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Import(ctx, mapsapi.LibraryMarker); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
