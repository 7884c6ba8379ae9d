// Package testing provides a widget testing harness and a recording map
// engine.
//
// # Quick Start
//
// Create a tester and an engine, pump a widget, and assert on the calls the
// engine saw:
//
//	func TestPin(t *testing.T) {
//	    tester := drifttest.NewWidgetTesterWithT(t)
//	    engine := drifttest.NewFakeEngine()
//	    loader := maps.NewLibraryLoader(engine.Import)
//	    loader.Load(context.Background(), "marker")
//
//	    tester.PumpWidget(maps.APIProvider{
//	        Loader: loader,
//	        Events: engine,
//	        Child: maps.MapScope{
//	            Map:   engine.NewMap("main"),
//	            Child: maps.AdvancedMarker{Title: maps.Ptr("home")},
//	        },
//	    })
//
//	    if len(engine.LiveMarkers()) != 1 {
//	        t.Fatal("expected one marker")
//	    }
//	}
//
// # Asynchronous Work
//
// The tester is the platform dispatcher while it is alive. Callbacks handed
// to platform.Dispatch from other goroutines are queued and run by the next
// Pump, so asynchronous results land on the test goroutine at a point the
// test chooses.
//
// # Snapshot Testing
//
// Capture the host tree, the engine's containers and its call log:
//
//	snapshot := tester.CaptureSnapshot(engine)
//	snapshot.MatchesFile(t, "testdata/pin.snapshot.json")
//
// Update snapshots with:
//
//	DRIFT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import drifttest "github.com/go-drift/drift-maps/pkg/testing"
package testing
