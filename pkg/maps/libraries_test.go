package maps

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-drift/drift-maps/pkg/mapsapi"
	drifttest "github.com/go-drift/drift-maps/pkg/testing"
)

func TestLoaderSharesConcurrentLoads(t *testing.T) {
	engine := drifttest.NewFakeEngine()
	loader := NewLibraryLoader(engine.Import)
	release := engine.HoldImports()

	var wg sync.WaitGroup
	results := make([]mapsapi.Library, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lib, err := loader.Load(context.Background(), mapsapi.LibraryMarker)
			if err != nil {
				t.Error(err)
			}
			results[i] = lib
		}()
	}
	release()
	wg.Wait()

	for i, lib := range results {
		if lib != mapsapi.Library(engine) {
			t.Errorf("result %d = %v, want the engine", i, lib)
		}
	}
	if n := engine.ImportCount(mapsapi.LibraryMarker); n != 1 {
		t.Errorf("imports = %d, want 1", n)
	}
}

func TestLoaderResolve(t *testing.T) {
	engine := drifttest.NewFakeEngine()
	loader := NewLibraryLoader(engine.Import)

	if _, ok := loader.Resolve(mapsapi.LibraryMarker); ok {
		t.Fatal("Resolve reported an unloaded library")
	}
	if engine.ImportCount(mapsapi.LibraryMarker) != 0 {
		t.Fatal("Resolve started a load")
	}
	loader.Load(context.Background(), mapsapi.LibraryMarker)
	if lib, ok := loader.Resolve(mapsapi.LibraryMarker); !ok || lib != mapsapi.Library(engine) {
		t.Errorf("Resolve = %v, %v", lib, ok)
	}
}

func TestLoaderDoesNotCacheFailures(t *testing.T) {
	h := newHarness(t)
	h.engine.Fail("Import", errRejected)

	if _, err := h.loader.Load(context.Background(), mapsapi.LibraryMarker); !stderrors.Is(err, errRejected) {
		t.Fatalf("err = %v, want errRejected", err)
	}
	h.loader.Request(mapsapi.LibraryMarker)
	h.loader.Wait()
	if len(h.errorOps()) != 1 || h.errorOps()[0] != "maps.LoadLibrary" {
		t.Errorf("errors = %v, want one maps.LoadLibrary", h.errorOps())
	}

	h.engine.Fail("Import", nil)
	if _, err := h.loader.Load(context.Background(), mapsapi.LibraryMarker); err != nil {
		t.Fatal(err)
	}
	if n := h.engine.ImportCount(mapsapi.LibraryMarker); n != 3 {
		t.Errorf("imports = %d, want 3", n)
	}
}

func TestLoaderRejectsNilLibrary(t *testing.T) {
	loader := NewLibraryLoader(func(ctx context.Context, name string) (mapsapi.Library, error) {
		return nil, nil
	})
	if _, err := loader.Load(context.Background(), "places"); !stderrors.Is(err, ErrLibraryUnavailable) {
		t.Errorf("err = %v, want ErrLibraryUnavailable", err)
	}
}

func TestLoaderCheck(t *testing.T) {
	engine := drifttest.NewFakeEngine()
	loader := NewLibraryLoader(engine.Import, WithLibraryCheck(func(name string) error {
		if name == "places" {
			return fmt.Errorf("library %q not supported", name)
		}
		return nil
	}))

	if _, err := loader.Load(context.Background(), "places"); err == nil {
		t.Error("expected the check to fail")
	}
	if engine.ImportCount("places") != 0 {
		t.Error("importer called despite a failed check")
	}
	if _, err := loader.Load(context.Background(), mapsapi.LibraryMarker); err != nil {
		t.Errorf("marker: %v", err)
	}
}

func TestLoaderRequestAndNotify(t *testing.T) {
	h := newHarness(t)
	notified := 0
	remove := h.loader.AddListener(func() { notified++ })

	h.loader.Preload(mapsapi.LibraryMarker, "places")
	h.loader.Request(mapsapi.LibraryMarker)
	h.loader.Wait()

	if notified != 0 {
		t.Fatal("listener ran off the UI goroutine")
	}
	h.tester.Pump()
	if notified != 2 {
		t.Errorf("notified = %d, want 2", notified)
	}
	if n := h.engine.ImportCount(mapsapi.LibraryMarker); n != 1 {
		t.Errorf("marker imports = %d, want 1", n)
	}

	remove()
	h.loader.Request("geometry")
	h.settle()
	if notified != 2 {
		t.Errorf("removed listener ran: %d", notified)
	}

	// Requesting a loaded library is a no-op.
	h.loader.Request(mapsapi.LibraryMarker)
	h.loader.Wait()
	if n := h.engine.ImportCount(mapsapi.LibraryMarker); n != 1 {
		t.Errorf("marker imports = %d, want 1", n)
	}
}

func TestLoaderWithoutDispatcher(t *testing.T) {
	engine := drifttest.NewFakeEngine()
	loader := NewLibraryLoader(engine.Import)
	notified := false
	loader.AddListener(func() { notified = true })

	if _, err := loader.Load(context.Background(), mapsapi.LibraryMarker); err != nil {
		t.Fatal(err)
	}
	if notified {
		t.Error("listener ran without a dispatcher")
	}
}
