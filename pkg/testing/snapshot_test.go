package testing

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/widgets"
)

// fakeT records failures instead of stopping the test.
type fakeT struct {
	fatal  string
	errors []string
}

func (f *fakeT) Helper() {}

func (f *fakeT) Fatalf(format string, args ...any) { f.fatal = fmt.Sprintf(format, args...) }

func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeT) Name() string { return "TestFake" }

func TestSnapshot_RoundTrip(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	engine := NewFakeEngine()
	tester.PumpWidget(widgets.Box{Class: "card", Children: []core.Widget{widgets.Text{Content: "hi"}}})

	container, _ := engine.NewContainer()
	container.AppendChild(core.NewHostNode("img"))
	container.SetClassName("pin")

	snap := tester.CaptureSnapshot(engine)
	if len(snap.Containers) != 1 || snap.Containers[0].ClassName != "pin" {
		t.Fatalf("containers = %+v", snap.Containers)
	}

	path := filepath.Join(t.TempDir(), "nested", "card.snapshot.json")
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	ft := &fakeT{}
	tester.CaptureSnapshot(engine).MatchesFile(ft, path)
	if ft.fatal != "" || len(ft.errors) != 0 {
		t.Errorf("unexpected mismatch: %q %v", ft.fatal, ft.errors)
	}

	container.Remove()
	ft = &fakeT{}
	tester.CaptureSnapshot(engine).MatchesFile(ft, path)
	if len(ft.errors) != 1 || !strings.Contains(ft.errors[0], "container#1") {
		t.Errorf("expected a diff naming the removed container, got %v", ft.errors)
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	t.Setenv("DRIFT_UPDATE_SNAPSHOTS", "")
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.Text{Content: "x"})

	ft := &fakeT{}
	tester.CaptureSnapshot(nil).MatchesFile(ft, filepath.Join(t.TempDir(), "missing.json"))
	if !strings.Contains(ft.fatal, "snapshot file missing") {
		t.Errorf("fatal = %q", ft.fatal)
	}
}

func TestSnapshot_UpdateEnv(t *testing.T) {
	t.Setenv("DRIFT_UPDATE_SNAPSHOTS", "1")
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.Text{Content: "x"})

	path := filepath.Join(t.TempDir(), "new.json")
	ft := &fakeT{}
	tester.CaptureSnapshot(nil).MatchesFile(ft, path)
	if ft.fatal != "" {
		t.Fatal(ft.fatal)
	}
	if _, err := loadSnapshot(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}
