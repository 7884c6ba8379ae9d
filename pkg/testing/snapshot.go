package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the host tree, the content of every live marker
// container and the engine call log.
type Snapshot struct {
	Tree       core.NodeSnapshot   `json:"tree"`
	Containers []ContainerSnapshot `json:"containers,omitempty"`
	Ops        []string            `json:"ops,omitempty"`
}

// ContainerSnapshot is the serialized form of a FakeContainer.
type ContainerSnapshot struct {
	Name      string            `json:"name"`
	ClassName string            `json:"className,omitempty"`
	Content   core.NodeSnapshot `json:"content"`
}

// CaptureSnapshot captures the current host tree. When engine is non-nil the
// snapshot also holds its containers that have not been removed and its
// operation log.
func (t *WidgetTester) CaptureSnapshot(engine *FakeEngine) *Snapshot {
	snap := &Snapshot{Tree: t.rootNode.Snapshot()}
	if engine == nil {
		return snap
	}
	for _, c := range engine.Containers() {
		if c.Removed {
			continue
		}
		snap.Containers = append(snap.Containers, ContainerSnapshot{
			Name:      c.name,
			ClassName: c.ClassName,
			Content:   c.Root.Snapshot(),
		})
	}
	snap.Ops = engine.OpStrings()
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When DRIFT_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("DRIFT_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: DRIFT_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got)\n%s\n\nTo update: DRIFT_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns the difference between other (expected) and this snapshot, or
// an empty string if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s, cmpopts.EquateEmpty())
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
