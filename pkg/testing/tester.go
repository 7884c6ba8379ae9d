package testing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/platform"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: framework did not settle")

// WidgetTester mounts widgets into an in-memory host tree and drives the
// build loop by hand. It registers itself as the platform dispatcher, so
// work handed to platform.Dispatch from any goroutine runs on the next
// Pump, on the test goroutine.
type WidgetTester struct {
	buildOwner *core.BuildOwner
	root       core.Element
	rootNode   *core.HostNode

	mu         sync.Mutex
	dispatches []func()
}

// NewWidgetTester creates a tester. Call Cleanup() when done, or use
// NewWidgetTesterWithT() instead.
func NewWidgetTester() *WidgetTester {
	t := &WidgetTester{
		buildOwner: core.NewBuildOwner(),
		rootNode:   core.NewHostNode("root"),
	}
	platform.RegisterDispatch(t.Dispatch)
	return t
}

// NewWidgetTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewWidgetTesterWithT(t *testing.T) *WidgetTester {
	tester := NewWidgetTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and unregisters the dispatcher.
func (t *WidgetTester) Cleanup() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
	platform.RegisterDispatch(nil)
}

// PumpWidget mounts widget on the first call and updates the existing tree
// with it afterwards, then runs one Pump. Passing nil unmounts everything
// below the root while keeping the root itself.
func (t *WidgetTester) PumpWidget(widget core.Widget) error {
	if t.root == nil {
		t.root = core.MountRoot(widget, t.buildOwner, t.rootNode)
	} else {
		core.UpdateRoot(t.root, widget)
	}
	return t.Pump()
}

// Pump runs the callbacks dispatched so far, then flushes the build.
func (t *WidgetTester) Pump() error {
	t.mu.Lock()
	dispatches := t.dispatches
	t.dispatches = nil
	t.mu.Unlock()

	for _, fn := range dispatches {
		fn()
	}
	t.buildOwner.FlushBuild()
	return nil
}

// PumpAndSettle pumps until no dispatches or builds are pending, polling
// every millisecond for work dispatched from other goroutines. It returns
// ErrSettleTimeout if work is still pending after timeout.
func (t *WidgetTester) PumpAndSettle(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrSettleTimeout
		}
		time.Sleep(time.Millisecond)
	}
}

func (t *WidgetTester) needsWork() bool {
	t.mu.Lock()
	pending := len(t.dispatches)
	t.mu.Unlock()
	return pending > 0 || t.buildOwner.NeedsWork()
}

// Dispatch queues a callback for the next Pump. It is safe to call from any
// goroutine.
func (t *WidgetTester) Dispatch(fn func()) {
	t.mu.Lock()
	t.dispatches = append(t.dispatches, fn)
	t.mu.Unlock()
}

// PendingDispatches returns the number of callbacks waiting for Pump.
func (t *WidgetTester) PendingDispatches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dispatches)
}

// RootElement returns the root element of the mounted tree.
func (t *WidgetTester) RootElement() core.Element {
	return t.root
}

// RootNode returns the host node the tree renders into.
func (t *WidgetTester) RootNode() *core.HostNode {
	return t.rootNode
}

// Find evaluates a finder against the current element tree.
func (t *WidgetTester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		elements: finder.Evaluate(t.root),
		finder:   finder,
	}
}
