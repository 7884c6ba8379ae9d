package testing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/platform"
	"github.com/go-drift/drift-maps/pkg/widgets"
)

// counter is a stateful widget whose count can be bumped from outside.
type counter struct {
	core.StatefulBase
	initial int
}

func (c counter) CreateState() core.State { return &counterState{} }

type counterState struct {
	core.StateBase
	count *core.Managed[int]
}

func (s *counterState) InitState() {
	s.count = core.NewManaged(s, s.Element().Widget().(counter).initial)
}

func (s *counterState) Build(ctx core.BuildContext) core.Widget {
	return widgets.Box{Class: "counter", Children: []core.Widget{
		widgets.Text{Content: itoa(s.count.Value())},
	}}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for ; n > 0; n /= 10 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
	}
	return string(digits)
}

func TestPumpWidget_MountsTree(t *testing.T) {
	tester := NewWidgetTesterWithT(t)

	if err := tester.PumpWidget(widgets.Text{Content: "hello"}); err != nil {
		t.Fatal(err)
	}
	if tester.RootElement() == nil {
		t.Fatal("expected root element after PumpWidget")
	}
	if got := tester.RootNode().TextContent(); got != "hello" {
		t.Errorf("root text = %q, want hello", got)
	}
}

func TestPumpWidget_UpdatesInPlace(t *testing.T) {
	tester := NewWidgetTesterWithT(t)

	tester.PumpWidget(counter{initial: 1})
	first := tester.Find(ByType[counter]()).State()

	tester.PumpWidget(counter{initial: 5})
	second := tester.Find(ByType[counter]()).State()

	if first != second {
		t.Error("expected state to survive a second PumpWidget")
	}
	if !tester.Find(ByText("1")).Exists() {
		t.Error("state was reinitialized")
	}
}

func TestPumpWidget_NilUnmounts(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{initial: 1})
	tester.PumpWidget(nil)

	if n := len(tester.RootNode().Children()); n != 0 {
		t.Errorf("root has %d children after nil pump, want 0", n)
	}
}

func TestPump_RebuildsDirtyState(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{initial: 0})

	state := tester.Find(ByType[counter]()).State().(*counterState)
	state.count.Set(7)
	if tester.Find(ByText("7")).Exists() {
		t.Fatal("rebuild happened before Pump")
	}
	tester.Pump()
	if !tester.Find(ByText("7")).Exists() {
		t.Error("expected text 7 after Pump")
	}
}

func TestDispatch_RunsOnPump(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{initial: 0})
	state := tester.Find(ByType[counter]()).State().(*counterState)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		platform.Dispatch(func() { state.count.Set(3) })
	}()
	wg.Wait()

	if tester.PendingDispatches() != 1 {
		t.Fatalf("pending = %d, want 1", tester.PendingDispatches())
	}
	tester.Pump()
	if !tester.Find(ByText("3")).Exists() {
		t.Error("dispatched update not applied")
	}
}

func TestPumpAndSettle(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{initial: 0})
	state := tester.Find(ByType[counter]()).State().(*counterState)

	done := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		platform.Dispatch(func() { state.count.Set(9) })
		close(done)
	}()
	<-done

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if !tester.Find(ByText("9")).Exists() {
		t.Error("expected settled text 9")
	}
}

func TestPumpAndSettle_Timeout(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(counter{initial: 0})

	// A dispatch that always queues another never settles.
	var again func()
	again = func() { tester.Dispatch(again) }
	tester.Dispatch(again)

	err := tester.PumpAndSettle(10 * time.Millisecond)
	if !errors.Is(err, ErrSettleTimeout) {
		t.Errorf("err = %v, want ErrSettleTimeout", err)
	}
}

func TestCleanup_UnregistersDispatcher(t *testing.T) {
	tester := NewWidgetTester()
	tester.PumpWidget(counter{initial: 0})
	tester.Cleanup()

	if tester.RootElement() != nil {
		t.Error("root element survived Cleanup")
	}
	if platform.Dispatch(func() {}) {
		t.Error("dispatcher still registered after Cleanup")
	}
	if tester.PendingDispatches() != 0 {
		t.Error("dispatch reached a cleaned up tester")
	}
}
