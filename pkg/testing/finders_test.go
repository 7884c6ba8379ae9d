package testing

import (
	"testing"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/widgets"
)

type keyedText struct {
	widgets.Text
	key string
}

func (k keyedText) Key() any { return k.key }

func sampleTree() core.Widget {
	return widgets.Box{Class: "outer", Children: []core.Widget{
		widgets.Text{Content: "Home"},
		widgets.Box{Class: "inner", Children: []core.Widget{
			widgets.Text{Content: "Homestead"},
			keyedText{Text: widgets.Text{Content: "keyed"}, key: "k1"},
		}},
		counter{initial: 42},
	}}
}

func TestByType(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	result := tester.Find(ByType[widgets.Text]())
	if result.Count() != 3 {
		t.Fatalf("Text count = %d, want 3", result.Count())
	}
	if got := result.Widget().(widgets.Text).Content; got != "Home" {
		t.Errorf("first Text = %q, want Home (pre-order)", got)
	}
}

func TestByText(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	if !tester.Find(ByText("42")).Exists() {
		t.Error("expected to find text '42'")
	}
	if tester.Find(ByText("Hom")).Exists() {
		t.Error("ByText matched a prefix")
	}
}

func TestByTextContaining(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	if got := tester.Find(ByTextContaining("Home")).Count(); got != 2 {
		t.Errorf("matches = %d, want 2", got)
	}
}

func TestByKey(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	result := tester.Find(ByKey("k1"))
	if result.Count() != 1 {
		t.Fatalf("ByKey count = %d, want 1", result.Count())
	}
	if tester.Find(ByKey([]int{1})).Exists() {
		t.Error("non-comparable key matched")
	}
}

func TestByPredicate(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	result := tester.Find(ByPredicate(func(e core.Element) bool {
		box, ok := e.Widget().(widgets.Box)
		return ok && box.Class == "inner"
	}))
	if !result.Exists() {
		t.Fatal("predicate found nothing")
	}
	node, ok := result.Node().(*core.HostNode)
	if !ok || node.Class() != "inner" {
		t.Errorf("Node() = %v, want the inner div", result.Node())
	}
}

func TestDescendantAndAncestor(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	inner := ByPredicate(func(e core.Element) bool {
		box, ok := e.Widget().(widgets.Box)
		return ok && box.Class == "inner"
	})
	texts := tester.Find(Descendant(inner, ByType[widgets.Text]()))
	if texts.Count() != 1 {
		t.Errorf("Text descendants of inner = %d, want 1", texts.Count())
	}

	boxes := tester.Find(Ancestor(ByText("Homestead"), ByType[widgets.Box]()))
	if boxes.Count() != 2 {
		t.Errorf("Box ancestors of Homestead = %d, want 2", boxes.Count())
	}
	if tester.Find(Ancestor(ByText("missing"), ByType[widgets.Box]())).Exists() {
		t.Error("ancestor of a missing element")
	}
}

func TestFinderResult_Accessors(t *testing.T) {
	tester := NewWidgetTesterWithT(t)
	tester.PumpWidget(sampleTree())

	missing := tester.Find(ByText("nope"))
	if missing.FirstOrNil() != nil {
		t.Error("FirstOrNil on empty result")
	}
	defer func() {
		if recover() == nil {
			t.Error("First on empty result did not panic")
		}
	}()
	if tester.Find(ByType[counter]()).State() == nil {
		t.Error("State() nil for a stateful element")
	}
	if tester.Find(ByText("Home")).State() != nil {
		t.Error("State() non-nil for a host element")
	}
	tester.Find(ByText("Home")).At(0)
	missing.First()
}
