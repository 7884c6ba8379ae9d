package widgets_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/drift-maps/pkg/core"
	drifttest "github.com/go-drift/drift-maps/pkg/testing"
	"github.com/go-drift/drift-maps/pkg/widgets"
)

func TestBoxAndTextRenderNodes(t *testing.T) {
	tester := drifttest.NewWidgetTesterWithT(t)

	if err := tester.PumpWidget(widgets.Box{Class: "pin", Children: []core.Widget{
		widgets.Text{Content: "Home", Class: "label"},
		widgets.Text{Content: "2 km"},
	}}); err != nil {
		t.Fatal(err)
	}

	want := core.NodeSnapshot{Tag: "root", Children: []core.NodeSnapshot{{
		Tag:   "div",
		Class: "pin",
		Children: []core.NodeSnapshot{
			{Tag: "span", Class: "label", Text: "Home"},
			{Tag: "span", Text: "2 km"},
		},
	}}}
	if diff := cmp.Diff(want, tester.RootNode().Snapshot()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBoxUpdatesInPlace(t *testing.T) {
	tester := drifttest.NewWidgetTesterWithT(t)

	tester.PumpWidget(widgets.Box{Class: "a", Children: []core.Widget{widgets.Text{Content: "one"}}})
	box := tester.RootNode().Children()[0]

	tester.PumpWidget(widgets.Box{Class: "b", Children: []core.Widget{
		widgets.Text{Content: "uno"},
		widgets.Text{Content: "dos"},
	}})

	children := tester.RootNode().Children()
	if len(children) != 1 || children[0] != box {
		t.Fatal("box node was replaced instead of updated")
	}
	node := box.(*core.HostNode)
	if node.Class() != "b" || node.TextContent() != "unodos" {
		t.Errorf("box = %q %q, want b unodos", node.Class(), node.TextContent())
	}

	tester.PumpWidget(widgets.Box{Class: "b"})
	if len(node.Children()) != 0 {
		t.Errorf("children after removal = %d, want 0", len(node.Children()))
	}
}

func TestFindText(t *testing.T) {
	tester := drifttest.NewWidgetTesterWithT(t)
	tester.PumpWidget(widgets.Box{Children: []core.Widget{widgets.Text{Content: "Home"}}})

	if !tester.Find(drifttest.ByText("Home")).Exists() {
		t.Error("expected to find text 'Home'")
	}
	if tester.Find(drifttest.ByText("Away")).Exists() {
		t.Error("should not find text 'Away'")
	}
}
