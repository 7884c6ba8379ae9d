package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/drift-maps/pkg/core"
	"github.com/go-drift/drift-maps/pkg/widgets"
)

// Finder locates elements in the widget tree.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root core.Element) []core.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []core.Element
	finder   Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.describe()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.describe()))
	}
	return r.elements[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// Widget returns the widget of the first matched element. Panics if no matches.
func (r FinderResult) Widget() core.Widget {
	return r.First().Widget()
}

// Node returns the host node of the first matched element, or nil when the
// element is not a host element.
func (r FinderResult) Node() core.Node {
	if host, ok := r.First().(*core.HostElement); ok {
		return host.Node()
	}
	return nil
}

// State returns the state of the first matched element, or nil when the
// element is not stateful.
func (r FinderResult) State() core.State {
	if stateful, ok := r.First().(*core.StatefulElement); ok {
		return stateful.State()
	}
	return nil
}

// --- Concrete finders ---

// funcFinder adapts a predicate and a description into a Finder.
type funcFinder struct {
	match func(core.Element) bool
	desc  string
}

func (f *funcFinder) Evaluate(root core.Element) []core.Element {
	return collectMatches(root, f.match)
}

func (f *funcFinder) Description() string {
	return f.desc
}

// ByType returns a finder that matches elements whose widget is type T.
func ByType[T core.Widget]() Finder {
	widgetType := reflect.TypeFor[T]()
	return &funcFinder{
		match: func(e core.Element) bool {
			return reflect.TypeOf(e.Widget()) == widgetType
		},
		desc: fmt.Sprintf("ByType(%s)", widgetType),
	}
}

// ByKey returns a finder that matches elements whose widget key equals key.
func ByKey(key any) Finder {
	return &funcFinder{
		match: func(e core.Element) bool {
			return keysEqual(e.Widget().Key(), key)
		},
		desc: fmt.Sprintf("ByKey(%v)", key),
	}
}

func keysEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Guard against non-comparable types (slices, maps, funcs).
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// ByText returns a finder that matches [widgets.Text] with exact content.
func ByText(text string) Finder {
	return &funcFinder{
		match: func(e core.Element) bool {
			t, ok := e.Widget().(widgets.Text)
			return ok && t.Content == text
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches [widgets.Text] containing
// the given substring.
func ByTextContaining(substring string) Finder {
	return &funcFinder{
		match: func(e core.Element) bool {
			t, ok := e.Widget().(widgets.Text)
			return ok && strings.Contains(t.Content, substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(core.Element) bool) Finder {
	return &funcFinder{match: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root core.Element) []core.Element {
	var results []core.Element
	seen := make(map[core.Element]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// The ancestor itself is not its own descendant.
		ancestor.VisitChildren(func(child core.Element) bool {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
			return true
		})
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying 'matching'
// that are descendants of elements matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds elements matching 'matching' that are ancestors
// of elements matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root core.Element) []core.Element {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []core.Element
	for _, candidate := range f.matching.Evaluate(root) {
		for _, desc := range descendants {
			if candidate != desc && isAncestorOf(candidate, desc) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches elements satisfying 'matching'
// that are ancestors of elements matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(ancestor, descendant core.Element) bool {
	found := false
	walkTree(ancestor, func(e core.Element) bool {
		found = e == descendant
		return !found
	})
	return found
}

// collectMatches performs depth-first pre-order traversal, collecting
// elements that satisfy the predicate.
func collectMatches(root core.Element, predicate func(core.Element) bool) []core.Element {
	var results []core.Element
	walkTree(root, func(e core.Element) bool {
		if predicate(e) {
			results = append(results, e)
		}
		return true
	})
	return results
}

// walkTree visits root and its descendants depth-first. The visitor returns
// false to stop the walk.
func walkTree(root core.Element, visitor func(core.Element) bool) bool {
	if !visitor(root) {
		return false
	}
	keepGoing := true
	root.VisitChildren(func(child core.Element) bool {
		keepGoing = walkTree(child, visitor)
		return keepGoing
	})
	return keepGoing
}
