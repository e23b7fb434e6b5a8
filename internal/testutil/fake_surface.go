package testutil

import (
	"fmt"
	"sync"

	"github.com/turtacn/landing-ab/internal/domain/page"
)

var _ page.Surface = (*FakeSurface)(nil)

// FakeElement is one element of a FakeSurface.
type FakeElement struct {
	Name     string
	Visible  bool
	Text     string
	Attrs    map[string]string
	After    []page.Fragment
	Children []page.Fragment
	Removed  bool

	ancestors map[string]*FakeElement
}

// FakeSurface is an in-memory page.Surface.  Selectors are matched by exact
// string: tests register each element under the selectors the code under
// test will query, and declare ancestors explicitly for Closest.
type FakeSurface struct {
	mu    sync.Mutex
	root  *FakeElement
	index map[string][]*FakeElement
	calls []string
}

// NewFakeSurface returns a surface holding only a root element.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{
		root:  &FakeElement{Name: "body", Visible: true, Attrs: map[string]string{}},
		index: make(map[string][]*FakeElement),
	}
}

// Add creates a visible element and registers it under each selector.
func (f *FakeSurface) Add(name string, selectors ...string) *FakeElement {
	el := &FakeElement{
		Name:      name,
		Visible:   true,
		Attrs:     map[string]string{},
		ancestors: map[string]*FakeElement{},
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sel := range selectors {
		f.index[sel] = append(f.index[sel], el)
	}
	return el
}

// Within declares ancestor as the element Closest(el, selector) resolves to.
func (e *FakeElement) Within(selector string, ancestor *FakeElement) *FakeElement {
	e.ancestors[selector] = ancestor
	return e
}

// WithAttr sets an attribute and returns e.
func (e *FakeElement) WithAttr(name, value string) *FakeElement {
	e.Attrs[name] = value
	return e
}

// WithText sets the text and returns e.
func (e *FakeElement) WithText(text string) *FakeElement {
	e.Text = text
	return e
}

// RootElement returns the root element.
func (f *FakeSurface) RootElement() *FakeElement { return f.root }

// Calls returns the recorded mutations, e.g. "SetVisible(faq,false)".
func (f *FakeSurface) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CountCalls returns how many recorded calls equal call.
func (f *FakeSurface) CountCalls(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *FakeSurface) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *FakeSurface) el(h page.Handle) *FakeElement {
	el, ok := h.(*FakeElement)
	if !ok {
		panic(fmt.Sprintf("testutil: foreign handle %T", h))
	}
	return el
}

func (f *FakeSurface) FindOne(selector string) (page.Handle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, el := range f.index[selector] {
		if !el.Removed {
			return el, true
		}
	}
	return nil, false
}

func (f *FakeSurface) FindAll(selector string) []page.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []page.Handle
	for _, el := range f.index[selector] {
		if !el.Removed {
			out = append(out, el)
		}
	}
	return out
}

func (f *FakeSurface) SetVisible(h page.Handle, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	el.Visible = visible
	f.record("SetVisible(%s,%t)", el.Name, visible)
}

func (f *FakeSurface) SetText(h page.Handle, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	el.Text = text
	f.record("SetText(%s,%s)", el.Name, text)
}

// InsertAfter records the fragment and indexes every id inside it as "#id".
func (f *FakeSurface) InsertAfter(h page.Handle, fragment page.Fragment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	el.After = append(el.After, fragment)
	f.indexFragment(fragment)
	f.record("InsertAfter(%s,%s)", el.Name, fragment.Tag)
}

// Append records the fragment and indexes every id and class inside it.
func (f *FakeSurface) Append(h page.Handle, fragment page.Fragment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	el.Children = append(el.Children, fragment)
	f.indexFragment(fragment)
	f.record("Append(%s,%s)", el.Name, fragment.Tag)
}

func (f *FakeSurface) indexFragment(fr page.Fragment) {
	name := fr.Tag
	el := &FakeElement{Name: name, Visible: true, Attrs: map[string]string{}, ancestors: map[string]*FakeElement{}, Text: fr.Text}
	for _, a := range fr.Attrs {
		el.Attrs[a.Name] = a.Value
	}
	if id, ok := fr.Attr("id"); ok {
		el.Name = id
		f.index["#"+id] = append(f.index["#"+id], el)
	}
	if class, ok := fr.Attr("class"); ok {
		f.index["."+class] = append(f.index["."+class], el)
	}
	for _, c := range fr.Children {
		f.indexFragment(c)
	}
}

func (f *FakeSurface) Remove(h page.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	el.Removed = true
	f.record("Remove(%s)", el.Name)
}

func (f *FakeSurface) Closest(h page.Handle, selector string) (page.Handle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	for _, candidate := range f.index[selector] {
		if candidate == el {
			return el, true
		}
	}
	if a, ok := el.ancestors[selector]; ok && !a.Removed {
		return a, true
	}
	return nil, false
}

func (f *FakeSurface) Root() page.Handle { return f.root }

func (f *FakeSurface) SetAttribute(h page.Handle, name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el := f.el(h)
	el.Attrs[name] = value
	f.record("SetAttribute(%s,%s,%s)", el.Name, name, value)
}

func (f *FakeSurface) Attribute(h page.Handle, name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.el(h).Attrs[name]
	return v, ok
}

//Personal.AI order the ending
