package page

// Fragment is a renderer-agnostic element tree that a Surface materialises on
// InsertAfter or Append.
type Fragment struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []Fragment
}

// Attr is a single attribute of a Fragment.  A slice keeps output order stable.
type Attr struct {
	Name  string
	Value string
}

// El builds a Fragment from a tag, attributes and children.
func El(tag string, attrs []Attr, children ...Fragment) Fragment {
	return Fragment{Tag: tag, Attrs: attrs, Children: children}
}

// TextEl builds a Fragment holding only text content.
func TextEl(tag string, attrs []Attr, text string) Fragment {
	return Fragment{Tag: tag, Attrs: attrs, Text: text}
}

// A is shorthand for a single attribute.
func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// Attr returns the value of the named attribute.
func (f Fragment) Attr(name string) (string, bool) {
	for _, a := range f.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first fragment in f (depth-first, f included) whose id
// attribute equals id.
func (f Fragment) Find(id string) (Fragment, bool) {
	if v, ok := f.Attr("id"); ok && v == id {
		return f, true
	}
	for _, c := range f.Children {
		if found, ok := c.Find(id); ok {
			return found, true
		}
	}
	return Fragment{}, false
}

//Personal.AI order the ending
