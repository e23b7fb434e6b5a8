// Package page defines the Page Surface capability: the narrow set of queries
// and mutations the experiment engine and the conditional features perform on
// a rendered landing page.  Implementations live in infrastructure
// (htmldoc.Document) and in testutil (FakeSurface).
package page

// Handle is an opaque reference to one element of a surface.  Handles are only
// meaningful to the surface that produced them.
type Handle interface{}

// Surface is the capability the core depends on instead of querying the page
// directly.  Selectors use CSS syntax; a missing element is not an error, the
// lookup simply reports no match.
type Surface interface {
	// FindOne returns the first element matching selector in document order.
	FindOne(selector string) (Handle, bool)

	// FindAll returns every element matching selector in document order.
	FindAll(selector string) []Handle

	// SetVisible shows or hides h.  Calling it repeatedly with the same value
	// leaves the element in the same state.
	SetVisible(h Handle, visible bool)

	// SetText replaces the text content of h.
	SetText(h Handle, text string)

	// InsertAfter inserts fragment as the next sibling of h.
	InsertAfter(h Handle, fragment Fragment)

	// Append adds fragment as the last child of h.
	Append(h Handle, fragment Fragment)

	// Remove detaches h from the page.
	Remove(h Handle)

	// Closest returns h itself or its nearest ancestor matching selector.
	Closest(h Handle, selector string) (Handle, bool)

	// Root returns the document root (the <body> element for HTML pages).
	Root() Handle

	// SetAttribute sets an attribute on h, replacing any previous value.
	SetAttribute(h Handle, name, value string)

	// Attribute returns an attribute value of h.
	Attribute(h Handle, name string) (string, bool)
}
