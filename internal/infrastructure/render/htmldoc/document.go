// Package htmldoc implements the page Surface over a parsed HTML document.
// Selectors are compiled with cascadia and cached process-wide; visibility
// is expressed with the hidden attribute plus an inline display rule so the
// markup renders the same with or without the page stylesheet.
package htmldoc

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/turtacn/landing-ab/internal/domain/page"
	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

var _ page.Surface = (*Document)(nil)

// Document is a mutable HTML tree.  It is not safe for concurrent use; each
// request renders its own Document.
type Document struct {
	root *html.Node
	body *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSurfaceRender, "parse html")
	}
	d := &Document{root: root}
	d.body = cascadia.Query(root, compile("body"))
	if d.body == nil {
		d.body = root
	}
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSurfaceRender, "render html")
	}
	return nil
}

// String renders the document, or an empty string if rendering fails.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// ── selectors ───────────────────────────────────────────────────────────────

var selectors sync.Map // string -> cascadia.Matcher

type nothing struct{}

func (nothing) Match(*html.Node) bool { return false }

// compile returns the matcher of sel; an invalid selector matches nothing.
func compile(sel string) cascadia.Matcher {
	if m, ok := selectors.Load(sel); ok {
		return m.(cascadia.Matcher)
	}
	var m cascadia.Matcher = nothing{}
	if group, err := cascadia.ParseGroup(sel); err == nil {
		m = group
	}
	selectors.Store(sel, m)
	return m
}

// ValidSelector reports whether sel compiles.
func ValidSelector(sel string) bool {
	_, err := cascadia.ParseGroup(sel)
	return err == nil
}

func node(h page.Handle) *html.Node {
	n, _ := h.(*html.Node)
	return n
}

// ── page.Surface ────────────────────────────────────────────────────────────

func (d *Document) FindOne(selector string) (page.Handle, bool) {
	n := cascadia.Query(d.root, compile(selector))
	if n == nil {
		return nil, false
	}
	return n, true
}

func (d *Document) FindAll(selector string) []page.Handle {
	nodes := cascadia.QueryAll(d.root, compile(selector))
	out := make([]page.Handle, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func (d *Document) SetVisible(h page.Handle, visible bool) {
	n := node(h)
	if n == nil {
		return
	}
	style := withoutDisplay(getAttr(n, "style"))
	if visible {
		removeAttr(n, "hidden")
	} else {
		setAttr(n, "hidden", "")
		style = joinStyle(style, "display: none")
	}
	if style == "" {
		removeAttr(n, "style")
	} else {
		setAttr(n, "style", style)
	}
}

func (d *Document) SetText(h page.Handle, text string) {
	n := node(h)
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (d *Document) InsertAfter(h page.Handle, f page.Fragment) {
	n := node(h)
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.InsertBefore(build(f), n.NextSibling)
}

func (d *Document) Append(h page.Handle, f page.Fragment) {
	if n := node(h); n != nil {
		n.AppendChild(build(f))
	}
}

func (d *Document) Remove(h page.Handle) {
	if n := node(h); n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func (d *Document) Closest(h page.Handle, selector string) (page.Handle, bool) {
	m := compile(selector)
	for n := node(h); n != nil; n = n.Parent {
		if n.Type == html.ElementNode && m.Match(n) {
			return n, true
		}
	}
	return nil, false
}

func (d *Document) Root() page.Handle { return d.body }

func (d *Document) SetAttribute(h page.Handle, name, value string) {
	if n := node(h); n != nil {
		setAttr(n, name, value)
	}
}

func (d *Document) Attribute(h page.Handle, name string) (string, bool) {
	n := node(h)
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Visible reports whether h is neither hidden nor display:none inline.
func (d *Document) Visible(h page.Handle) bool {
	n := node(h)
	if n == nil {
		return false
	}
	if _, hidden := d.Attribute(h, "hidden"); hidden {
		return false
	}
	return !strings.Contains(strings.ReplaceAll(getAttr(n, "style"), " ", ""), "display:none")
}

// Text returns the concatenated text content of h.
func (d *Document) Text(h page.Handle) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n := node(h); n != nil {
		walk(n)
	}
	return b.String()
}

// ── helpers ─────────────────────────────────────────────────────────────────

func build(f page.Fragment) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     f.Tag,
		DataAtom: atom.Lookup([]byte(f.Tag)),
	}
	for _, a := range f.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if f.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: f.Text})
	}
	for _, c := range f.Children {
		n.AppendChild(build(c))
	}
	return n
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// withoutDisplay drops any display declaration from an inline style.
func withoutDisplay(style string) string {
	var keep []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(strings.SplitN(decl, ":", 2)[0]))
		if prop == "display" {
			continue
		}
		keep = append(keep, decl)
	}
	return strings.Join(keep, "; ")
}

func joinStyle(style, decl string) string {
	if style == "" {
		return decl
	}
	return style + "; " + decl
}

//Personal.AI order the ending
