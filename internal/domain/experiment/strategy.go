package experiment

import (
	"sort"

	"github.com/turtacn/landing-ab/internal/domain/page"
)

// Strategy renders one variant of a test onto a page surface.  aux is the
// test definition's per-variant auxiliary data.  Implementations must be
// idempotent and must skip missing elements silently.
type Strategy interface {
	Apply(variant string, aux map[string]string, s page.Surface)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(variant string, aux map[string]string, s page.Surface)

func (f StrategyFunc) Apply(variant string, aux map[string]string, s page.Surface) {
	f(variant, aux, s)
}

// MarkerOnly applies nothing; the applicator still stamps the test marker.
// Tests whose behaviour is driven by a conditional initializer use it.
type MarkerOnly struct{}

func (MarkerOnly) Apply(string, map[string]string, page.Surface) {}

// ── ElementSetToggle ────────────────────────────────────────────────────────

// ElementSetToggle shows the first element matching the selector aux maps the
// assigned variant to and hides the elements of every other variant.
type ElementSetToggle struct{}

func (ElementSetToggle) Apply(variant string, aux map[string]string, s page.Surface) {
	variants := make([]string, 0, len(aux))
	for v := range aux {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	for _, v := range variants {
		if v == variant {
			continue
		}
		if h, ok := s.FindOne(aux[v]); ok {
			s.SetVisible(h, false)
		}
	}
	if sel, ok := aux[variant]; ok {
		if h, ok := s.FindOne(sel); ok {
			s.SetVisible(h, true)
		}
	}
}

// ── TextSubstitution ────────────────────────────────────────────────────────

// TextSubstitution sets the text aux maps the variant to on every element
// matching Selector.  A variant without text leaves the elements unchanged.
type TextSubstitution struct {
	Selector string
}

func (t TextSubstitution) Apply(variant string, aux map[string]string, s page.Surface) {
	text, ok := aux[variant]
	if !ok || text == "" {
		return
	}
	for _, h := range s.FindAll(t.Selector) {
		s.SetText(h, text)
	}
}

// ── StructuralAugmentation ──────────────────────────────────────────────────

// StructuralAugmentation locates the group wrapping Anchor and either hides it
// (for HideVariant) or inserts Insert after it (for InsertVariant).  The
// insertion happens once: when an element matching Guard already exists the
// fragment is not inserted again.
type StructuralAugmentation struct {
	Anchor        string
	Group         string
	HideVariant   string
	InsertVariant string
	Guard         string
	Insert        page.Fragment
}

func (a StructuralAugmentation) Apply(variant string, _ map[string]string, s page.Surface) {
	anchor, ok := s.FindOne(a.Anchor)
	if !ok {
		return
	}
	group, ok := s.Closest(anchor, a.Group)
	if !ok {
		return
	}
	switch variant {
	case a.HideVariant:
		s.SetVisible(group, false)
	case a.InsertVariant:
		if _, exists := s.FindOne(a.Guard); exists {
			return
		}
		s.InsertAfter(group, a.Insert)
	}
}

// BudgetFieldGroup is the form group the detailed contact form gains.
func BudgetFieldGroup() page.Fragment {
	option := func(value, label string) page.Fragment {
		return page.TextEl("option", []page.Attr{page.A("value", value)}, label)
	}
	return page.El("div", []page.Attr{page.A("class", "form-group")},
		page.TextEl("label", []page.Attr{page.A("for", "budget")}, "Примерный бюджет"),
		page.El("select", []page.Attr{page.A("id", "budget"), page.A("name", "budget")},
			option("", "Выберите диапазон"),
			option("80-150", "80-150 тыс. ₽"),
			option("150-300", "150-300 тыс. ₽"),
			option("300+", "300+ тыс. ₽"),
		),
	)
}

// ── VariantAttributeToggle ──────────────────────────────────────────────────

// VariantAttributeToggle shows the elements matching Selector whose Attr
// equals the variant and hides the rest.  Only elements inside one of
// Containers are considered.
type VariantAttributeToggle struct {
	Selector   string
	Attr       string
	Containers []string
}

func (t VariantAttributeToggle) Apply(variant string, _ map[string]string, s page.Surface) {
	for _, h := range s.FindAll(t.Selector) {
		if !t.contained(h, s) {
			continue
		}
		v, _ := s.Attribute(h, t.Attr)
		s.SetVisible(h, v == variant)
	}
}

func (t VariantAttributeToggle) contained(h page.Handle, s page.Surface) bool {
	if len(t.Containers) == 0 {
		return true
	}
	for _, c := range t.Containers {
		if _, ok := s.Closest(h, c); ok {
			return true
		}
	}
	return false
}

// ── BinarySuppress ──────────────────────────────────────────────────────────

// BinarySuppress hides Selector when the variant is Suppress and otherwise
// leaves the element as authored.
type BinarySuppress struct {
	Selector string
	Suppress string
}

func (b BinarySuppress) Apply(variant string, _ map[string]string, s page.Surface) {
	if variant != b.Suppress {
		return
	}
	if h, ok := s.FindOne(b.Selector); ok {
		s.SetVisible(h, false)
	}
}

// ── PositionalRewrite ───────────────────────────────────────────────────────

// PositionalRewrite rewrites the text of the elements matching Selector.
//
// The contract is positional: for a variant in Values, the Nth matched
// element receives the Nth configured value and elements beyond the list are
// left unchanged.  For a variant in Fill, every matched element receives the
// same value.  Any other variant keeps the authored markup.
type PositionalRewrite struct {
	Selector string
	Values   map[string][]string
	Fill     map[string]string
}

func (p PositionalRewrite) Apply(variant string, _ map[string]string, s page.Surface) {
	if text, ok := p.Fill[variant]; ok {
		for _, h := range s.FindAll(p.Selector) {
			s.SetText(h, text)
		}
		return
	}
	values, ok := p.Values[variant]
	if !ok {
		return
	}
	for i, h := range s.FindAll(p.Selector) {
		if i >= len(values) {
			break
		}
		s.SetText(h, values[i])
	}
}

// ── GroupToggle ─────────────────────────────────────────────────────────────

// GroupToggle maps each variant to a selector group; the assigned variant's
// group is shown and every other group hidden.
type GroupToggle struct {
	Groups map[string]string
}

func (g GroupToggle) Apply(variant string, _ map[string]string, s page.Surface) {
	variants := make([]string, 0, len(g.Groups))
	for v := range g.Groups {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	for _, v := range variants {
		for _, h := range s.FindAll(g.Groups[v]) {
			s.SetVisible(h, v == variant)
		}
	}
}

//Personal.AI order the ending
