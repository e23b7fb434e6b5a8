// Package experiment implements the landing-page A/B test engine: the test
// catalog, weighted variant selection, per-visitor assignment persistence,
// the registry of render strategies that apply a variant to a page surface,
// and the reporter that forwards assignments to analytics.
package experiment

import (
	"fmt"
	"strings"

	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

// Test names of the built-in catalog.
const (
	HeroHeadline = "hero-headline"
	CTAText      = "cta-text"
	FormFields   = "form-fields"
	SocialProof  = "social-proof"
	Calculator   = "calculator"
	Pricing      = "pricing"
	CaseFormat   = "case-format"
	ExitIntent   = "exit-intent"
	FAQ          = "faq"
	Guarantees   = "guarantees"
	ChatWidget   = "chat-widget"
)

// TestDefinition describes one experiment.  Weights are positionally aligned
// with Variants.  Aux carries per-variant strategy data, e.g. the selector a
// hero variant shows or the text a CTA variant sets.
type TestDefinition struct {
	Name     string            `json:"name" yaml:"name"`
	Variants []string          `json:"variants" yaml:"variants"`
	Weights  []float64         `json:"weights" yaml:"weights"`
	Aux      map[string]string `json:"aux,omitempty" yaml:"aux,omitempty"`
}

// HasVariant reports whether v is one of the test's variants.
func (d *TestDefinition) HasVariant(v string) bool {
	for _, x := range d.Variants {
		if x == v {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a single definition.  Weight
// sums are deliberately not checked; Select absorbs drift.
func (d *TestDefinition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return apperrors.New(apperrors.ErrCodeCatalogInvalid, "test name is required")
	}
	if len(d.Variants) == 0 {
		return apperrors.New(apperrors.ErrCodeCatalogInvalid, "test has no variants").WithDetail(d.Name)
	}
	if len(d.Weights) != len(d.Variants) {
		return apperrors.Newf(apperrors.ErrCodeCatalogInvalid,
			"test %s: %d weights for %d variants", d.Name, len(d.Weights), len(d.Variants))
	}
	seen := make(map[string]struct{}, len(d.Variants))
	for i, v := range d.Variants {
		if v == "" {
			return apperrors.Newf(apperrors.ErrCodeCatalogInvalid, "test %s: empty variant at %d", d.Name, i)
		}
		if _, dup := seen[v]; dup {
			return apperrors.Newf(apperrors.ErrCodeCatalogInvalid, "test %s: duplicate variant %q", d.Name, v)
		}
		seen[v] = struct{}{}
		if d.Weights[i] < 0 {
			return apperrors.Newf(apperrors.ErrCodeCatalogInvalid, "test %s: negative weight for %q", d.Name, v)
		}
	}
	return nil
}

func (d TestDefinition) clone() TestDefinition {
	out := TestDefinition{
		Name:     d.Name,
		Variants: append([]string(nil), d.Variants...),
		Weights:  append([]float64(nil), d.Weights...),
	}
	if d.Aux != nil {
		out.Aux = make(map[string]string, len(d.Aux))
		for k, v := range d.Aux {
			out.Aux[k] = v
		}
	}
	return out
}

// Catalog is an ordered, immutable set of test definitions.
type Catalog struct {
	tests []TestDefinition
	index map[string]int
}

// NewCatalog validates defs and builds a Catalog preserving their order.
func NewCatalog(defs ...TestDefinition) (*Catalog, error) {
	c := &Catalog{
		tests: make([]TestDefinition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[d.Name]; dup {
			return nil, apperrors.Newf(apperrors.ErrCodeCatalogInvalid, "duplicate test %q", d.Name)
		}
		c.index[d.Name] = len(c.tests)
		c.tests = append(c.tests, d.clone())
	}
	return c, nil
}

// MustCatalog is NewCatalog that panics on an invalid definition.
func MustCatalog(defs ...TestDefinition) *Catalog {
	c, err := NewCatalog(defs...)
	if err != nil {
		panic(fmt.Sprintf("experiment: %v", err))
	}
	return c
}

// Len returns the number of tests.
func (c *Catalog) Len() int { return len(c.tests) }

// Names returns test names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.tests))
	for i, t := range c.tests {
		out[i] = t.Name
	}
	return out
}

// Tests returns copies of the definitions in declaration order.
func (c *Catalog) Tests() []TestDefinition {
	out := make([]TestDefinition, len(c.tests))
	for i, t := range c.tests {
		out[i] = t.clone()
	}
	return out
}

// Lookup returns the definition named name.  The returned pointer refers to a
// copy; mutating it does not affect the catalog.
func (c *Catalog) Lookup(name string) (*TestDefinition, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	d := c.tests[i].clone()
	return &d, true
}

// Get is Lookup returning a typed not-found error.
func (c *Catalog) Get(name string) (*TestDefinition, error) {
	d, ok := c.Lookup(name)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeTestNotFound, "unknown test").WithDetail(name)
	}
	return d, nil
}

// DefaultCatalog returns the eleven landing-page tests.
func DefaultCatalog() *Catalog {
	return MustCatalog(
		TestDefinition{
			Name:     HeroHeadline,
			Variants: []string{"control", "outcome", "pain"},
			Weights:  []float64{0.34, 0.33, 0.33},
			Aux: map[string]string{
				"control": ".hero__variant-a",
				"outcome": ".hero__variant-b",
				"pain":    ".hero__variant-c",
			},
		},
		TestDefinition{
			Name:     CTAText,
			Variants: []string{"roi-calc", "free-audit", "get-started", "save-time", "automate-now"},
			Weights:  []float64{0.2, 0.2, 0.2, 0.2, 0.2},
			Aux: map[string]string{
				"roi-calc":     "Получить ROI-расчёт",
				"free-audit":   "Бесплатный аудит",
				"get-started":  "Начать автоматизацию",
				"save-time":    "Экономить 15+ часов",
				"automate-now": "Автоматизировать сейчас",
			},
		},
		TestDefinition{
			Name:     FormFields,
			Variants: []string{"minimal", "standard", "detailed"},
			Weights:  []float64{0.34, 0.33, 0.33},
		},
		TestDefinition{
			Name:     SocialProof,
			Variants: []string{"hero-position", "after-problems", "with-metrics"},
			Weights:  []float64{0.34, 0.33, 0.33},
		},
		TestDefinition{
			Name:     Calculator,
			Variants: []string{"with-calculator", "without-calculator"},
			Weights:  []float64{0.7, 0.3},
		},
		TestDefinition{
			Name:     Pricing,
			Variants: []string{"with-prices", "request-quote", "starting-from"},
			Weights:  []float64{0.5, 0.25, 0.25},
		},
		TestDefinition{
			Name:     CaseFormat,
			Variants: []string{"text", "video"},
			Weights:  []float64{0.5, 0.5},
		},
		TestDefinition{
			Name:     ExitIntent,
			Variants: []string{"no-popup", "discount-popup", "lead-magnet-popup"},
			Weights:  []float64{0.34, 0.33, 0.33},
		},
		TestDefinition{
			Name:     FAQ,
			Variants: []string{"with-faq", "without-faq"},
			Weights:  []float64{0.7, 0.3},
		},
		TestDefinition{
			Name:     Guarantees,
			Variants: []string{"with-guarantees", "without-guarantees"},
			Weights:  []float64{0.6, 0.4},
		},
		TestDefinition{
			Name:     ChatWidget,
			Variants: []string{"no-chat", "telegram-widget", "intercom-style"},
			Weights:  []float64{0.34, 0.33, 0.33},
		},
	)
}

//Personal.AI order the ending
