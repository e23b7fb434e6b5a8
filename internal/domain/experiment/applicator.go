package experiment

import (
	"github.com/turtacn/landing-ab/internal/domain/page"
)

// MarkerPrefix prefixes the root attribute recording each applied test.
const MarkerPrefix = "data-ab-"

// MarkerAttribute returns the root attribute name for test.
func MarkerAttribute(test string) string { return MarkerPrefix + test }

// Applicator renders assignments onto a page surface.
type Applicator struct {
	registry *Registry
}

// NewApplicator returns an Applicator dispatching through registry.  A nil
// registry uses DefaultRegistry.
func NewApplicator(registry *Registry) *Applicator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Applicator{registry: registry}
}

// Apply renders variant of test onto s and stamps the marker attribute on the
// root.  An unregistered test applies nothing but is still stamped.  def may
// be nil when the test is not in the catalog.
func (a *Applicator) Apply(test, variant string, def *TestDefinition, s page.Surface) {
	if strategy, ok := a.registry.Lookup(test); ok {
		var aux map[string]string
		if def != nil {
			aux = def.Aux
		}
		strategy.Apply(variant, aux, s)
	}
	s.SetAttribute(s.Root(), MarkerAttribute(test), variant)
}

// ApplyAll applies every entry of assignment, catalog tests first in catalog
// order and unknown names after them, sorted.
func (a *Applicator) ApplyAll(catalog *Catalog, assignment Assignment, s page.Surface) {
	for _, test := range assignment.Ordered(catalog) {
		var def *TestDefinition
		if catalog != nil {
			def, _ = catalog.Lookup(test)
		}
		a.Apply(test, assignment[test], def, s)
	}
}

//Personal.AI order the ending
