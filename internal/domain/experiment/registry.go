package experiment

import (
	"sort"
	"sync"
)

// Registry maps test names to render strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register binds test to s, replacing any previous binding.
func (r *Registry) Register(test string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[test] = s
}

// Lookup returns the strategy bound to test.
func (r *Registry) Lookup(test string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[test]
	return s, ok
}

// Names returns the registered test names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Markup contract of the landing page.
const (
	SelectorCTA           = `[data-ab-test="cta-text"]`
	SelectorTaskField     = "#contact-form #task"
	SelectorFormGroup     = ".form-group"
	SelectorBudgetField   = "#budget"
	SelectorSocialVariant = "[data-variant]"
	SelectorCalculator    = "#calculator"
	SelectorPricingValue  = "#pricing .pricing-card__price-value"
	SelectorCaseText      = ".case__text"
	SelectorCaseVideo     = ".case__video-wrapper"
	SelectorFAQ           = "#faq"
	SelectorGuarantees    = "#guarantees"
)

// PriceOnRequest replaces every price under the request-quote variant.
const PriceOnRequest = "По запросу"

// StartingFromPrices are written positionally under the starting-from variant.
var StartingFromPrices = []string{"от 80 тыс. ₽", "от 180 тыс. ₽"}

// DefaultRegistry binds the built-in catalog tests to their strategies.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(HeroHeadline, ElementSetToggle{})
	r.Register(CTAText, TextSubstitution{Selector: SelectorCTA})
	r.Register(FormFields, StructuralAugmentation{
		Anchor:        SelectorTaskField,
		Group:         SelectorFormGroup,
		HideVariant:   "minimal",
		InsertVariant: "detailed",
		Guard:         SelectorBudgetField,
		Insert:        BudgetFieldGroup(),
	})
	r.Register(SocialProof, VariantAttributeToggle{
		Selector:   SelectorSocialVariant,
		Attr:       "data-variant",
		Containers: []string{".hero__social-proof", ".social-proof"},
	})
	r.Register(Calculator, BinarySuppress{Selector: SelectorCalculator, Suppress: "without-calculator"})
	r.Register(Pricing, PositionalRewrite{
		Selector: SelectorPricingValue,
		Fill:     map[string]string{"request-quote": PriceOnRequest},
		Values:   map[string][]string{"starting-from": StartingFromPrices},
	})
	r.Register(CaseFormat, GroupToggle{Groups: map[string]string{
		"text":  SelectorCaseText,
		"video": SelectorCaseVideo,
	}})
	r.Register(FAQ, BinarySuppress{Selector: SelectorFAQ, Suppress: "without-faq"})
	r.Register(Guarantees, BinarySuppress{Selector: SelectorGuarantees, Suppress: "without-guarantees"})
	r.Register(ExitIntent, MarkerOnly{})
	r.Register(ChatWidget, MarkerOnly{})
	return r
}
