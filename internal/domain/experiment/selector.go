package experiment

import (
	"math/rand"
	"sync"
	"time"
)

// Select picks a variant of def for the uniform draw r in [0,1).
//
// Weights are walked in declaration order accumulating a running sum and the
// first variant whose cumulative weight exceeds r wins.  When the weights sum
// to less than one and r falls past the end, the last variant is returned, so
// floating point drift never leaves a visitor unassigned.
func Select(def *TestDefinition, r float64) string {
	if def == nil || len(def.Variants) == 0 {
		return ""
	}
	cumulative := 0.0
	for i, v := range def.Variants {
		if i < len(def.Weights) {
			cumulative += def.Weights[i]
		}
		if r < cumulative {
			return v
		}
	}
	return def.Variants[len(def.Variants)-1]
}

// RandomSource yields uniform draws in [0,1).
type RandomSource interface {
	Float64() float64
}

// lockedSource guards a *rand.Rand, which is not safe for concurrent use.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewRandomSource returns a goroutine-safe source seeded with seed.
func NewRandomSource(seed int64) RandomSource {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

// SourceFunc adapts a function to RandomSource.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// Selector draws variants from a RandomSource.
type Selector struct {
	src RandomSource
}

// NewSelector returns a Selector.  A nil src uses a time-seeded source.
func NewSelector(src RandomSource) *Selector {
	if src == nil {
		src = NewRandomSource(time.Now().UnixNano())
	}
	return &Selector{src: src}
}

// Pick draws one variant of def.
func (s *Selector) Pick(def *TestDefinition) string {
	return Select(def, s.src.Float64())
}

// Assign draws one variant per catalog test.
func (s *Selector) Assign(c *Catalog) Assignment {
	a := make(Assignment, c.Len())
	for i := range c.tests {
		a[c.tests[i].Name] = s.Pick(&c.tests[i])
	}
	return a
}

//Personal.AI order the ending
