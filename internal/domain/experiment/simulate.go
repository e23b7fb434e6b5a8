package experiment

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution summarises repeated draws of one test.
type Distribution struct {
	Test     string             `json:"test"`
	Draws    int                `json:"draws"`
	Counts   map[string]int     `json:"counts"`
	Expected map[string]float64 `json:"expected"`
	// ChiSquare is Pearson's statistic of Counts against Expected.
	ChiSquare float64 `json:"chi_square"`
	// PValue is the upper tail probability of ChiSquare.
	PValue float64 `json:"p_value"`
}

// Simulate draws n variants of def with sel and tests the observed counts
// against the probabilities Select actually produces for the configured
// weights: cumulative weights are clipped at one and any shortfall is
// credited to the last variant.
func Simulate(def *TestDefinition, sel *Selector, n int) Distribution {
	d := Distribution{
		Test:     def.Name,
		Draws:    n,
		Counts:   make(map[string]int, len(def.Variants)),
		Expected: make(map[string]float64, len(def.Variants)),
	}
	for _, v := range def.Variants {
		d.Counts[v] = 0
	}
	for i := 0; i < n; i++ {
		d.Counts[sel.Pick(def)]++
	}
	if n == 0 {
		return d
	}

	probs := Probabilities(def)
	df := 0
	for i, v := range def.Variants {
		exp := probs[i] * float64(n)
		d.Expected[v] = exp
		if exp == 0 {
			continue
		}
		diff := float64(d.Counts[v]) - exp
		d.ChiSquare += diff * diff / exp
		df++
	}
	if df > 1 {
		d.PValue = distuv.ChiSquared{K: float64(df - 1)}.Survival(d.ChiSquare)
	} else {
		d.PValue = 1
	}
	return d
}

// Probabilities returns the selection probability of each variant of def,
// aligned with def.Variants.
func Probabilities(def *TestDefinition) []float64 {
	out := make([]float64, len(def.Variants))
	if len(out) == 0 {
		return out
	}
	cumulative, prev := 0.0, 0.0
	for i := range def.Variants {
		if i < len(def.Weights) {
			cumulative += def.Weights[i]
		}
		c := cumulative
		if c > 1 {
			c = 1
		}
		if c > prev {
			out[i] = c - prev
			prev = c
		}
	}
	if prev < 1 {
		out[len(out)-1] += 1 - prev
	}
	return out
}

//Personal.AI order the ending
