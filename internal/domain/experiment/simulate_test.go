package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_RespectsWeights(t *testing.T) {
	sel := NewSelector(NewRandomSource(42))
	for _, def := range DefaultCatalog().Tests() {
		def := def
		d := Simulate(&def, sel, 100000)

		assert.Equal(t, 100000, d.Draws)
		total := 0
		for _, c := range d.Counts {
			total += c
		}
		assert.Equal(t, 100000, total)
		assert.Greater(t, d.PValue, 0.0001, "test %s: chi2=%.2f", def.Name, d.ChiSquare)
	}
}

func TestSimulate_DetectsSkew(t *testing.T) {
	def := &TestDefinition{Name: "skew", Variants: []string{"a", "b"}, Weights: []float64{0.5, 0.5}}
	always := NewSelector(SourceFunc(func() float64 { return 0.1 }))

	d := Simulate(def, always, 1000)
	assert.Equal(t, 1000, d.Counts["a"])
	assert.Equal(t, 0, d.Counts["b"])
	assert.Less(t, d.PValue, 0.0001)
}

func TestProbabilities(t *testing.T) {
	cases := []struct {
		name    string
		weights []float64
		want    []float64
	}{
		{"exact", []float64{0.7, 0.3}, []float64{0.7, 0.3}},
		{"short sum credits last", []float64{0.5, 0.4}, []float64{0.5, 0.5}},
		{"long sum clips last", []float64{0.6, 0.6}, []float64{0.6, 0.4}},
		{"zero weight", []float64{0, 1}, []float64{0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := &TestDefinition{Name: "p", Variants: []string{"a", "b"}, Weights: tc.weights}
			got := Probabilities(def)
			require.Len(t, got, 2)
			assert.InDelta(t, tc.want[0], got[0], 1e-9)
			assert.InDelta(t, tc.want[1], got[1], 1e-9)
		})
	}
}

//Personal.AI order the ending
