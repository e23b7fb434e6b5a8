package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignment_MarshalParse(t *testing.T) {
	a := Assignment{FAQ: "without-faq", Pricing: "request-quote"}
	raw, err := a.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"faq":"without-faq","pricing":"request-quote"}`, raw)

	empty, err := Assignment(nil).Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestAssignment_Ordered(t *testing.T) {
	a := Assignment{"b-unknown": "1", ChatWidget: "no-chat", "a-unknown": "2", HeroHeadline: "pain"}
	assert.Equal(t, []string{HeroHeadline, ChatWidget, "a-unknown", "b-unknown"}, a.Ordered(DefaultCatalog()))
	assert.Equal(t, []string{"a-unknown", "b-unknown", ChatWidget, HeroHeadline}, a.Ordered(nil))
}

func TestAssignment_Clone(t *testing.T) {
	a := Assignment{FAQ: "with-faq"}
	b := a.Clone()
	b[FAQ] = "without-faq"
	assert.Equal(t, "with-faq", a[FAQ])
}

//Personal.AI order the ending
