package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsExactMatch(t *testing.T) {
	source := "Teh cat is happy."
	raw := []Candidate{{
		Type:        "spelling",
		Original:    "Teh",
		Replacement: "The",
		Message:     "Misspelling",
		StartIndex:  0,
		EndIndex:    3,
	}}

	sugs := Validate(raw, source, false)
	require.Len(t, sugs, 1)
	s := sugs[0]
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, KindSpelling, s.Kind)
	assert.Equal(t, "Teh", s.Original)
	assert.Equal(t, "The", s.Replacement)
	assert.Equal(t, 0, s.Start)
	assert.Equal(t, 3, s.End)
}

func TestValidateRejectsNoOpEdits(t *testing.T) {
	source := "hello world"
	raw := []Candidate{
		{Original: "hello", Replacement: "hello", StartIndex: 0, EndIndex: 5},
		{Original: "hello", Replacement: " hello ", StartIndex: 0, EndIndex: 5},
	}
	assert.Empty(t, Validate(raw, source, false))
}

func TestValidateRejectsMissingFields(t *testing.T) {
	source := "hello world"
	raw := []Candidate{
		{Original: "", Replacement: "x", StartIndex: 0, EndIndex: 5},
		{Original: "hello", Replacement: "", StartIndex: 0, EndIndex: 5},
	}
	assert.Empty(t, Validate(raw, source, false))
}

func TestValidateRejectsBadSpans(t *testing.T) {
	source := "hello world"
	raw := []Candidate{
		{Original: "hello", Replacement: "hi", StartIndex: -1, EndIndex: 5},
		{Original: "hello", Replacement: "hi", StartIndex: 0, EndIndex: 99},
		{Original: "hello", Replacement: "hi", StartIndex: 5, EndIndex: 5},
		{Original: "hello", Replacement: "hi", StartIndex: 6, EndIndex: 2},
	}
	assert.Empty(t, Validate(raw, source, false))
}

func TestValidateToleratesMinorMisalignment(t *testing.T) {
	source := "the quick brown fox"
	// Span covers "e quick" but the claimed original is "quick": the first
	// three characters of "quick" appear inside the span text.
	raw := []Candidate{{Original: "quick", Replacement: "fast", StartIndex: 3, EndIndex: 10}}
	sugs := Validate(raw, source, false)
	assert.Len(t, sugs, 1)

	// A span whose text shares nothing with the claimed original is rejected.
	raw = []Candidate{{Original: "zebra", Replacement: "horse", StartIndex: 0, EndIndex: 3}}
	assert.Empty(t, Validate(raw, source, false))
}

func TestValidateCaseInsensitive(t *testing.T) {
	source := "HELLO world"
	raw := []Candidate{{Original: "hello", Replacement: "hi", StartIndex: 0, EndIndex: 5}}
	assert.Len(t, Validate(raw, source, false), 1)
}

func TestValidateDefaults(t *testing.T) {
	source := "hello world"
	raw := []Candidate{
		{Original: "hello", Replacement: "hi", StartIndex: 0, EndIndex: 5},
		{Type: "banana", Original: "world", Replacement: "earth", StartIndex: 6, EndIndex: 11},
	}
	sugs := Validate(raw, source, false)
	require.Len(t, sugs, 2)
	assert.Equal(t, KindGrammar, sugs[0].Kind)
	assert.Equal(t, defaultMessage, sugs[0].Message)
	assert.Equal(t, KindGrammar, sugs[1].Kind, "unknown kinds normalise to grammar")
}

func TestValidateStrictDropsLowValueKinds(t *testing.T) {
	source := "one two three four five"
	raw := []Candidate{
		{Type: "style", Original: "one", Replacement: "1", StartIndex: 0, EndIndex: 3},
		{Type: "clarity", Original: "two", Replacement: "2", StartIndex: 4, EndIndex: 7},
		{Type: "grammar", Original: "three", Replacement: "3", StartIndex: 8, EndIndex: 13},
		{Type: "spelling", Original: "four", Replacement: "4", StartIndex: 14, EndIndex: 18},
	}

	relaxed := Validate(raw, source, false)
	assert.Len(t, relaxed, 4)

	strict := Validate(raw, source, true)
	require.Len(t, strict, 2)
	assert.Equal(t, KindGrammar, strict[0].Kind)
	assert.Equal(t, KindSpelling, strict[1].Kind)
}

func TestValidatePreservesOrderAndIsIdempotent(t *testing.T) {
	source := "alpha beta gamma"
	raw := []Candidate{
		{Original: "beta", Replacement: "b", StartIndex: 6, EndIndex: 10},
		{Original: "alpha", Replacement: "a", StartIndex: 0, EndIndex: 5},
	}

	first := Validate(raw, source, false)
	second := Validate(raw, source, false)
	require.Len(t, first, 2)
	require.Len(t, second, 2)

	// Same records in the same order, differing only in generated ids.
	for i := range first {
		assert.NotEqual(t, first[i].ID, second[i].ID)
		a, b := first[i], second[i]
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	}
	assert.Equal(t, "beta", first[0].Original)
	assert.Equal(t, "alpha", first[1].Original)
}
