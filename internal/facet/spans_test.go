package facet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawmatch/pawmatch/internal/ner"
	"github.com/pawmatch/pawmatch/internal/pet"
)

func TestFromSpans(t *testing.T) {
	t.Run("longer span wins overlap", func(t *testing.T) {
		// "golden retriever": BREED span covers the COLOR span.
		spans := []ner.Span{
			{Label: "COLOR", Text: "golden", Start: 0, End: 6, Confidence: 0.9},
			{Label: "BREED", Text: "golden retriever", Start: 0, End: 16, Confidence: 0.9},
		}
		f := FromSpans(spans, 0)

		assert.Equal(t, "golden retriever", f.Breed)
		assert.Empty(t, f.Colors)
	})

	t.Run("breed beats color on length tie", func(t *testing.T) {
		spans := []ner.Span{
			{Label: "COLOR", Text: "sable", Start: 0, End: 5, Confidence: 0.9},
			{Label: "BREED", Text: "sable", Start: 0, End: 5, Confidence: 0.9},
		}
		f := FromSpans(spans, 0)

		assert.Equal(t, "sable", f.Breed)
		assert.Empty(t, f.Colors)
	})

	t.Run("low confidence spans dropped", func(t *testing.T) {
		spans := []ner.Span{
			{Label: "STATE", Text: "johor", Start: 10, End: 15, Confidence: 0.2},
		}
		assert.True(t, FromSpans(spans, 0).IsEmpty())
	})

	t.Run("configured threshold overrides the default", func(t *testing.T) {
		spans := []ner.Span{
			{Label: "STATE", Text: "johor", Start: 10, End: 15, Confidence: 0.4},
		}
		assert.True(t, FromSpans(spans, 0).IsEmpty())
		assert.Equal(t, "johor", FromSpans(spans, 0.3).State)
	})

	t.Run("bio prefixes and labels normalize", func(t *testing.T) {
		spans := []ner.Span{
			{Label: "B-GENDER", Text: "F", Start: 0, End: 1, Confidence: 0.9},
			{Label: "PET_TYPE", Text: "cat", Start: 2, End: 5, Confidence: 0.9},
		}
		f := FromSpans(spans, 0)

		assert.Equal(t, "female", f.Gender)
		assert.Equal(t, "cat", f.Animal)
	})
}

func TestMerge(t *testing.T) {
	model := FacetSet{Breed: "poodle", Colors: []string{"white"}}
	rules := FacetSet{Animal: "dog", Gender: "female", Colors: []string{"black"},
		Soft: SoftPrefs{Vaccinated: true}}

	out := Merge(model, rules)

	assert.Equal(t, "poodle", out.Breed)        // model value kept
	assert.Equal(t, "dog", out.Animal)          // rule fills the gap
	assert.Equal(t, "female", out.Gender)
	assert.Equal(t, []string{"black", "white"}, out.Colors) // union
	assert.True(t, out.Soft.Vaccinated)
}

func TestResolver(t *testing.T) {
	catalog := pet.NewCatalog([]*pet.Record{
		{Animal: "dog", Breed: "golden retriever"},
		{Animal: "dog", Breed: "toy poodle"},
		{Animal: "cat", Breed: "ragdoll"},
	})
	r := NewResolver(catalog, TokenSortRatio{}, nil)

	t.Run("exact match", func(t *testing.T) {
		f := r.Resolve(FacetSet{Breed: "ragdoll"})
		assert.Equal(t, "ragdoll", f.Breed)
		assert.Equal(t, "cat", f.Animal) // inferred
	})

	t.Run("alias match", func(t *testing.T) {
		f := r.Resolve(FacetSet{Breed: "gr"})
		assert.Equal(t, "golden retriever", f.Breed)
		assert.Equal(t, "dog", f.Animal)
	})

	t.Run("fuzzy word order", func(t *testing.T) {
		f := r.Resolve(FacetSet{Breed: "poodle toy"})
		assert.Equal(t, "toy poodle", f.Breed)
	})

	t.Run("below threshold drops breed", func(t *testing.T) {
		f := r.Resolve(FacetSet{Breed: "parrot"})
		assert.Empty(t, f.Breed)
		assert.Empty(t, f.Animal)
	})

	t.Run("explicit animal not overwritten", func(t *testing.T) {
		f := r.Resolve(FacetSet{Animal: "cat", Breed: "toy poodle"})
		assert.Equal(t, "cat", f.Animal)
	})
}

func TestTokenSortRatio(t *testing.T) {
	sim := TokenSortRatio{}

	assert.InDelta(t, 100.0, sim.Ratio("golden retriever", "retriever golden"), 1e-9)
	assert.Less(t, sim.Ratio("parrot", "toy poodle"), BreedMatchThreshold)
	assert.InDelta(t, 100.0, sim.Ratio("", ""), 1e-9)
}

// failingNER always errors, to exercise the rule-parser fallback.
type failingNER struct{}

func (failingNER) Extract(context.Context, string) ([]ner.Span, error) {
	return nil, errors.New("service down")
}
func (failingNER) Available(context.Context) bool { return false }
func (failingNER) Close() error                   { return nil }

func TestExtractorFallsBackToRules(t *testing.T) {
	e := NewExtractor(failingNER{}, nil, 0, nil)

	f := e.Extract(context.Background(), "female cat in johor")

	assert.Equal(t, "cat", f.Animal)
	assert.Equal(t, "female", f.Gender)
	assert.Equal(t, "johor", f.State)
}
