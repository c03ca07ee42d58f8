package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawmatch/pawmatch/internal/pet"
)

func prevFacets() FacetSet {
	fee := 200.0
	return FacetSet{
		Animal: "dog",
		Breed:  "poodle",
		Gender: "female",
		State:  "johor",
		Colors: []string{"white"},
		Soft: SoftPrefs{
			Vaccinated: true,
			LowFee:     true,
			FeeCap:     &fee,
			AgeGroups:  []pet.AgeGroup{pet.AgeYoung},
		},
	}
}

func TestApplyRemovals(t *testing.T) {
	t.Run("remove state", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "remove state")

		assert.Empty(t, out.Facets.State)
		assert.True(t, out.Keys.Has(KeyState))
		assert.False(t, out.ClearedAll)
		assert.Equal(t, "poodle", out.Facets.Breed) // untouched
	})

	t.Run("remove state by name", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "remove johor")
		assert.Empty(t, out.Facets.State)
		assert.True(t, out.Keys.Has(KeyState))
	})

	t.Run("remove state by wrong name is a no-op", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "remove selangor")
		assert.Equal(t, "johor", out.Facets.State)
	})

	t.Run("value qualified breed removal", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "remove breed poodle")
		assert.Empty(t, out.Facets.Breed)

		out = ApplyRemovals(prevFacets(), "remove breed husky")
		assert.Equal(t, "poodle", out.Facets.Breed)
	})

	t.Run("soft removals", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "remove vaccinated and remove fee")

		assert.False(t, out.Facets.Soft.Vaccinated)
		assert.Nil(t, out.Facets.Soft.FeeCap)
		assert.False(t, out.Facets.Soft.LowFee)
		assert.True(t, out.Keys.Has(KeySoft))
		assert.Equal(t, []pet.AgeGroup{pet.AgeYoung}, out.Facets.Soft.AgeGroups)
	})

	t.Run("remove age", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "clear age")
		assert.Empty(t, out.Facets.Soft.AgeGroups)
	})

	t.Run("reset clears everything and blocks all keys", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "reset")

		assert.True(t, out.ClearedAll)
		assert.True(t, out.Facets.IsEmpty())
		for _, k := range AllKeys {
			assert.True(t, out.Keys.Has(k), "key %s should block", k)
		}
	})

	t.Run("clear all phrasing", func(t *testing.T) {
		out := ApplyRemovals(prevFacets(), "clear all filters please")
		assert.True(t, out.ClearedAll)
	})
}

func TestIsRemovalQuery(t *testing.T) {
	assert.True(t, IsRemovalQuery("please remove state"))
	assert.True(t, IsRemovalQuery("reset"))
	assert.False(t, IsRemovalQuery("a removed-looking dog")) // no bare keyword
	assert.False(t, IsRemovalQuery("female poodle in johor"))
}

func TestExplicitKeys(t *testing.T) {
	t.Run("detects mentioned facet types", func(t *testing.T) {
		keys := ExplicitKeys("a small white female dog in penang, vaccinated")

		assert.True(t, keys.Has(KeyAnimal))
		assert.True(t, keys.Has(KeyGender))
		assert.True(t, keys.Has(KeyState))
		assert.True(t, keys.Has(KeyColor))
		assert.True(t, keys.Has(KeySize))
		assert.True(t, keys.Has(KeySoft))
		assert.False(t, keys.Has(KeyBreed))
		assert.False(t, keys.Has(KeyFurLength))
	})

	t.Run("breed words count as explicit breed", func(t *testing.T) {
		assert.True(t, ExplicitKeys("a ragdoll please").Has(KeyBreed))
		assert.True(t, ExplicitKeys("any breed is fine").Has(KeyBreed))
	})

	t.Run("unrelated text yields nothing", func(t *testing.T) {
		assert.Empty(t, ExplicitKeys("hello there"))
	})
}
