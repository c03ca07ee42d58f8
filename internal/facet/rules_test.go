package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmatch/pawmatch/internal/pet"
)

func TestParseText(t *testing.T) {
	t.Run("full query", func(t *testing.T) {
		f := ParseText("female young poodle in Selangor, vaccinated, fee under 200")

		assert.Equal(t, "female", f.Gender)
		assert.Equal(t, "selangor", f.State)
		assert.True(t, f.Soft.Vaccinated)
		require.NotNil(t, f.Soft.FeeCap)
		assert.InDelta(t, 200.0, *f.Soft.FeeCap, 1e-9)
		assert.Equal(t, []pet.AgeGroup{pet.AgeYoung}, f.Soft.AgeGroups)
	})

	t.Run("animal keywords", func(t *testing.T) {
		assert.Equal(t, "dog", ParseText("looking for a puppy").Animal)
		assert.Equal(t, "cat", ParseText("any kittens available?").Animal)
	})

	t.Run("male does not match female", func(t *testing.T) {
		assert.Equal(t, "male", ParseText("a male dog").Gender)
		assert.Equal(t, "female", ParseText("a female dog").Gender)
	})

	t.Run("state alias folds", func(t *testing.T) {
		assert.Equal(t, "kuala lumpur", ParseText("cats in KL").State)
		assert.Equal(t, "penang", ParseText("dog in pulau pinang").State)
	})

	t.Run("color synonyms fold and union", func(t *testing.T) {
		f := ParseText("a golden or grey cat")
		assert.Equal(t, []string{"gray", "yellow"}, f.Colors)
	})

	t.Run("size and fur", func(t *testing.T) {
		f := ParseText("small dog with long fur")
		assert.Equal(t, "small", f.Size)
		assert.Equal(t, "long", f.FurLength)
	})

	t.Run("empty input yields empty set", func(t *testing.T) {
		assert.True(t, ParseText("").IsEmpty())
		assert.True(t, ParseText("   ").IsEmpty())
	})
}

func TestParseAgeGroups(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []pet.AgeGroup
	}{
		{"bucket keyword", "a puppy please", []pet.AgeGroup{pet.AgePuppyKitten}},
		{"under one year", "under 1 year", []pet.AgeGroup{pet.AgePuppyKitten}},
		{"under three years", "less than 3 years", []pet.AgeGroup{pet.AgePuppyKitten, pet.AgeYoung}},
		{"over three years", "more than 3 years old", []pet.AgeGroup{pet.AgeAdult, pet.AgeSenior}},
		{"at least seven years", "at least 7 years", []pet.AgeGroup{pet.AgeSenior}},
		{"exact age maps to bucket", "2 years old", []pet.AgeGroup{pet.AgeYoung}},
		{"exact months", "8 months", []pet.AgeGroup{pet.AgePuppyKitten}},
		{"no age", "a brown dog", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAgeGroups(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestParseSoftPrefs(t *testing.T) {
	p := ParseSoftPrefs("dewormed and neutered, healthy, adoption fee under 150")

	assert.True(t, p.Dewormed)
	assert.True(t, p.Neutered)
	assert.True(t, p.Healthy)
	assert.True(t, p.LowFee)
	require.NotNil(t, p.FeeCap)
	assert.InDelta(t, 150.0, *p.FeeCap, 1e-9)

	assert.True(t, ParseSoftPrefs("just a dog").IsZero())
}
