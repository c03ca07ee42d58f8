package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/pet"
)

// testRecords is a small catalog exercising every facet dimension.
func testRecords() []*pet.Record {
	return []*pet.Record{
		{ID: 1, Name: "Milo", Animal: "dog", Breed: "poodle", Gender: "female",
			State: "johor", Color: "white", Colors: []string{"white"},
			AgeMonths: 24, HasAge: true, AdoptionFee: 100, HasFee: true,
			Vaccinated: pet.TriTrue, Dewormed: pet.TriTrue, Condition: "healthy",
			Description: "sweet white toy poodle, loves cuddles"},
		{ID: 2, Name: "Luna", Animal: "dog", Breed: "poodle", Gender: "female",
			State: "johor", Color: "brown", Colors: []string{"brown"},
			AgeMonths: 60, HasAge: true, AdoptionFee: 50, HasFee: true,
			Vaccinated: pet.TriFalse, Condition: "good",
			Description: "calm brown poodle, good with kids"},
		{ID: 3, Name: "Max", Animal: "dog", Breed: "golden retriever", Gender: "male",
			State: "selangor", Color: "yellow", Colors: []string{"yellow"},
			AgeMonths: 12, HasAge: true, Vaccinated: pet.TriTrue,
			Description: "energetic golden retriever"},
		{ID: 4, Name: "Nala", Animal: "dog", Breed: "siberian husky", Gender: "female",
			State: "selangor", Color: "gray", Colors: []string{"gray"},
			AgeMonths: 6, HasAge: true, Spayed: pet.TriTrue,
			Description: "husky puppy with blue eyes"},
		{ID: 5, Name: "Mochi", Animal: "cat", Breed: "ragdoll", Gender: "female",
			State: "penang", Color: "white", Colors: []string{"white"},
			AgeMonths: 10, HasAge: true,
			Description: "fluffy ragdoll kitten"},
		{ID: 6, Name: "Smokey", Animal: "cat", Breed: "persian", Gender: "male",
			State: "penang", Color: "gray", Colors: []string{"gray"},
			AgeMonths: 48, HasAge: true, Neutered: pet.TriTrue,
			Description: "quiet persian, indoor only"},
		{ID: 7, Name: "Daisy", Animal: "dog", Breed: "beagle", Gender: "female",
			State: "johor", Color: "brown", Colors: []string{"brown"},
			AgeMonths: 90, HasAge: true,
			Description: "gentle senior beagle"},
		{ID: 8, Name: "Rocky", Animal: "dog", Breed: "poodle", Gender: "male",
			State: "johor", Color: "white", Colors: []string{"white"},
			AgeMonths: 30, HasAge: true,
			Description: "playful white poodle"},
		{ID: 9, Name: "Cleo", Animal: "cat", Breed: "siamese", Gender: "female",
			State: "johor", Color: "white", Colors: []string{"white"},
			AgeMonths: 14, HasAge: true, Vaccinated: pet.TriTrue,
			Description: "chatty siamese"},
		{ID: 10, Name: "Bella", Animal: "dog", Breed: "mixed breed", Gender: "female",
			State: "penang", Color: "black", Colors: []string{"black"},
			AgeMonths: 40, HasAge: true, AdoptionFee: 20, HasFee: true,
			Description: "loyal mixed breed"},
	}
}

func testTable() *pet.Table {
	return pet.NewTable(testRecords())
}

func recordIDs(records []*pet.Record) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFilterStrictAll(t *testing.T) {
	f := facet.FacetSet{Animal: "dog", Gender: "female", State: "johor"}

	result, err := Filter(testTable(), f, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, StepStrictAll, result.Step)
	assert.True(t, result.StrictInState)
	assert.False(t, result.Relaxed)
	assert.Equal(t, []int{1, 2, 7}, recordIDs(result.Records))
}

func TestFilterRelaxesStateLast(t *testing.T) {
	// Only one dog in penang; floor 6 forces the state facet to drop.
	f := facet.FacetSet{Animal: "dog", State: "penang"}

	result, err := Filter(testTable(), f, 6, nil)
	require.NoError(t, err)

	assert.Equal(t, StepNoState, result.Step)
	assert.False(t, result.StrictInState)
	assert.True(t, result.Relaxed)
	assert.Len(t, result.Records, 7) // every dog in the catalog
}

func TestFilterGenderNeverRelaxed(t *testing.T) {
	f := facet.FacetSet{Animal: "dog", Gender: "female", State: "penang"}

	result, err := Filter(testTable(), f, 6, nil)
	require.NoError(t, err)

	for _, r := range result.Records {
		assert.Equal(t, "female", r.Gender)
	}
}

func TestFilterColorRelaxesBeforeAge(t *testing.T) {
	// No gray dogs in johor. Dropping color alone finds johor dogs in
	// the young group, so age survives the relaxation.
	f := facet.FacetSet{
		Animal: "dog", State: "johor", Colors: []string{"gray"},
		Soft: facet.SoftPrefs{AgeGroups: []pet.AgeGroup{pet.AgeYoung}},
	}

	result, err := Filter(testTable(), f, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, StepRelaxColor, result.Step)
	assert.True(t, result.StrictInState)
	assert.Equal(t, []int{1, 8}, recordIDs(result.Records))
}

func TestFilterBelowFloorStillReturns(t *testing.T) {
	// Only two poodle females exist anywhere; a floor of 6 cannot be
	// met but the loosest rung still returns them.
	f := facet.FacetSet{Animal: "dog", Breed: "poodle", Gender: "female", State: "johor"}

	result, err := Filter(testTable(), f, 6, nil)
	require.NoError(t, err)

	assert.Equal(t, StepNoState, result.Step)
	assert.Equal(t, []int{1, 2}, recordIDs(result.Records))
}

func TestFilterPoolsGrowDownTheLadder(t *testing.T) {
	// Dropping a facet never re-tightens another one, so each rung's
	// pool must contain the previous rung's pool in full.
	table := testTable()
	f := facet.FacetSet{
		Animal: "dog", State: "johor", Colors: []string{"white"},
		Soft: facet.SoftPrefs{AgeGroups: []pet.AgeGroup{pet.AgeYoung}},
	}

	var prev map[int]bool
	for _, step := range ladder(f) {
		records := table.Filter(stepPredicates(f, step)...)
		pool := make(map[int]bool, len(records))
		for _, r := range records {
			pool[r.ID] = true
		}
		for id := range prev {
			assert.True(t, pool[id], "step %s lost record %d", step.tag, id)
		}
		prev = pool
	}
}

func TestFilterStateDropKeepsInStateCandidates(t *testing.T) {
	// Two selangor dogs match everything but the color; four johor
	// dogs match the color but not the state. When the floor forces
	// the state facet to drop, the selangor dogs must still be in the
	// pool, not evicted by a resurrected color constraint.
	records := []*pet.Record{
		{ID: 1, Name: "Coco", Animal: "dog", State: "selangor",
			Color: "brown", Colors: []string{"brown"}},
		{ID: 2, Name: "Biscuit", Animal: "dog", State: "selangor",
			Color: "brown", Colors: []string{"brown"}},
		{ID: 3, Name: "Shadow", Animal: "dog", State: "johor",
			Color: "black", Colors: []string{"black"}},
		{ID: 4, Name: "Onyx", Animal: "dog", State: "johor",
			Color: "black", Colors: []string{"black"}},
		{ID: 5, Name: "Pepper", Animal: "dog", State: "johor",
			Color: "black", Colors: []string{"black"}},
		{ID: 6, Name: "Jet", Animal: "dog", State: "johor",
			Color: "black", Colors: []string{"black"}},
	}
	f := facet.FacetSet{Animal: "dog", State: "selangor", Colors: []string{"black"}}

	result, err := Filter(pet.NewTable(records), f, 4, nil)
	require.NoError(t, err)

	assert.Equal(t, StepNoState, result.Step)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, recordIDs(result.Records))
}

func TestFilterNoHardHits(t *testing.T) {
	f := facet.FacetSet{Animal: "cat", Breed: "siberian husky"}

	_, err := Filter(testTable(), f, 6, nil)

	var noHits ErrNoHardHits
	require.ErrorAs(t, err, &noHits)
	assert.Contains(t, noHits.Error(), "no pets match")
}

func TestFilterStatelessQueryKeepsInStateTags(t *testing.T) {
	f := facet.FacetSet{Animal: "cat"}

	result, err := Filter(testTable(), f, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, StepStrictAll, result.Step)
	assert.False(t, result.StrictInState)
	assert.Equal(t, []int{5, 6, 9}, recordIDs(result.Records))
}
