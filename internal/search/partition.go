package search

import (
	"sort"

	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/pet"
)

// DefaultTopK is how many result cards a reply carries.
const DefaultTopK = 6

// Rank orders scored candidates with exact matches partitioned ahead
// of close matches, each partition sorted by score descending, then
// truncates to topK. Ties keep the candidates' table order: the sort
// is stable and compares nothing beyond the exact flag and the score.
func Rank(candidates []*pet.Record, scores map[string]float64, f facet.FacetSet, topK int) []Scored {
	if topK <= 0 {
		topK = DefaultTopK
	}

	scored := make([]Scored, 0, len(candidates))
	for _, r := range candidates {
		scored = append(scored, Scored{
			Record: r,
			Score:  scores[r.DocID()] + FeatureBonus(r, f.Soft),
			Exact:  IsExactMatch(r, f),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Exact != scored[j].Exact {
			return scored[i].Exact
		}
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
