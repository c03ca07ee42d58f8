package facet

import (
	"log/slog"
	"strings"

	"github.com/pawmatch/pawmatch/internal/pet"
)

// BreedMatchThreshold is the strict similarity score a fuzzy breed
// match must reach; below it the breed facet is dropped rather than
// guessed.
const BreedMatchThreshold = 95.0

// breedAliases folds shorthand breed names onto catalog candidates.
var breedAliases = map[string][]string{
	"husky": {"siberian husky", "alaskan husky"},
	"gsd":   {"german shepherd", "german shepherd dog"},
	"gr":    {"golden retriever"},
	"grd":   {"golden retriever"},
}

// Resolver maps raw extracted facet values onto the inventory's
// controlled vocabularies: breed against the catalog (exact, alias,
// then fuzzy), with animal inferred from a resolved breed.
type Resolver struct {
	catalog *pet.Catalog
	sim     Similarity
	logger  *slog.Logger
}

// NewResolver creates a resolver over the inventory catalog.
func NewResolver(catalog *pet.Catalog, sim Similarity, logger *slog.Logger) *Resolver {
	if sim == nil {
		sim = TokenSortRatio{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, sim: sim, logger: logger}
}

// Resolve normalizes the facet set against the catalog. An
// unresolvable breed is dropped (logged), never guessed; a resolved
// breed fills an unset animal from the breed-to-animal lookup.
func (r *Resolver) Resolve(f FacetSet) FacetSet {
	if f.Breed != "" {
		resolved := r.resolveBreed(f.Breed)
		if resolved == "" {
			r.logger.Debug("breed below match threshold, dropping",
				"breed", f.Breed)
		}
		f.Breed = resolved
	}
	if f.Breed != "" && f.Animal == "" {
		if animal := r.catalog.AnimalFor(f.Breed); animal != "" {
			f.Animal = animal
		}
	}
	return f
}

func (r *Resolver) resolveBreed(raw string) string {
	b := strings.TrimRight(normToken(raw), ",.;:")
	if b == "" {
		return ""
	}
	if r.catalog.Contains(b) {
		return b
	}
	for _, cand := range breedAliases[b] {
		if r.catalog.Contains(cand) {
			return cand
		}
	}

	best, bestScore := "", 0.0
	for _, cand := range r.catalog.Breeds() {
		if score := r.sim.Ratio(b, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore >= BreedMatchThreshold {
		return best
	}
	return ""
}
