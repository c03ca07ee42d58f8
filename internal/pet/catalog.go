package pet

import "sort"

// Catalog is the controlled vocabulary of breed values observed in the
// inventory, plus a breed to most-common-animal lookup used to infer
// the animal facet when only a breed was mentioned.
type Catalog struct {
	breeds      []string
	breedSet    map[string]bool
	breedAnimal map[string]string
}

// NewCatalog builds the catalog from the loaded records.
func NewCatalog(records []*Record) *Catalog {
	breedSet := make(map[string]bool)
	counts := make(map[string]map[string]int)
	for _, r := range records {
		if r.Breed == "" {
			continue
		}
		breedSet[r.Breed] = true
		if r.Animal == "" {
			continue
		}
		if counts[r.Breed] == nil {
			counts[r.Breed] = make(map[string]int)
		}
		counts[r.Breed][r.Animal]++
	}

	breeds := make([]string, 0, len(breedSet))
	for b := range breedSet {
		breeds = append(breeds, b)
	}
	sort.Strings(breeds)

	breedAnimal := make(map[string]string, len(counts))
	for breed, byAnimal := range counts {
		best, bestN := "", 0
		for animal, n := range byAnimal {
			if n > bestN || (n == bestN && animal < best) {
				best, bestN = animal, n
			}
		}
		breedAnimal[breed] = best
	}

	return &Catalog{breeds: breeds, breedSet: breedSet, breedAnimal: breedAnimal}
}

// Breeds returns the sorted breed vocabulary.
func (c *Catalog) Breeds() []string { return c.breeds }

// Contains reports whether the breed value occurs in the inventory.
func (c *Catalog) Contains(breed string) bool { return c.breedSet[breed] }

// AnimalFor returns the most common animal kind for a breed, or ""
// when the breed is unknown.
func (c *Catalog) AnimalFor(breed string) string { return c.breedAnimal[breed] }
