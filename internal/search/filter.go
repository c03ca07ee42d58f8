// Package search implements hybrid retrieval over the pet catalog:
// hard facet filtering with progressive relaxation, BM25 plus dense
// scoring, soft-preference bonuses, and exact-match-first ranking.
package search

import (
	"fmt"
	"log/slog"

	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/pet"
)

// Relaxation step tags, in ladder order. Gender and animal type are
// never relaxed; color loosens first, then age group, then the state
// facet. Relaxation is cumulative: a facet dropped at one rung stays
// dropped at every later rung, so successive pools only grow.
const (
	StepStrictAll  = "strict_all"
	StepRelaxColor = "relax_color"
	StepRelaxAge   = "relax_age"
	StepNoState    = "no_state"
)

// ErrNoHardHits reports that no pets survived even the loosest
// relaxation step.
type ErrNoHardHits struct {
	Facets facet.FacetSet
}

func (e ErrNoHardHits) Error() string {
	return fmt.Sprintf("no pets match the hard constraints %s", e.Facets.ActiveKeys())
}

// FilterResult is the candidate pool from the relaxation ladder.
type FilterResult struct {
	// Records are the pets that passed the chosen step.
	Records []*pet.Record

	// Step is the tag of the step that produced the pool.
	Step string

	// StrictInState reports whether state matching was still strict
	// (exact state) at the chosen step.
	StrictInState bool

	// Relaxed is true when any constraint was loosened.
	Relaxed bool
}

// relaxStep is one rung of the ladder.
type relaxStep struct {
	tag       string
	withState bool
	withColor bool
	withAge   bool
}

// ladder returns the relaxation sequence for the facet set: color
// drops first, then age group, then state. Animal, breed, and gender
// are never relaxed, and a dropped facet never comes back on a later
// rung. State-less queries simply skip the final rung.
func ladder(f facet.FacetSet) []relaxStep {
	if f.State == "" {
		return []relaxStep{
			{StepStrictAll, false, true, true},
			{StepRelaxColor, false, false, true},
			{StepRelaxAge, false, false, false},
		}
	}
	return []relaxStep{
		{StepStrictAll, true, true, true},
		{StepRelaxColor, true, false, true},
		{StepRelaxAge, true, false, false},
		{StepNoState, false, false, false},
	}
}

// stepPredicates builds the hard predicates for one ladder step.
func stepPredicates(f facet.FacetSet, step relaxStep) []pet.Predicate {
	var preds []pet.Predicate

	if f.Animal != "" {
		preds = append(preds, pet.AnimalIs(f.Animal))
	}
	if f.Breed != "" {
		preds = append(preds, pet.BreedContains(f.Breed))
	}
	if f.Gender != "" {
		preds = append(preds, pet.GenderIs(f.Gender))
	}
	if step.withState && f.State != "" {
		preds = append(preds, pet.StateIs(f.State))
	}
	if step.withColor && len(f.Colors) > 0 {
		preds = append(preds, pet.ColorHasAny(f.Colors))
	}
	if step.withAge && len(f.Soft.AgeGroups) > 0 {
		preds = append(preds, pet.InAgeGroups(f.Soft.AgeGroups))
	}
	return preds
}

// Filter walks the relaxation ladder and returns the first pool with
// at least floor candidates. A smaller non-empty pool from the final
// step is still returned; only a completely empty catalog-wide result
// yields ErrNoHardHits.
func Filter(table *pet.Table, f facet.FacetSet, floor int, logger *slog.Logger) (*FilterResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if floor <= 0 {
		floor = 1
	}

	steps := ladder(f)
	var last *FilterResult

	for _, step := range steps {
		records := table.Filter(stepPredicates(f, step)...)
		result := &FilterResult{
			Records:       records,
			Step:          step.tag,
			StrictInState: step.withState && f.State != "",
			Relaxed:       step.tag != steps[0].tag,
		}
		if len(records) >= floor {
			if result.Relaxed {
				logger.Debug("constraints relaxed",
					"step", step.tag, "pool", len(records))
			}
			return result, nil
		}
		last = result
	}

	if last != nil && len(last.Records) > 0 {
		logger.Debug("pool below floor at loosest step",
			"step", last.Step, "pool", len(last.Records))
		return last, nil
	}
	return nil, ErrNoHardHits{Facets: f}
}
