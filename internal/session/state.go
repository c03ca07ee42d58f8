// Package session carries facet state across conversational turns.
// Each session holds the accepted facet set and the set of blocked
// facet keys the user explicitly removed; the merge rules here decide
// how a new turn's extraction lands on that state.
package session

import (
	"time"

	"github.com/pawmatch/pawmatch/internal/facet"
)

// State is the per-conversation mutable state. Sessions are isolated
// by ID; requests within one session are sequential.
type State struct {
	// ID is the session identifier supplied by the caller.
	ID string `json:"id"`

	// Facets is the currently accepted facet set.
	Facets facet.FacetSet `json:"facets"`

	// Blocked holds facet keys the user explicitly removed. A blocked
	// key is never repopulated from model output; it unblocks only
	// when the user explicitly re-mentions that facet type.
	Blocked facet.KeySet `json:"blocked"`

	// Turns counts utterances applied to this session.
	Turns int `json:"turns"`

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time `json:"created_at"`

	// LastUsed is when the session last handled a turn.
	LastUsed time.Time `json:"last_used"`
}

// NewState creates a fresh session.
func NewState(id string) *State {
	now := time.Now()
	return &State{
		ID:        id,
		Blocked:   facet.NewKeySet(),
		CreatedAt: now,
		LastUsed:  now,
	}
}

// Reset returns the session to a blank slate, dropping facets and
// blocked keys alike.
func (s *State) Reset() {
	s.Facets = facet.FacetSet{}
	s.Blocked = facet.NewKeySet()
}

// MergeTurn folds a new turn's extracted facets into the session
// under the override rules:
//
//   - removal phrases in the utterance clear their facets and block
//     their keys before anything else lands;
//   - keys explicitly mentioned this turn unblock;
//   - extracted values for blocked or non-explicit model-prone keys
//     are discarded;
//   - an animal change drops the persisted breed, a breed change
//     drops the persisted animal (breed wins when both change);
//   - remaining non-empty fields override field-by-field, soft
//     preferences merging per flag.
//
// Merging an empty extraction with no removal phrasing is a no-op.
func (s *State) MergeTurn(utterance string, extracted facet.FacetSet) facet.FacetSet {
	s.Turns++
	s.LastUsed = time.Now()

	explicit := facet.ExplicitKeys(utterance)
	removal := facet.ApplyRemovals(s.Facets, utterance)

	if removal.ClearedAll {
		s.Facets = facet.FacetSet{}
		s.Blocked = facet.NewKeySet(facet.AllKeys...)
	} else {
		s.Facets = removal.Facets
		s.Blocked.Union(removal.Keys)
	}

	// Explicit mention this turn unblocks the key. A value named in a
	// removal phrase ("remove selangor") is not a re-mention; the key
	// it blocks stays blocked.
	for k := range explicit {
		if removal.Keys.Has(k) {
			continue
		}
		s.Blocked.Remove(k)
	}

	// Blocked keys and keys removed this very turn accept no new
	// value; neither do hallucination-prone keys absent from the
	// utterance.
	for _, k := range facet.AllKeys {
		if s.Blocked.Has(k) || removal.Keys.Has(k) {
			extracted.Clear(k)
		}
	}
	if !explicit.Has(facet.KeyColor) {
		extracted.Clear(facet.KeyColor)
	}

	// Cascade reset: animal and breed are mutually exclusive changes.
	prev := s.Facets
	animalChanged := extracted.Animal != "" && explicit.Has(facet.KeyAnimal) &&
		prev.Animal != "" && prev.Animal != extracted.Animal
	breedChanged := extracted.Breed != "" && explicit.Has(facet.KeyBreed) &&
		prev.Breed != "" && prev.Breed != extracted.Breed

	merged := prev
	overrideFields(&merged, extracted)

	switch {
	case breedChanged:
		// Breed is more specific; let it re-infer the animal.
		if extracted.Animal == "" {
			merged.Animal = ""
		}
	case animalChanged:
		merged.Breed = ""
	}

	merged.Soft = mergeSoft(prev.Soft, extracted.Soft)
	s.Facets = merged
	return merged
}

// overrideFields applies field-level override: non-empty new values
// win, empty values leave the persisted value untouched.
func overrideFields(dst *facet.FacetSet, src facet.FacetSet) {
	if src.Animal != "" {
		dst.Animal = src.Animal
	}
	if src.Breed != "" {
		dst.Breed = src.Breed
	}
	if src.Gender != "" {
		dst.Gender = src.Gender
	}
	if src.State != "" {
		dst.State = src.State
	}
	if len(src.Colors) > 0 {
		dst.Colors = src.Colors
	}
	if src.Size != "" {
		dst.Size = src.Size
	}
	if src.FurLength != "" {
		dst.FurLength = src.FurLength
	}
}

// mergeSoft folds new soft preferences over the persisted ones. Only
// affirmative new values land; removal went through the blocked-key
// path already.
func mergeSoft(prev, next facet.SoftPrefs) facet.SoftPrefs {
	out := prev
	if next.Vaccinated {
		out.Vaccinated = true
	}
	if next.Dewormed {
		out.Dewormed = true
	}
	if next.Neutered {
		out.Neutered = true
	}
	if next.Spayed {
		out.Spayed = true
	}
	if next.Healthy {
		out.Healthy = true
	}
	if next.LowFee {
		out.LowFee = true
	}
	if next.FeeCap != nil {
		out.FeeCap = next.FeeCap
	}
	if len(next.AgeGroups) > 0 {
		out.AgeGroups = next.AgeGroups
	}
	return out
}
