// Package facet turns free-text pet queries into a structured facet
// set: a named-entity pass merged with a deterministic rule parser,
// breed resolution against the inventory catalog, and the removal
// syntax used by the session layer.
package facet

import (
	"sort"
	"strings"

	"github.com/pawmatch/pawmatch/internal/pet"
)

// Key names one facet slot. The session layer blocks and unblocks
// facets by key.
type Key string

const (
	KeyAnimal    Key = "animal"
	KeyBreed     Key = "breed"
	KeyGender    Key = "gender"
	KeyState     Key = "state"
	KeyColor     Key = "color"
	KeySize      Key = "size"
	KeyFurLength Key = "fur_length"
	KeySoft      Key = "soft"
)

// AllKeys lists every facet key.
var AllKeys = []Key{KeyAnimal, KeyBreed, KeyGender, KeyState, KeyColor, KeySize, KeyFurLength, KeySoft}

// KeySet is a set of facet keys.
type KeySet map[Key]struct{}

// NewKeySet builds a set from keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s KeySet) Has(k Key) bool { _, ok := s[k]; return ok }

// Add inserts a key.
func (s KeySet) Add(k Key) { s[k] = struct{}{} }

// Remove deletes a key.
func (s KeySet) Remove(k Key) { delete(s, k) }

// Union merges another set in place.
func (s KeySet) Union(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Clone returns a copy.
func (s KeySet) Clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Keys returns the members in stable order.
func (s KeySet) Keys() []Key {
	out := make([]Key, 0, len(s))
	for _, k := range AllKeys {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// SoftPrefs are the soft preferences derived from the utterance. They
// influence filtering only via the relaxation ladder (age) and
// otherwise contribute to scoring and highlighting.
type SoftPrefs struct {
	Vaccinated bool           `json:"prefer_vaccinated,omitempty"`
	Dewormed   bool           `json:"prefer_dewormed,omitempty"`
	Neutered   bool           `json:"prefer_neutered,omitempty"`
	Spayed     bool           `json:"prefer_spayed,omitempty"`
	Healthy    bool           `json:"prefer_healthy,omitempty"`
	LowFee     bool           `json:"prefer_low_fee,omitempty"`
	FeeCap     *float64       `json:"fee_cap,omitempty"`
	AgeGroups  []pet.AgeGroup `json:"age_groups,omitempty"`
}

// IsZero reports whether no soft preference is set.
func (s SoftPrefs) IsZero() bool {
	return !s.Vaccinated && !s.Dewormed && !s.Neutered && !s.Spayed &&
		!s.Healthy && !s.LowFee && s.FeeCap == nil && len(s.AgeGroups) == 0
}

// WantsFee reports whether a fee constraint is active.
func (s SoftPrefs) WantsFee() bool { return s.LowFee || s.FeeCap != nil }

// EffectiveFeeCap returns the cap to score against. A low-fee wish
// without an explicit number uses a default ceiling.
func (s SoftPrefs) EffectiveFeeCap() float64 {
	if s.FeeCap != nil {
		return *s.FeeCap
	}
	return DefaultFeeCap
}

// DefaultFeeCap is the ceiling assumed when the user asks for a low
// fee without naming a number.
const DefaultFeeCap = 300.0

// FacetSet is the structured interpretation of one or more user turns.
// Empty string / nil fields mean "no constraint"; an entirely empty
// set must yield the full pool (or a random sample), never nothing.
type FacetSet struct {
	Animal    string    `json:"animal,omitempty"`
	Breed     string    `json:"breed,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	State     string    `json:"state,omitempty"`
	Colors    []string  `json:"colors,omitempty"`
	Size      string    `json:"size,omitempty"`
	FurLength string    `json:"fur_length,omitempty"`
	Soft      SoftPrefs `json:"soft,omitempty"`
}

// IsEmpty reports whether the set carries no constraint at all.
func (f FacetSet) IsEmpty() bool {
	return f.Animal == "" && f.Breed == "" && f.Gender == "" && f.State == "" &&
		len(f.Colors) == 0 && f.Size == "" && f.FurLength == "" && f.Soft.IsZero()
}

// HasKey reports whether the slot named by key is populated.
func (f FacetSet) HasKey(k Key) bool {
	switch k {
	case KeyAnimal:
		return f.Animal != ""
	case KeyBreed:
		return f.Breed != ""
	case KeyGender:
		return f.Gender != ""
	case KeyState:
		return f.State != ""
	case KeyColor:
		return len(f.Colors) > 0
	case KeySize:
		return f.Size != ""
	case KeyFurLength:
		return f.FurLength != ""
	case KeySoft:
		return !f.Soft.IsZero()
	}
	return false
}

// Clear empties the slot named by key.
func (f *FacetSet) Clear(k Key) {
	switch k {
	case KeyAnimal:
		f.Animal = ""
	case KeyBreed:
		f.Breed = ""
	case KeyGender:
		f.Gender = ""
	case KeyState:
		f.State = ""
	case KeyColor:
		f.Colors = nil
	case KeySize:
		f.Size = ""
	case KeyFurLength:
		f.FurLength = ""
	case KeySoft:
		f.Soft = SoftPrefs{}
	}
}

// ActiveKeys returns the populated keys in stable order.
func (f FacetSet) ActiveKeys() []Key {
	var out []Key
	for _, k := range AllKeys {
		if f.HasKey(k) {
			out = append(out, k)
		}
	}
	return out
}

// Terms returns the facet values as lexical boost terms, hard facets
// first, in a stable order.
func (f FacetSet) Terms() []string {
	var out []string
	for _, v := range []string{f.Animal, f.Breed, f.Gender} {
		if v != "" {
			out = append(out, v)
		}
	}
	out = append(out, f.Colors...)
	for _, v := range []string{f.Size, f.FurLength, f.State} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// normalizeColors folds synonyms, drops non-vocabulary tokens, dedups
// and sorts.
func normalizeColors(colors []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range colors {
		n := NormalizeColor(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func normToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
