package facet

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reRemovalWord = regexp.MustCompile(`\b(remove|clear|reset)\b`)
	reClearAll    = regexp.MustCompile(`\b(clear|remove)\s+(all|everything|constraints|filters|facets)\b|\breset\b`)

	reRemoveState  = regexp.MustCompile(`\b(remove|clear)\s+(state|location)\b`)
	reRemoveAnimal = regexp.MustCompile(`\b(remove|clear)\s+animal\b`)
	reRemoveBreed  = regexp.MustCompile(`\b(remove|clear)\s+breed\b`)
	reRemoveBreedV = regexp.MustCompile(`\bremove\s+breed\s+([a-z ]+)\b`)
	reRemoveGender = regexp.MustCompile(`\b(remove|clear)\s+gender\b`)
	reRemoveGenderV = regexp.MustCompile(`\bremove\s+gender\s+(male|female)\b`)
	reRemoveColor  = regexp.MustCompile(`\b(remove|clear)\s+colou?r\b`)
	reRemoveColorV = regexp.MustCompile(`\bremove\s+colou?r\s+([a-z -]+)\b`)
	reRemoveSize   = regexp.MustCompile(`\b(remove|clear)\s+size\b`)
	reRemoveFur    = regexp.MustCompile(`\b(remove|clear)\s+(fur|fur\s*length|furlength)\b`)
	reRemoveAge    = regexp.MustCompile(`\b(remove|clear)\s+age\b`)
	reRemoveFee    = regexp.MustCompile(`\b(remove|clear)\s+fee\b`)
)

// softRemovalLabels maps a removable soft preference word to its
// accessor and the mutation that clears it.
var softRemovalLabels = []struct {
	label string
	get   func(SoftPrefs) bool
	clear func(*SoftPrefs)
}{
	{"vaccinated", func(s SoftPrefs) bool { return s.Vaccinated }, func(s *SoftPrefs) { s.Vaccinated = false }},
	{"dewormed", func(s SoftPrefs) bool { return s.Dewormed }, func(s *SoftPrefs) { s.Dewormed = false }},
	{"neutered", func(s SoftPrefs) bool { return s.Neutered }, func(s *SoftPrefs) { s.Neutered = false }},
	{"spayed", func(s SoftPrefs) bool { return s.Spayed }, func(s *SoftPrefs) { s.Spayed = false }},
	{"healthy", func(s SoftPrefs) bool { return s.Healthy }, func(s *SoftPrefs) { s.Healthy = false }},
}

// IsRemovalQuery reports whether the utterance carries removal intent.
func IsRemovalQuery(text string) bool {
	return reRemovalWord.MatchString(strings.ToLower(text))
}

// Removal is the outcome of parsing a removal utterance.
type Removal struct {
	// Facets is the prior facet set with the removed slots cleared.
	Facets FacetSet
	// Removed describes each removal in "key: value" form, for the
	// user-facing reply.
	Removed []string
	// ClearedAll is set by "reset" / "clear all" phrasing.
	ClearedAll bool
	// Keys are the facet keys that were removed (and should block).
	Keys KeySet
}

// ApplyRemovals parses removal phrases against the prior facet set:
// bare "remove <facet>" forms, value-qualified forms ("remove breed
// poodle", "remove selangor"), soft-preference removals, and the
// global reset.
func ApplyRemovals(prev FacetSet, text string) Removal {
	t := strings.ToLower(strings.TrimSpace(text))
	out := Removal{Facets: prev, Keys: NewKeySet()}

	if reClearAll.MatchString(t) {
		return Removal{
			Facets:     FacetSet{},
			Removed:    []string{"all constraints"},
			ClearedAll: true,
			Keys:       NewKeySet(AllKeys...),
		}
	}

	remove := func(k Key, value string) {
		out.Removed = append(out.Removed, fmt.Sprintf("%s: %s", k, value))
		out.Facets.Clear(k)
		out.Keys.Add(k)
	}

	if prev.State != "" {
		if reRemoveState.MatchString(t) {
			remove(KeyState, prev.State)
		} else if stateRemovalByName(t, prev.State) {
			remove(KeyState, prev.State)
		}
	}
	if prev.Animal != "" && reRemoveAnimal.MatchString(t) {
		remove(KeyAnimal, prev.Animal)
	}
	if prev.Breed != "" {
		if reRemoveBreed.MatchString(t) {
			remove(KeyBreed, prev.Breed)
		} else if m := reRemoveBreedV.FindStringSubmatch(t); m != nil && strings.TrimSpace(m[1]) == prev.Breed {
			remove(KeyBreed, prev.Breed)
		}
	}
	if prev.Gender != "" {
		if reRemoveGender.MatchString(t) {
			remove(KeyGender, prev.Gender)
		} else if m := reRemoveGenderV.FindStringSubmatch(t); m != nil && m[1] == prev.Gender {
			remove(KeyGender, prev.Gender)
		}
	}
	if len(prev.Colors) > 0 {
		if reRemoveColor.MatchString(t) {
			remove(KeyColor, strings.Join(prev.Colors, ", "))
		} else if m := reRemoveColorV.FindStringSubmatch(t); m != nil {
			if c := NormalizeColor(strings.TrimSpace(m[1])); c != "" && containsString(prev.Colors, c) {
				remove(KeyColor, strings.Join(prev.Colors, ", "))
			}
		}
	}
	if prev.Size != "" && reRemoveSize.MatchString(t) {
		remove(KeySize, prev.Size)
	}
	if prev.FurLength != "" && reRemoveFur.MatchString(t) {
		remove(KeyFurLength, prev.FurLength)
	}

	soft := out.Facets.Soft
	softChanged := false
	if reRemoveAge.MatchString(t) && len(soft.AgeGroups) > 0 {
		out.Removed = append(out.Removed, "age groups")
		soft.AgeGroups = nil
		softChanged = true
	}
	if reRemoveFee.MatchString(t) && soft.WantsFee() {
		out.Removed = append(out.Removed, "fee cap")
		soft.FeeCap = nil
		soft.LowFee = false
		softChanged = true
	}
	for _, sr := range softRemovalLabels {
		if wordMatch(t, "remove "+sr.label) && sr.get(soft) {
			sr.clear(&soft)
			out.Removed = append(out.Removed, sr.label)
			softChanged = true
		}
	}
	if softChanged {
		out.Facets.Soft = soft
		out.Keys.Add(KeySoft)
	}

	return out
}

// stateRemovalByName matches "remove <state name>" against the active
// state facet.
func stateRemovalByName(t, active string) bool {
	for _, s := range statesByLength {
		if wordMatch(t, "remove "+s) && NormalizeState(s) == NormalizeState(active) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ExplicitKeys returns the facet types literally present in the
// utterance. Only these may introduce new values or unblock blocked
// keys; model-extracted entities for any other key are discarded, so
// a hallucinated span cannot resurrect a removed facet.
func ExplicitKeys(text string) KeySet {
	t := strings.ToLower(text)
	keys := NewKeySet()

	if reDog.MatchString(t) || reCat.MatchString(t) {
		keys.Add(KeyAnimal)
	}
	if reMale.MatchString(t) || reFemale.MatchString(t) {
		keys.Add(KeyGender)
	}
	if DetectState(t) != "" {
		keys.Add(KeyState)
	}
	for _, w := range reWord.FindAllString(t, -1) {
		if NormalizeColor(w) != "" {
			keys.Add(KeyColor)
			break
		}
	}
	if reSize.MatchString(t) {
		keys.Add(KeySize)
	}
	if reFur.MatchString(t) || wordMatch(t, "fur length") || wordMatch(t, "furlength") {
		keys.Add(KeyFurLength)
	}
	if wordMatch(t, "breed") || reKnownBreedWord.MatchString(t) {
		keys.Add(KeyBreed)
	}
	if !ParseSoftPrefs(t).IsZero() {
		keys.Add(KeySoft)
	}
	return keys
}

// reKnownBreedWord recognizes common breed mentions so a breed-only
// utterance ("ragdoll please") counts as an explicit breed mention.
var reKnownBreedWord = regexp.MustCompile(`\b(poodle|ragdoll|retriever|husky|persian|siamese|chihuahua|beagle|pug|bulldog|shepherd|terrier|spaniel|shih\s*tzu|maine\s*coon|gsd)\b`)
