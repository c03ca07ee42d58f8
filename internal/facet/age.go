package facet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pawmatch/pawmatch/internal/pet"
)

var (
	rePuppyKitten = regexp.MustCompile(`\b(puppy|puppies|kitten|kittens)\b`)
	reYoungWord   = regexp.MustCompile(`\byoung\b`)
	reAdultWord   = regexp.MustCompile(`\badult\b`)
	reSeniorWord  = regexp.MustCompile(`\bsenior\b`)

	reAgeCompare = regexp.MustCompile(`(<=|>=|<|>|\bless\s+than|\bunder|\bmore\s+than|\bover|\bat\s+least)\s*(\d+(?:\.\d+)?)\s*(years?|yrs?|y|months?|mos?)\b`)
	reAgeExact   = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(years?|yrs?|y|months?|mos?)\b`)
)

// ParseAgeGroups derives the set of age-group buckets requested by the
// utterance. Bucket keywords map directly; comparative phrasing
// ("under 1 year", "more than 3 years") expands to every bucket on the
// correct side of the threshold; a bare exact age maps to its bucket.
func ParseAgeGroups(text string) []pet.AgeGroup {
	t := strings.ToLower(text)
	set := make(map[pet.AgeGroup]bool)

	if rePuppyKitten.MatchString(t) {
		set[pet.AgePuppyKitten] = true
	}
	if reYoungWord.MatchString(t) {
		set[pet.AgeYoung] = true
	}
	if reAdultWord.MatchString(t) {
		set[pet.AgeAdult] = true
	}
	if reSeniorWord.MatchString(t) {
		set[pet.AgeSenior] = true
	}

	matched := false
	for _, m := range reAgeCompare.FindAllStringSubmatch(t, -1) {
		months, ok := toMonths(m[2], m[3])
		if !ok {
			continue
		}
		matched = true
		for _, g := range groupsForThreshold(compareOp(m[1]), months) {
			set[g] = true
		}
	}

	if len(set) == 0 && !matched {
		if m := reAgeExact.FindStringSubmatch(t); m != nil {
			if months, ok := toMonths(m[1], m[2]); ok {
				set[pet.GroupForMonths(months)] = true
			}
		}
	}

	out := make([]pet.AgeGroup, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toMonths(val, unit string) (float64, bool) {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(unit, "y") {
		return v * 12, true
	}
	return v, true
}

func compareOp(raw string) string {
	op := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	switch op {
	case "<", "less than", "under":
		return "less"
	case "<=":
		return "less"
	case ">", "more than", "over", ">=", "at least":
		return "more"
	}
	return op
}

// groupsForThreshold expands a one-sided age bound into the buckets
// whose interval lies on that side of the threshold.
func groupsForThreshold(op string, months float64) []pet.AgeGroup {
	var out []pet.AgeGroup
	for _, g := range pet.AgeGroups {
		lo, hi := g.Bounds()
		switch op {
		case "less":
			if lo < months {
				out = append(out, g)
			}
		case "more":
			if hi < 0 || hi > months {
				out = append(out, g)
			}
		}
	}
	if len(out) == 0 {
		return append(out, pet.AgeGroups...)
	}
	return out
}
