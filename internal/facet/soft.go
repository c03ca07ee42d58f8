package facet

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rePrefVaccinated = regexp.MustCompile(`\b(fully\s+)?vaccinated\b`)
	rePrefDewormed   = regexp.MustCompile(`\bde[-\s]?wormed\b`)
	rePrefNeutered   = regexp.MustCompile(`\b(neuter(?:ed)?|fixed|castrat(?:e|ed|ion))\b`)
	rePrefSpayed     = regexp.MustCompile(`\bspay(?:ed)?\b`)
	rePrefHealthy    = regexp.MustCompile(`\b(healthy|good\s+health|good\s+condition)\b`)
	reLowFee         = regexp.MustCompile(`\b(low|cheap|budget|afford(?:able)?)\b.{0,30}\b(fee|adoption)\b|\b(fee|adoption\s+fee)\b.{0,30}\b(low|cheap|budget)\b`)
	reFeeCap         = regexp.MustCompile(`(?:fee|adoption\s+fee)\s*(?:under|below|<=|<)?\s*(\d{2,5})`)
)

// ParseSoftPrefs derives soft preferences from the utterance: health
// flag wishes, a healthy-condition wish, a fee cap or low-fee wish,
// and the requested age-group buckets.
func ParseSoftPrefs(text string) SoftPrefs {
	t := strings.ToLower(text)
	p := SoftPrefs{
		Vaccinated: rePrefVaccinated.MatchString(t),
		Dewormed:   rePrefDewormed.MatchString(t),
		Neutered:   rePrefNeutered.MatchString(t),
		Spayed:     rePrefSpayed.MatchString(t),
		Healthy:    rePrefHealthy.MatchString(t),
		LowFee:     reLowFee.MatchString(t),
		AgeGroups:  ParseAgeGroups(t),
	}
	if m := reFeeCap.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.FeeCap = &v
			p.LowFee = true
		}
	}
	return p
}
