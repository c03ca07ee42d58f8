package pet

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Value-word sets for tri-valued coercion.
var (
	trueWords    = map[string]bool{"true": true, "yes": true, "y": true, "1": true, "full": true, "fully": true, "done": true, "complete": true, "completed": true}
	falseWords   = map[string]bool{"false": true, "no": true, "n": true, "0": true, "none": true}
	unknownWords = map[string]bool{"unknown": true, "unsure": true, "not sure": true, "n/a": true, "na": true, "nil": true, "-": true, "nan": true}
)

var (
	reNotVaccinated = regexp.MustCompile(`\b(unvaccinated|not\s+vaccinated|no\s+vaccine)\b`)
	reVaccinated    = regexp.MustCompile(`\b(fully\s+)?vaccinated\b`)
	reNotDewormed   = regexp.MustCompile(`\b(not\s+dewormed|no\s+deworm)\b`)
	reDewormed      = regexp.MustCompile(`\bde[-\s]?wormed\b`)
	reIntact        = regexp.MustCompile(`\b(intact|not\s+neuter(?:ed)?|not\s+spay(?:ed)?)\b`)
	reFixed         = regexp.MustCompile(`\b(neuter(?:ed)?|castrat(?:e|ed|ion)|fixed|sterilis(?:e|ed|ation)|spay(?:ed)?)\b`)
	reNeuterTrue    = regexp.MustCompile(`\b(neuter(?:ed)?|castrat(?:e|ed|ion)|fixed|sterilis(?:e|ed|ation))\b`)
	reSpayTrue      = regexp.MustCompile(`\bspay(?:ed)?\b`)
)

// CoerceTri interprets a heterogeneous inventory cell as a tri-valued
// flag. It understands boolean-ish words, numeric 0/1, explicit
// unknown markers, and common free-text phrasings.
func CoerceTri(raw string) Tri {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TriUnknown
	}
	if trueWords[s] {
		return TriTrue
	}
	if falseWords[s] {
		return TriFalse
	}
	if unknownWords[s] {
		return TriUnknown
	}
	switch {
	case reNotVaccinated.MatchString(s):
		return TriFalse
	case reVaccinated.MatchString(s):
		return TriTrue
	case reNotDewormed.MatchString(s):
		return TriFalse
	case reDewormed.MatchString(s):
		return TriTrue
	case reIntact.MatchString(s):
		return TriFalse
	case reFixed.MatchString(s):
		return TriTrue
	}
	return TriUnknown
}

// ParseListCell parses a list-typed inventory cell leniently. Cells
// arrive as JSON-array strings, comma-separated strings, or single
// values. Malformed input degrades to an empty list, never an error.
func ParseListCell(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			out := make([]string, 0, len(items))
			for _, it := range items {
				if str, ok := it.(string); ok {
					if t := strings.TrimSpace(str); t != "" {
						out = append(out, t)
					}
				}
			}
			return out
		}
		// Python-style list literal with single quotes.
		if fixed := strings.ReplaceAll(s, "'", `"`); fixed != s {
			if err := json.Unmarshal([]byte(fixed), &items); err == nil {
				out := make([]string, 0, len(items))
				for _, it := range items {
					if str, ok := it.(string); ok {
						if t := strings.TrimSpace(str); t != "" {
							out = append(out, t)
						}
					}
				}
				return out
			}
		}
		return []string{}
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
	return []string{s}
}

// healthTextColumns are scanned when the dedicated flag columns are
// empty or unknown.
func healthFromText(text string) (vaccinated, dewormed, neutered, spayed Tri) {
	t := strings.ToLower(text)
	switch {
	case reNotVaccinated.MatchString(t):
		vaccinated = TriFalse
	case reVaccinated.MatchString(t):
		vaccinated = TriTrue
	}
	switch {
	case reNotDewormed.MatchString(t):
		dewormed = TriFalse
	case reDewormed.MatchString(t):
		dewormed = TriTrue
	}
	if reNeuterTrue.MatchString(t) {
		neutered = TriTrue
	}
	if reSpayTrue.MatchString(t) {
		spayed = TriTrue
	}
	return vaccinated, dewormed, neutered, spayed
}

// resolveHealthFlags fills unknown flags from description text, then
// cross-infers spay/neuter from gender: a fixed female is spayed, a
// fixed male is neutered.
func resolveHealthFlags(r *Record) {
	tv, td, tn, ts := healthFromText(r.Description)
	if !r.Vaccinated.Known() {
		r.Vaccinated = tv
	}
	if !r.Dewormed.Known() {
		r.Dewormed = td
	}
	if !r.Neutered.Known() {
		r.Neutered = tn
	}
	if !r.Spayed.Known() {
		r.Spayed = ts
	}
	if !r.Spayed.Known() && r.Gender == "female" && r.Neutered.True() {
		r.Spayed = TriTrue
	}
	if !r.Neutered.Known() && r.Gender == "male" && r.Spayed.True() {
		r.Neutered = TriTrue
	}
}
