package facet

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// states is the closed vocabulary of Malaysian administrative regions
// the inventory uses.
var states = map[string]bool{
	"johor": true, "kedah": true, "kelantan": true, "malacca": true,
	"melaka": true, "negeri sembilan": true, "pahang": true,
	"penang": true, "pulau pinang": true, "perak": true, "perlis": true,
	"sabah": true, "sarawak": true, "selangor": true, "terengganu": true,
	"kuala lumpur": true, "labuan": true, "putrajaya": true,
}

// stateAliases folds colloquial names onto canonical state values.
var stateAliases = map[string]string{
	"kl":           "kuala lumpur",
	"pulau pinang": "penang",
	"melaka":       "malacca",
}

// statesByLength caches state names longest-first so multi-word names
// win over their substrings ("negeri sembilan" before "negeri").
var statesByLength = func() []string {
	out := make([]string, 0, len(states))
	for s := range states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// NormalizeState lowercases, trims, and folds aliases onto the
// canonical state name. Unknown values pass through unchanged.
func NormalizeState(s string) string {
	x := normToken(s)
	if alias, ok := stateAliases[x]; ok {
		return alias
	}
	return x
}

// KnownState reports whether the value is in the state vocabulary.
func KnownState(s string) bool {
	x := NormalizeState(s)
	return states[x]
}

// DetectState scans text for a state name, longest names first, and
// returns the canonical value or "".
func DetectState(text string) string {
	t := strings.ToLower(text)
	for _, s := range statesByLength {
		if wordMatch(t, s) {
			return NormalizeState(s)
		}
	}
	for alias, canonical := range stateAliases {
		if wordMatch(t, alias) {
			return canonical
		}
	}
	return ""
}

// colorVocabulary is the fixed whitelist of recognized color tokens.
var colorVocabulary = map[string]bool{
	"white": true, "black": true, "brown": true, "gray": true, "grey": true,
	"cream": true, "beige": true, "tan": true, "yellow": true, "gold": true,
	"golden": true, "orange": true, "ginger": true, "red": true,
	"chocolate": true, "liver": true, "blue": true, "silver": true,
	"fawn": true, "apricot": true, "brindle": true, "merle": true,
	"sable": true, "seal": true, "champagne": true, "coffee": true,
	"tricolor": true, "tri-color": true, "bicolor": true, "bi-color": true,
	"calico": true, "tortoiseshell": true, "tortoise": true, "point": true,
}

// colorSynonyms folds variant spellings onto canonical color tokens.
var colorSynonyms = map[string]string{
	"grey":      "gray",
	"gold":      "yellow",
	"golden":    "yellow",
	"cream":     "white",
	"ginger":    "orange",
	"tri-color": "tricolor",
	"bi-color":  "bicolor",
	"tortoise":  "tortoiseshell",
}

// NormalizeColor folds synonyms and validates against the vocabulary.
// Returns "" for tokens outside the vocabulary.
func NormalizeColor(c string) string {
	x := normToken(c)
	if x == "" {
		return ""
	}
	if !colorVocabulary[x] {
		return ""
	}
	if canonical, ok := colorSynonyms[x]; ok {
		return canonical
	}
	return x
}

var wordRegexCache sync.Map

// wordMatch reports a whole-word occurrence of term in text.
func wordMatch(text, term string) bool {
	v, ok := wordRegexCache.Load(term)
	if !ok {
		v = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		wordRegexCache.Store(term, v)
	}
	return v.(*regexp.Regexp).MatchString(text)
}
