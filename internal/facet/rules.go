package facet

import (
	"regexp"
	"strings"
)

var (
	reCat    = regexp.MustCompile(`\b(cat|cats|kitten|kittens|kitties)\b`)
	reDog    = regexp.MustCompile(`\b(dog|dogs|puppy|puppies|pup|pups)\b`)
	reMale   = regexp.MustCompile(`\bmale\b`)
	reFemale = regexp.MustCompile(`\bfemale\b`)
	reSize   = regexp.MustCompile(`\b(small|medium|large|xl)\b`)
	reFur    = regexp.MustCompile(`\b(short|long|medium)\s*(?:fur|hair(?:ed)?|coat)\b`)
	reWord   = regexp.MustCompile(`[a-z][a-z-]*`)
)

// ParseText is the deterministic rule parser. It scans the normalized
// utterance for animal and gender keywords, the state vocabulary, the
// color vocabulary, size and fur-length phrases, and the soft
// preference patterns. Empty or unparseable input yields an empty
// FacetSet, never an error.
func ParseText(text string) FacetSet {
	t := strings.ToLower(text)
	var f FacetSet

	if reFemale.MatchString(t) {
		f.Gender = "female"
	} else if reMale.MatchString(t) {
		f.Gender = "male"
	}

	if reCat.MatchString(t) {
		f.Animal = "cat"
	} else if reDog.MatchString(t) {
		f.Animal = "dog"
	}

	f.State = DetectState(t)

	var colors []string
	for _, w := range reWord.FindAllString(t, -1) {
		if c := NormalizeColor(w); c != "" {
			colors = append(colors, c)
		}
	}
	f.Colors = normalizeColors(colors)

	if m := reSize.FindStringSubmatch(t); m != nil {
		f.Size = m[1]
	}
	if m := reFur.FindStringSubmatch(t); m != nil {
		f.FurLength = m[1]
	}

	f.Soft = ParseSoftPrefs(t)
	return f
}
