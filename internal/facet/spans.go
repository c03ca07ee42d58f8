package facet

import (
	"sort"

	"github.com/pawmatch/pawmatch/internal/ner"
)

// MinSpanConfidence is the default cutoff below which model spans are
// dropped before they can pollute the facet set; the rule parser
// covers the gap. The ner config's min_confidence overrides it.
const MinSpanConfidence = 0.5

// FromSpans converts labeled entity spans into a FacetSet, discarding
// spans scored below minConfidence (non-positive falls back to
// MinSpanConfidence).
//
// Overlapping spans are resolved by keeping the longer span; on a
// length tie where one span is BREED and the other COLOR, BREED wins
// (breed names often contain color words, e.g. "golden retriever").
func FromSpans(spans []ner.Span, minConfidence float64) FacetSet {
	if minConfidence <= 0 {
		minConfidence = MinSpanConfidence
	}
	kept := resolveOverlaps(spans, minConfidence)

	var f FacetSet
	var colors []string
	for _, sp := range kept {
		text := normToken(sp.Text)
		if text == "" {
			continue
		}
		switch sp.NormalLabel() {
		case "ANIMAL", "PET_TYPE":
			if text == "dog" || text == "cat" {
				f.Animal = text
			}
		case "BREED":
			f.Breed = text
		case "GENDER":
			switch {
			case len(text) > 0 && text[0] == 'f':
				f.Gender = "female"
			case len(text) > 0 && text[0] == 'm':
				f.Gender = "male"
			}
		case "COLOR":
			colors = append(colors, text)
		case "STATE", "LOCATION", "CITY":
			f.State = NormalizeState(text)
		case "SIZE":
			f.Size = text
		case "FURLENGTH", "FUR_LENGTH":
			f.FurLength = text
		}
	}
	f.Colors = normalizeColors(colors)
	return f
}

// resolveOverlaps keeps a non-overlapping subset of spans, preferring
// longer spans and, on ties, BREED over COLOR.
func resolveOverlaps(spans []ner.Span, minConfidence float64) []ner.Span {
	candidates := make([]ner.Span, 0, len(spans))
	for _, sp := range spans {
		if sp.Confidence > 0 && sp.Confidence < minConfidence {
			continue
		}
		candidates = append(candidates, sp)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if (a.NormalLabel() == "BREED") != (b.NormalLabel() == "BREED") {
			return a.NormalLabel() == "BREED"
		}
		return a.Start < b.Start
	})

	var kept []ner.Span
	for _, sp := range candidates {
		overlaps := false
		for _, k := range kept {
			if sp.Start < k.End && k.Start < sp.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, sp)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

// Merge combines the model-derived facet set with the rule parser's.
// The model's value wins per field unless empty; colors merge as a
// union. Soft preferences come solely from the rule parser.
func Merge(model, rules FacetSet) FacetSet {
	out := model
	if out.Animal == "" {
		out.Animal = rules.Animal
	}
	if out.Breed == "" {
		out.Breed = rules.Breed
	}
	if out.Gender == "" {
		out.Gender = rules.Gender
	}
	if out.State == "" {
		out.State = rules.State
	}
	if out.Size == "" {
		out.Size = rules.Size
	}
	if out.FurLength == "" {
		out.FurLength = rules.FurLength
	}
	out.Colors = normalizeColors(append(append([]string{}, model.Colors...), rules.Colors...))
	out.Soft = rules.Soft
	return out
}
