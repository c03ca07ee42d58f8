package facet

import (
	"context"
	"log/slog"

	"github.com/pawmatch/pawmatch/internal/ner"
)

// Extractor is the full facet extraction pipeline: the NER service's
// spans merged with the rule parser, then resolved against the
// inventory catalog.
type Extractor struct {
	ner           ner.Extractor
	resolver      *Resolver
	minConfidence float64
	logger        *slog.Logger
}

// NewExtractor wires the extraction pipeline. A nil ner extractor
// disables the model pass; the rule parser carries extraction alone.
// minConfidence is the span cutoff, non-positive meaning the package
// default.
func NewExtractor(n ner.Extractor, resolver *Resolver, minConfidence float64, logger *slog.Logger) *Extractor {
	if n == nil {
		n = ner.Noop{}
	}
	if minConfidence <= 0 {
		minConfidence = MinSpanConfidence
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ner: n, resolver: resolver, minConfidence: minConfidence, logger: logger}
}

// Extract derives a FacetSet from the utterance. A failing NER call is
// logged and recovered by falling back to the rule parser; extraction
// itself never returns an error for unparseable input.
func (e *Extractor) Extract(ctx context.Context, text string) FacetSet {
	rules := ParseText(text)

	spans, err := e.ner.Extract(ctx, text)
	if err != nil {
		e.logger.Warn("ner extraction failed, using rule parser only",
			"error", err)
		spans = nil
	}

	merged := Merge(FromSpans(spans, e.minConfidence), rules)
	if e.resolver != nil {
		merged = e.resolver.Resolve(merged)
	}
	return merged
}
