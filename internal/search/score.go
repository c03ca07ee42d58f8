package search

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pawmatch/pawmatch/internal/embed"
	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/pet"
	"github.com/pawmatch/pawmatch/internal/store"
)

// Scoring weights, following the tuned production values.
const (
	// DefaultLexWeight scales the BM25 leg of the hybrid score.
	DefaultLexWeight = 0.1

	// DefaultDenseWeight scales the embedding leg.
	DefaultDenseWeight = 0.9

	// DefaultLexPool is how many BM25 hits to pull before
	// intersecting with the candidate pool.
	DefaultLexPool = 2000

	// DefaultDensePool is how many dense hits to pull.
	DefaultDensePool = 1000

	// bonusBase rewards a desirable trait the user did not ask for.
	bonusBase = 0.05

	// bonusStrong rewards a trait the user asked for and got.
	bonusStrong = 0.08

	// bonusFeeWeight scales the cheap-fee reward.
	bonusFeeWeight = 0.08

	// bonusCap bounds the total preference bonus so it can reorder
	// within a quality tier but never drown out relevance.
	bonusCap = 0.35
)

// ScoreConfig tunes the hybrid scorer.
type ScoreConfig struct {
	LexWeight   float64
	DenseWeight float64
	LexPool     int
	DensePool   int
}

// DefaultScoreConfig returns the production scoring weights.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		LexWeight:   DefaultLexWeight,
		DenseWeight: DefaultDenseWeight,
		LexPool:     DefaultLexPool,
		DensePool:   DefaultDensePool,
	}
}

// Scored pairs a record with its final ranking score.
type Scored struct {
	Record *pet.Record `json:"record"`
	Score  float64     `json:"score"`
	Exact  bool        `json:"exact"`
}

// kidFriendlyExtras widens lexical recall when the query mentions
// kids or family; inventory descriptions phrase this many ways.
const kidFriendlyExtras = "kid-friendly child-friendly family-friendly gentle with kids good with children good with kids"

// BoostedQuery appends the active facet values to the utterance so
// both retrieval legs see the accumulated constraints, not just the
// latest turn's words.
func BoostedQuery(utterance string, f facet.FacetSet) string {
	q := strings.TrimSpace(utterance)
	if terms := f.Terms(); len(terms) > 0 {
		q = strings.TrimSpace(q + " " + strings.Join(terms, " "))
	}
	return expandKidFriendly(q)
}

func expandKidFriendly(q string) string {
	t := strings.ToLower(q)
	if strings.Contains(t, "kid") || strings.Contains(t, "child") || strings.Contains(t, "family") {
		return q + " " + kidFriendlyExtras
	}
	return q
}

// scorer runs both retrieval legs and blends them over a candidate
// pool.
type scorer struct {
	bm25     store.BM25Index
	vectors  store.VectorStore
	embedder embed.Embedder
	config   ScoreConfig
	logger   *slog.Logger
}

// scoreCandidates returns hybrid relevance scores for the candidate
// records, keyed by document ID. Scores from each leg are min-max
// normalized over the candidate set before weighting. When the dense
// leg fails the lexical leg takes full weight.
func (s *scorer) scoreCandidates(ctx context.Context, query string, candidates []*pet.Record) (map[string]float64, error) {
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, r := range candidates {
		candidateSet[r.DocID()] = struct{}{}
	}

	var lexScores, denseScores map[string]float64
	var denseErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := s.bm25.Search(gctx, query, s.config.LexPool)
		if err != nil {
			return err
		}
		lexScores = make(map[string]float64, len(hits))
		for _, h := range hits {
			if _, ok := candidateSet[h.DocID]; ok {
				lexScores[h.DocID] = h.Score
			}
		}
		return nil
	})
	g.Go(func() error {
		vec, err := s.embedder.Embed(gctx, query)
		if err != nil {
			// Dense leg degrades gracefully; the lexical leg still
			// produces a ranking.
			denseErr = err
			return nil
		}
		hits, err := s.vectors.Search(gctx, vec, s.config.DensePool)
		if err != nil {
			denseErr = err
			return nil
		}
		denseScores = make(map[string]float64, len(hits))
		for _, h := range hits {
			if _, ok := candidateSet[h.ID]; ok {
				denseScores[h.ID] = float64(h.Score)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lexWeight, denseWeight := s.config.LexWeight, s.config.DenseWeight
	if denseErr != nil {
		s.logger.Warn("dense retrieval unavailable, using lexical scores only",
			"error", denseErr)
		lexWeight, denseWeight = 1.0, 0.0
		denseScores = nil
	}

	lexNorm := minMaxNormalize(lexScores)
	denseNorm := minMaxNormalize(denseScores)

	scores := make(map[string]float64, len(candidates))
	for id := range candidateSet {
		scores[id] = lexWeight*lexNorm[id] + denseWeight*denseNorm[id]
	}
	return scores, nil
}

// minMaxNormalize rescales scores to [0,1] over the map. A flat or
// empty map normalizes to all zeros, except a single-entry map which
// keeps full weight.
func minMaxNormalize(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	first := true
	var lo, hi float64
	for _, v := range scores {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		for id := range scores {
			out[id] = 1.0
		}
		return out
	}
	for id, v := range scores {
		out[id] = (v - lo) / (hi - lo)
	}
	return out
}

// FeatureBonus computes the soft-preference bonus for a record:
// requested-and-satisfied health flags earn more than merely
// desirable ones, cheap fees earn proportionally, and an age-group
// match earns a fixed boost. The total is clamped to bonusCap.
func FeatureBonus(r *pet.Record, soft facet.SoftPrefs) float64 {
	bonus := 0.0

	flagBonus := func(requested bool, value pet.Tri) float64 {
		switch {
		case requested && value.True():
			return bonusStrong
		case !requested && value.True():
			return bonusBase
		default:
			return 0
		}
	}
	bonus += flagBonus(soft.Vaccinated, r.Vaccinated)
	bonus += flagBonus(soft.Dewormed, r.Dewormed)
	bonus += flagBonus(soft.Neutered, r.Neutered)
	bonus += flagBonus(soft.Spayed, r.Spayed)

	if soft.Healthy && r.Healthy() {
		bonus += bonusBase
	}

	if soft.WantsFee() && r.HasFee {
		feeCap := soft.EffectiveFeeCap()
		if feeCap > 0 && r.AdoptionFee <= feeCap {
			bonus += bonusFeeWeight * (1 - r.AdoptionFee/feeCap)
		}
	}

	if len(soft.AgeGroups) > 0 && r.HasAge && r.InAnyAgeGroup(soft.AgeGroups) {
		bonus += bonusBase
	}

	if bonus < 0 {
		return 0
	}
	if bonus > bonusCap {
		return bonusCap
	}
	return bonus
}

// MatchAllStrict reports whether the record satisfies every hard
// facet exactly, state and color included.
func MatchAllStrict(r *pet.Record, f facet.FacetSet) bool {
	if f.Animal != "" && !pet.AnimalIs(f.Animal)(r) {
		return false
	}
	if f.Breed != "" && !pet.BreedContains(f.Breed)(r) {
		return false
	}
	if f.Gender != "" && !pet.GenderIs(f.Gender)(r) {
		return false
	}
	if f.State != "" && !pet.StateIs(f.State)(r) {
		return false
	}
	if len(f.Colors) > 0 && !pet.ColorHasAny(f.Colors)(r) {
		return false
	}
	return true
}

// MatchAllSoft reports whether the record satisfies every requested
// soft preference: age group, each asked-for health flag, and the
// fee cap.
func MatchAllSoft(r *pet.Record, soft facet.SoftPrefs) bool {
	if len(soft.AgeGroups) > 0 {
		if !r.HasAge || !r.InAnyAgeGroup(soft.AgeGroups) {
			return false
		}
	}
	if soft.Vaccinated && !r.Vaccinated.True() {
		return false
	}
	if soft.Dewormed && !r.Dewormed.True() {
		return false
	}
	if soft.Neutered && !r.Neutered.True() {
		return false
	}
	if soft.Spayed && !r.Spayed.True() {
		return false
	}
	if soft.Healthy && !r.Healthy() {
		return false
	}
	if soft.WantsFee() {
		if !r.HasFee || r.AdoptionFee > soft.EffectiveFeeCap() {
			return false
		}
	}
	return true
}

// IsExactMatch reports whether the record satisfies all hard facets
// and all requested soft preferences together.
func IsExactMatch(r *pet.Record, f facet.FacetSet) bool {
	return MatchAllStrict(r, f) && MatchAllSoft(r, f.Soft)
}

// CountExactMatches counts exact matches over the full catalog,
// independent of any relaxation applied to the candidate pool. The
// count drives the honest status line in replies.
func CountExactMatches(table *pet.Table, f facet.FacetSet) int {
	count := 0
	for _, r := range table.All() {
		if IsExactMatch(r, f) {
			count++
		}
	}
	return count
}
