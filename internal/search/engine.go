package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pawmatch/pawmatch/internal/embed"
	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/pet"
	"github.com/pawmatch/pawmatch/internal/session"
	"github.com/pawmatch/pawmatch/internal/store"
)

const (
	// StepRandomSample tags replies served from a random catalog
	// sample because no constraints are active yet.
	StepRandomSample = "random_sample"

	// StepNoMatches tags replies where even the loosest relaxation
	// found nothing.
	StepNoMatches = "no_matches"
)

// EngineConfig tunes the search engine.
type EngineConfig struct {
	// TopK is how many result cards each reply carries.
	TopK int

	// RelaxFloor is the minimum candidate pool before the relaxation
	// ladder stops loosening.
	RelaxFloor int

	// Score holds the hybrid scoring weights and pool sizes.
	Score ScoreConfig
}

// DefaultEngineConfig returns the production engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TopK:       DefaultTopK,
		RelaxFloor: DefaultTopK,
		Score:      DefaultScoreConfig(),
	}
}

// Response is one conversational search reply.
type Response struct {
	// Results are the ranked result cards, exact matches first.
	Results []Scored `json:"results"`

	// Facets is the merged facet set the reply was computed from.
	Facets facet.FacetSet `json:"facets"`

	// Summary is the honest status line for the user.
	Summary string `json:"summary"`

	// ExactTotal counts catalog-wide exact matches for the facets.
	ExactTotal int `json:"exact_total"`

	// Step tags which relaxation rung produced the candidate pool.
	Step string `json:"step"`

	// Relaxed is true when any hard constraint was loosened.
	Relaxed bool `json:"relaxed"`
}

// Engine runs the full conversational search pipeline: facet
// extraction, session merge, relaxation filtering, hybrid scoring,
// and exact-first ranking.
type Engine struct {
	table     *pet.Table
	extractor *facet.Extractor
	sessions  *session.Manager
	scorer    *scorer
	config    EngineConfig
	logger    *slog.Logger
}

// NewEngine wires the pipeline. All dependencies are required except
// the logger.
func NewEngine(
	table *pet.Table,
	extractor *facet.Extractor,
	sessions *session.Manager,
	bm25 store.BM25Index,
	vectors store.VectorStore,
	embedder embed.Embedder,
	config EngineConfig,
	logger *slog.Logger,
) (*Engine, error) {
	if table == nil {
		return nil, errors.New("pet table is required")
	}
	if extractor == nil {
		return nil, errors.New("facet extractor is required")
	}
	if sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if bm25 == nil {
		return nil, errors.New("bm25 index is required")
	}
	if vectors == nil {
		return nil, errors.New("vector store is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.RelaxFloor <= 0 {
		config.RelaxFloor = DefaultTopK
	}
	if config.Score.LexWeight == 0 && config.Score.DenseWeight == 0 {
		config.Score = DefaultScoreConfig()
	}

	return &Engine{
		table:     table,
		extractor: extractor,
		sessions:  sessions,
		scorer: &scorer{
			bm25:     bm25,
			vectors:  vectors,
			embedder: embedder,
			config:   config.Score,
			logger:   logger,
		},
		config: config,
		logger: logger,
	}, nil
}

// BuildIndexes indexes every catalog record into both retrieval legs.
// Run once at startup before serving queries.
func (e *Engine) BuildIndexes(ctx context.Context) error {
	records := e.table.All()

	docs := make([]*store.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, &store.Document{ID: r.DocID(), Content: profileText(r)})
	}
	if err := e.scorer.bm25.Index(ctx, docs); err != nil {
		return fmt.Errorf("build bm25 index: %w", err)
	}

	for start := 0; start < len(records); start += embed.DefaultBatchSize {
		end := start + embed.DefaultBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		ids := make([]string, 0, len(batch))
		texts := make([]string, 0, len(batch))
		for _, r := range batch {
			ids = append(ids, r.DocID())
			texts = append(texts, profileText(r))
		}

		vectors, err := e.scorer.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed profiles %d-%d: %w", start, end, err)
		}
		if err := e.scorer.vectors.Add(ctx, ids, vectors); err != nil {
			return fmt.Errorf("index vectors %d-%d: %w", start, end, err)
		}
	}

	e.logger.Info("retrieval indexes built",
		"documents", len(docs),
		"vectors", e.scorer.vectors.Count())
	return nil
}

// Search handles one conversational turn for the session.
func (e *Engine) Search(ctx context.Context, sessionID, utterance string) (*Response, error) {
	state := e.sessions.Get(sessionID)

	extracted := e.extractor.Extract(ctx, utterance)
	merged := state.MergeTurn(utterance, extracted)
	e.sessions.Put(state)

	e.logger.Debug("turn merged",
		"session", sessionID,
		"facets", merged.ActiveKeys())

	// Nothing to filter on yet: show a browsing sample instead of an
	// unranked dump.
	if merged.IsEmpty() {
		sample := e.table.Sample(e.config.TopK)
		results := make([]Scored, 0, len(sample))
		for _, r := range sample {
			results = append(results, Scored{Record: r})
		}
		return &Response{
			Results: results,
			Facets:  merged,
			Summary: "Tell me what you're looking for. Meanwhile, here are a few pets up for adoption:",
			Step:    StepRandomSample,
		}, nil
	}

	filtered, err := Filter(e.table, merged, e.config.RelaxFloor, e.logger)
	if err != nil {
		var noHits ErrNoHardHits
		if errors.As(err, &noHits) {
			// Nothing was relaxed; there was simply nothing to return.
			return &Response{
				Facets:  merged,
				Summary: "No pets match all your criteria exactly. Try removing a constraint.",
				Step:    StepNoMatches,
			}, nil
		}
		return nil, err
	}

	boosted := BoostedQuery(utterance, merged)
	scores, err := e.scorer.scoreCandidates(ctx, boosted, filtered.Records)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	ranked := Rank(filtered.Records, scores, merged, e.config.TopK)
	exactTotal := CountExactMatches(e.table, merged)

	return &Response{
		Results:    ranked,
		Facets:     merged,
		Summary:    statusLine(exactTotal, e.config.TopK),
		ExactTotal: exactTotal,
		Step:       filtered.Step,
		Relaxed:    filtered.Relaxed,
	}, nil
}

// Reset drops the session's accumulated state.
func (e *Engine) Reset(sessionID string) {
	e.sessions.Reset(sessionID)
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	var errs []error
	if err := e.scorer.bm25.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.scorer.vectors.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.scorer.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.sessions.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// statusLine phrases the reply header from the catalog-wide exact
// match count, never overstating what was found.
func statusLine(exactTotal, topK int) string {
	switch {
	case exactTotal >= topK:
		return fmt.Sprintf("Found %d pets matching all your criteria. Here are the top picks:", exactTotal)
	case exactTotal > 0:
		return fmt.Sprintf("Only %d pets match all your criteria. Showing them first, followed by close matches:", exactTotal)
	default:
		return "No pets match all your criteria exactly. Here are the closest matches:"
	}
}

// profileText flattens a record into the text both retrieval legs
// index.
func profileText(r *pet.Record) string {
	parts := make([]string, 0, 10)
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	add(r.Name)
	add(r.Animal)
	add(r.Breed)
	add(r.Gender)
	if len(r.Colors) > 0 {
		add(strings.Join(r.Colors, " "))
	} else {
		add(r.Color)
	}
	add(r.State)
	add(r.Size)
	add(r.FurLength)
	add(r.Condition)
	add(r.Description)
	return strings.Join(parts, " ")
}
