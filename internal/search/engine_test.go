package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmatch/pawmatch/internal/embed"
	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/ner"
	"github.com/pawmatch/pawmatch/internal/pet"
	"github.com/pawmatch/pawmatch/internal/session"
	"github.com/pawmatch/pawmatch/internal/store"
)

// scriptedNER returns canned spans per utterance, standing in for the
// NER model service.
type scriptedNER struct {
	spans map[string][]ner.Span
}

func (s scriptedNER) Extract(_ context.Context, text string) ([]ner.Span, error) {
	return s.spans[text], nil
}
func (s scriptedNER) Available(context.Context) bool { return true }
func (s scriptedNER) Close() error                   { return nil }

func newTestEngine(t *testing.T, spans map[string][]ner.Span) *Engine {
	t.Helper()

	records := testRecords()
	table := pet.NewTable(records)
	catalog := pet.NewCatalog(records)
	resolver := facet.NewResolver(catalog, nil, nil)
	extractor := facet.NewExtractor(scriptedNER{spans: spans}, resolver, 0, nil)

	bm25, err := store.NewBleveBM25Index(store.DefaultBM25Config())
	require.NoError(t, err)
	vectors, err := store.NewBruteForceStore(store.DefaultVectorStoreConfig(embed.StaticDimensions))
	require.NoError(t, err)

	engine, err := NewEngine(
		table, extractor, session.NewManager(nil, nil),
		bm25, vectors, embed.NewStaticEmbedder(),
		DefaultEngineConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, engine.BuildIndexes(context.Background()))
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestEngineRequiresDependencies(t *testing.T) {
	_, err := NewEngine(nil, nil, nil, nil, nil, nil, DefaultEngineConfig(), nil)
	assert.Error(t, err)
}

func TestEngineSearchScenario(t *testing.T) {
	e := newTestEngine(t, map[string][]ner.Span{
		"a female poodle in johor": {
			{Label: "BREED", Text: "poodle", Start: 9, End: 15, Confidence: 0.95},
		},
	})
	ctx := context.Background()

	resp, err := e.Search(ctx, "s1", "a female poodle in johor")
	require.NoError(t, err)

	assert.Equal(t, "dog", resp.Facets.Animal)
	assert.Equal(t, "poodle", resp.Facets.Breed)
	assert.Equal(t, "female", resp.Facets.Gender)
	assert.Equal(t, "johor", resp.Facets.State)

	// Only Milo and Luna are female poodles in johor.
	assert.Equal(t, 2, resp.ExactTotal)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Exact)
	assert.True(t, resp.Results[1].Exact)
	assert.True(t, strings.HasPrefix(resp.Summary, "Only 2 pets"))
}

func TestEngineBroadQuery(t *testing.T) {
	e := newTestEngine(t, nil)

	resp, err := e.Search(context.Background(), "s1", "a dog please")
	require.NoError(t, err)

	assert.Equal(t, 7, resp.ExactTotal)
	assert.Len(t, resp.Results, DefaultTopK)
	assert.Equal(t, StepStrictAll, resp.Step)
	assert.False(t, resp.Relaxed)
	assert.True(t, strings.HasPrefix(resp.Summary, "Found 7 pets"))
	for _, s := range resp.Results {
		assert.Equal(t, "dog", s.Record.Animal)
	}
}

func TestEngineEmptyQuerySamples(t *testing.T) {
	e := newTestEngine(t, nil)

	resp, err := e.Search(context.Background(), "s1", "hello there")
	require.NoError(t, err)

	assert.Equal(t, StepRandomSample, resp.Step)
	assert.Len(t, resp.Results, DefaultTopK)
	assert.Zero(t, resp.ExactTotal)
}

func TestEngineFacetsPersistAcrossTurns(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := e.Search(ctx, "s1", "a female dog in johor")
	require.NoError(t, err)

	resp, err := e.Search(ctx, "s1", "a white one")
	require.NoError(t, err)

	assert.Equal(t, "dog", resp.Facets.Animal)
	assert.Equal(t, "female", resp.Facets.Gender)
	assert.Equal(t, "johor", resp.Facets.State)
	assert.Equal(t, []string{"white"}, resp.Facets.Colors)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, 1, resp.Results[0].Record.ID) // Milo, the white johor female
}

func TestEngineRemovalTurn(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := e.Search(ctx, "s1", "a female dog in johor")
	require.NoError(t, err)

	resp, err := e.Search(ctx, "s1", "remove state")
	require.NoError(t, err)

	assert.Empty(t, resp.Facets.State)
	assert.Equal(t, "dog", resp.Facets.Animal)
	assert.Equal(t, "female", resp.Facets.Gender)
	for _, s := range resp.Results {
		assert.Equal(t, "female", s.Record.Gender)
	}
}

func TestEngineAnimalSwitchDropsBreed(t *testing.T) {
	e := newTestEngine(t, map[string][]ner.Span{
		"a poodle please": {
			{Label: "BREED", Text: "poodle", Start: 2, End: 8, Confidence: 0.95},
		},
	})
	ctx := context.Background()

	resp, err := e.Search(ctx, "s1", "a poodle please")
	require.NoError(t, err)
	assert.Equal(t, "poodle", resp.Facets.Breed)
	assert.Equal(t, "dog", resp.Facets.Animal)

	resp, err = e.Search(ctx, "s1", "actually, a cat")
	require.NoError(t, err)
	assert.Equal(t, "cat", resp.Facets.Animal)
	assert.Empty(t, resp.Facets.Breed)
	for _, s := range resp.Results {
		assert.Equal(t, "cat", s.Record.Animal)
	}
}

func TestEngineSessionIsolation(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	_, err := e.Search(ctx, "alice", "a female cat")
	require.NoError(t, err)

	resp, err := e.Search(ctx, "bob", "a dog please")
	require.NoError(t, err)

	assert.Equal(t, "dog", resp.Facets.Animal)
	assert.Empty(t, resp.Facets.Gender)
}

func TestEngineNoHardHits(t *testing.T) {
	e := newTestEngine(t, map[string][]ner.Span{
		"a ragdoll dog": {
			{Label: "BREED", Text: "ragdoll", Start: 2, End: 9, Confidence: 0.95},
		},
	})

	resp, err := e.Search(context.Background(), "s1", "a ragdoll dog")
	require.NoError(t, err)

	assert.Equal(t, StepNoMatches, resp.Step)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.ExactTotal)
	assert.False(t, resp.Relaxed, "an empty pool relaxes nothing")
}
