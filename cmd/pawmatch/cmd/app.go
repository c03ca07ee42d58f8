package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pawmatch/pawmatch/internal/config"
	"github.com/pawmatch/pawmatch/internal/embed"
	"github.com/pawmatch/pawmatch/internal/facet"
	"github.com/pawmatch/pawmatch/internal/logging"
	"github.com/pawmatch/pawmatch/internal/ner"
	"github.com/pawmatch/pawmatch/internal/pet"
	"github.com/pawmatch/pawmatch/internal/search"
	"github.com/pawmatch/pawmatch/internal/session"
	"github.com/pawmatch/pawmatch/internal/store"
)

// app bundles the wired pipeline for one CLI invocation.
type app struct {
	config  *config.Config
	engine  *search.Engine
	logger  *slog.Logger
	cleanup []func()
}

// close tears the app down in reverse wiring order.
func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// buildApp loads configuration, sets up logging, and wires the full
// search pipeline: inventory, extraction, sessions, both retrieval
// indexes, and the engine. Indexes are built before it returns.
func buildApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		cfg.Data.CSVPath = data
	}

	// Logs go to the file only; stdout carries results and stderr
	// stays clean for the chat prompt.
	logCfg := logging.Config{
		Level:          cfg.Logging.Level,
		FilePath:       cfg.Logging.FilePath,
		MaxSizeMB:      10,
		MaxFiles:       5,
		SyncEveryWrite: true,
	}
	if logCfg.FilePath == "" {
		logCfg.FilePath = logging.DefaultLogPath()
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}
	logger, logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	a := &app{config: cfg, logger: logger, cleanup: []func(){logCleanup}}

	table, err := pet.LoadCSV(cfg.Data.CSVPath, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	catalog := pet.NewCatalog(table.All())
	resolver := facet.NewResolver(catalog, nil, logger)

	var entities ner.Extractor = ner.Noop{}
	if cfg.NER.Endpoint != "" {
		entities = ner.NewHTTPExtractor(ner.HTTPConfig{Endpoint: cfg.NER.Endpoint})
	}
	extractor := facet.NewExtractor(entities, resolver, cfg.NER.MinConfidence, logger)

	embedder, err := embed.NewEmbedder(ctx, embed.ProviderType(cfg.Embeddings.Provider), embed.HTTPConfig{
		Endpoint:   cfg.Embeddings.Endpoint,
		Model:      cfg.Embeddings.Model,
		Dimensions: cfg.Embeddings.Dimensions,
	}, logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("setup embedder: %w", err)
	}

	bm25, err := store.NewBleveBM25Index(store.DefaultBM25Config())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("setup bm25 index: %w", err)
	}
	vectors, err := store.NewHNSWStore(store.DefaultVectorStoreConfig(embedder.Dimensions()))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("setup vector store: %w", err)
	}

	var sessStore session.Store
	if cfg.Sessions.Persist && cfg.Sessions.Path != "" {
		s, err := session.NewSQLiteStore(cfg.Sessions.Path)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		sessStore = s
	}
	sessions := session.NewManager(sessStore, logger)

	engine, err := search.NewEngine(table, extractor, sessions, bm25, vectors, embedder,
		search.EngineConfig{
			TopK:       cfg.Search.TopK,
			RelaxFloor: cfg.Search.RelaxFloor,
			Score: search.ScoreConfig{
				LexWeight:   cfg.Search.LexWeight,
				DenseWeight: cfg.Search.DenseWeight,
				LexPool:     cfg.Search.LexPool,
				DensePool:   cfg.Search.DensePool,
			},
		}, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.engine = engine
	a.cleanup = append(a.cleanup, func() { _ = engine.Close() })

	if err := engine.BuildIndexes(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("build indexes: %w", err)
	}
	return a, nil
}
