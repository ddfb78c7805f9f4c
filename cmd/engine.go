package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/extract"
	"github.com/sells-group/intel-engine/internal/intel"
	"github.com/sells-group/intel-engine/internal/quote"
	"github.com/sells-group/intel-engine/internal/signals"
	"github.com/sells-group/intel-engine/internal/store"
	"github.com/sells-group/intel-engine/internal/website"
	"github.com/sells-group/intel-engine/internal/wiki"
	anthropicpkg "github.com/sells-group/intel-engine/pkg/anthropic"
)

// engineEnv bundles the aggregator and its record cache for the commands.
type engineEnv struct {
	Store    store.Store
	Agg      *intel.Aggregator
	CacheTTL time.Duration
}

func (e *engineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEngine wires all source clients from config and opens the record cache.
func initEngine(ctx context.Context) (*engineEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	var llm anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("INTEL_ANTHROPIC_KEY not set, fact extraction disabled")
	}
	if cfg.Signals.BaseURL == "" {
		zap.L().Warn("INTEL_SIGNALS_BASE_URL not set, sales signals disabled")
	}

	agg := intel.New(intel.Deps{
		Wiki:      wiki.NewClient(wiki.WithBaseURL(cfg.Wiki.BaseURL)),
		Site:      website.NewFetcher(website.WithUserAgent(cfg.Website.UserAgent)),
		BoostSite: website.NewFetcher(website.WithUserAgent(cfg.Website.UserAgent), website.WithMaxPaths(len(cfg.Website.BoostPaths))),
		Signals:   signals.NewClient(cfg.Signals.BaseURL, cfg.Signals.Key),
		Quotes:    quote.NewClient(cfg.Quote.Key, quote.WithBaseURL(cfg.Quote.BaseURL)),
		Extractor: extract.NewExtractor(llm, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens),

		Paths:      cfg.Website.Paths,
		BoostPaths: cfg.Website.BoostPaths,
		MaxSignals: cfg.Signals.MaxSignals,
	})

	return &engineEnv{
		Store:    st,
		Agg:      agg,
		CacheTTL: time.Duration(cfg.Store.TTLHours) * time.Hour,
	}, nil
}
