package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/soundline/catalog-sync/internal/catalog"
	"github.com/soundline/catalog-sync/internal/config"
	"github.com/soundline/catalog-sync/internal/engine"
	"github.com/soundline/catalog-sync/internal/namegen"
	"github.com/soundline/catalog-sync/internal/notify"
	"github.com/soundline/catalog-sync/internal/pricelist"
	"github.com/soundline/catalog-sync/internal/store"
	"github.com/soundline/catalog-sync/pkg/matcher"
)

// app bundles everything the serve and sync commands wire together.
type app struct {
	cache  *catalog.Cache
	engine *engine.Engine
	store  store.Store // nil when no database is configured
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp constructs the catalog client, cache, matcher and engine from
// config. The catalog snapshot is loaded once; a failure degrades rather than
// aborts, so the service can start while the catalog is down.
func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger, dryRun bool) (*app, error) {
	rest := catalog.NewRESTClient(cfg.Catalog.BaseURL,
		catalog.WithToken(cfg.Catalog.Token),
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.Timeout}),
		catalog.WithRateLimit(cfg.Catalog.RateLimit.PerSecond, cfg.Catalog.RateLimit.Burst),
	)

	cache := catalog.NewCache(rest, cfg.Catalog.SearchTerms, log)
	if _, err := cache.Refresh(ctx); err != nil {
		log.Warn("initial catalog load failed, starting degraded", "error", err)
	}

	opts := []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithWorkers(cfg.Workers.Count),
		engine.WithNameGenerator(nameGenerator(cfg.NameGen)),
		engine.WithNotifier(notifier(cfg.Notify)),
		engine.WithDryRun(dryRun),
	}

	a := &app{cache: cache}

	if cfg.Database.Enabled() {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.store = pg
		opts = append(opts, engine.WithStore(pg))
	}

	a.engine = engine.NewEngine(
		pricelist.NewParser(),
		cache,
		matcher.New(matcherConfig(cfg.Matching)),
		engine.NewSynchronizer(rest, log),
		opts...,
	)

	return a, nil
}

func matcherConfig(m config.MatchingConfig) matcher.Config {
	return matcher.Config{
		FuzzyThreshold:    m.FuzzyThreshold,
		PartialThreshold:  m.PartialThreshold,
		HighTier:          m.HighTier,
		MediumTier:        m.MediumTier,
		LowTier:           m.LowTier,
		UpdateThreshold:   m.UpdateThreshold,
		PriceTolerancePct: m.PriceTolerancePct,
		MinModelTokenLen:  m.MinModelTokenLen,
		VocabBonusCap:     m.VocabBonusCap,
		MaxDiagnostics:    m.MaxDiagnostics,
	}
}

func nameGenerator(cfg config.NameGenConfig) namegen.Generator {
	if cfg.Backend == "openai_compat" {
		return namegen.NewOpenAICompat(cfg.Endpoint, cfg.Model,
			namegen.WithAPIKey(cfg.APIKey),
			namegen.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
	}
	return namegen.NewTemplate()
}

func notifier(cfg config.NotifyConfig) notify.Notifier {
	if cfg.Webhook.Enabled {
		return notify.NewWebhookNotifier(cfg.Webhook.URL,
			notify.WithHeaders(cfg.Webhook.Headers))
	}
	return notify.Noop{}
}
