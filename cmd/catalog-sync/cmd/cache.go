package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/soundline/catalog-sync/internal/catalog"
	"github.com/soundline/catalog-sync/internal/config"
	"github.com/soundline/catalog-sync/pkg/logger"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Load the catalog snapshot and print its stats",
	Long: "Runs all configured search terms against the catalog API and reports " +
		"how many products the matching snapshot would contain.",
	RunE: runCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func runCache(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	rest := catalog.NewRESTClient(cfg.Catalog.BaseURL,
		catalog.WithToken(cfg.Catalog.Token),
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.Timeout}),
		catalog.WithRateLimit(cfg.Catalog.RateLimit.PerSecond, cfg.Catalog.RateLimit.Burst),
	)

	cache := catalog.NewCache(rest, cfg.Catalog.SearchTerms, log)
	snap, err := cache.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	fmt.Printf("Entries:   %d\n", len(snap.Entries))
	fmt.Printf("Loaded at: %s\n", snap.LoadedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Degraded:  %v\n", snap.Degraded)
	if snap.Reason != "" {
		fmt.Printf("Reason:    %s\n", snap.Reason)
	}
	return nil
}
