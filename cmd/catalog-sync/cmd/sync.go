package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundline/catalog-sync/internal/config"
	"github.com/soundline/catalog-sync/pkg/logger"
	domain "github.com/soundline/catalog-sync/pkg/types"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync <pricelist>",
	Short: "Process one pricelist file",
	Long: "Parses the given pricelist (.xlsx, .xlsm or .csv), matches every record " +
		"against the catalog and applies create/update actions.",
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "match and report without writing to the catalog")
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	a, err := buildApp(ctx, cfg, log, syncDryRun)
	if err != nil {
		return err
	}
	defer a.close()

	run, err := a.engine.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}

	printRunSummary(run, syncDryRun)
	return nil
}

func printRunSummary(run *domain.SyncRun, dryRun bool) {
	if dryRun {
		fmt.Println("Dry run, no catalog writes performed.")
	}
	fmt.Printf("File:     %s\n", run.FileName)
	fmt.Printf("Status:   %s\n", run.Status)
	fmt.Printf("Records:  %d\n", run.Summary.RecordsTotal)
	fmt.Printf("Created:  %d\n", run.Summary.Created)
	fmt.Printf("Updated:  %d\n", run.Summary.Updated)
	fmt.Printf("Skipped:  %d\n", run.Summary.Skipped)
	fmt.Printf("Failed:   %d\n", run.Summary.Failed)
	if run.Summary.CacheDegraded {
		fmt.Println("Warning: matched against a degraded catalog snapshot.")
	}
}
