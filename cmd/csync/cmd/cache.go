package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/soundline/catalog-sync/internal/api/client"
)

func cacheCmd() *cobra.Command {
	cacheRoot := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reload the server's catalog snapshot",
	}

	cacheRoot.AddCommand(
		cacheShowCmd(),
		cacheReloadCmd(),
	)

	return cacheRoot
}

func cacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show snapshot stats",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			status, err := c.GetCacheStatus(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(status)
			}
			printCacheStatus(status)
			return nil
		},
	}
}

func cacheReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Rebuild the snapshot from the catalog API",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			status, err := c.ReloadCache(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(status)
			}
			fmt.Println("Snapshot reloaded.")
			printCacheStatus(status)
			return nil
		},
	}
}

func printCacheStatus(s *apiclient.CacheStatus) {
	fmt.Printf("Entries:   %d\n", s.Entries)
	fmt.Printf("Loaded at: %s\n", s.LoadedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Degraded:  %v\n", s.Degraded)
	if s.Reason != "" {
		fmt.Printf("Reason:    %s\n", s.Reason)
	}
}
