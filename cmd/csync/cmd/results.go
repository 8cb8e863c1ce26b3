package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/soundline/catalog-sync/internal/api/client"
)

func resultsCmd() *cobra.Command {
	var (
		action    string
		matchType string
		limit     int
		offset    int
	)

	c := &cobra.Command{
		Use:   "results <run-id>",
		Short: "Show match results for a run",
		Args:  cobra.ExactArgs(1),
		Example: `  csync results 4f7c9a12-...
  csync results 4f7c9a12-... --action create
  csync results 4f7c9a12-... --match-type fuzzy_name --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			cl := newClient()
			resp, err := cl.GetResults(context.Background(), args[0], &apiclient.ResultsParams{
				Action:    action,
				MatchType: matchType,
				Limit:     limit,
				Offset:    offset,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Results) == 0 {
				fmt.Println("No results found.")
				return nil
			}
			if err := printResultsTable(resp.Results); err != nil {
				return err
			}
			fmt.Printf("Showing %d of %d results.\n", len(resp.Results), resp.Total)
			return nil
		},
	}

	c.Flags().StringVar(&action, "action", "", "filter by action (create, update, skip)")
	c.Flags().StringVar(&matchType, "match-type", "", "filter by match strategy")
	c.Flags().IntVar(&limit, "limit", 100, "page size")
	c.Flags().IntVar(&offset, "offset", 0, "page offset")

	return c
}
