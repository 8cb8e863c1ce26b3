package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	var limit int

	runsRoot := &cobra.Command{
		Use:   "runs [id]",
		Short: "List sync runs or show one run",
		Args:  cobra.MaximumNArgs(1),
		Example: `  csync runs
  csync runs --limit 50
  csync runs 4f7c9a12-...`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()

			if len(args) == 1 {
				run, err := c.GetRun(context.Background(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(run)
				}
				return printRunDetail(run)
			}

			runs, err := c.ListRuns(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No sync runs found.")
				return nil
			}
			return printRunsTable(runs)
		},
	}

	runsRoot.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return runsRoot
}
