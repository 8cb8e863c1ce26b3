package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <server-path>",
		Short: "Process a pricelist on the server",
		Long: "Asks the server to process a pricelist file by its server-side path.\n" +
			"The file must already be on the server (e.g. in the inbox directory).",
		Args: cobra.ExactArgs(1),
		Example: `  csync sync /data/pricelists/inbox/march.xlsx
  csync sync /data/pricelists/inbox/march.xlsx --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			run, err := c.TriggerSync(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(run)
			}
			return printRunDetail(run)
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the server is up",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			if err := c.Health(context.Background()); err != nil {
				return err
			}
			fmt.Println("Server is up.")
			return nil
		},
	}
}
