// Package cmd implements the CLI commands for catalog-sync.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "catalog-sync",
	Short: "Sync supplier pricelists into the store catalog",
	Long: "A service that parses supplier pricelists, resolves each product against " +
		"the store catalog via fuzzy matching, and creates or updates catalog products.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
