// Package main is the entry point for the catalog-sync service.
package main

import (
	"os"

	"github.com/soundline/catalog-sync/cmd/catalog-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
