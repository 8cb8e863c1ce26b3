// Package main is the entry point for the csync CLI.
package main

import (
	"github.com/soundline/catalog-sync/cmd/csync/cmd"
)

func main() {
	cmd.Execute()
}
