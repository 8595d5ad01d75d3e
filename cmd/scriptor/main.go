package main

import (
	"os"

	"github.com/dshills/scriptor/cmd/scriptor/cmd"
)

// main dispatches to the CLI command tree.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
