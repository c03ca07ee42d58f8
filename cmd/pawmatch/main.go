// Package main provides the entry point for the pawmatch CLI.
package main

import (
	"os"

	"github.com/pawmatch/pawmatch/cmd/pawmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
