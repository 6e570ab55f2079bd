// Package main is the entry point for price-estimator CLI.
package main

import (
	"os"

	"realestate-price/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
