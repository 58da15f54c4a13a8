// Package main is the primitivedb command-line entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/primitivedb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
