// Package main is the entry point for the gdpp CLI tool.
package main

import (
	"os"

	"github.com/gdpp-dev/gdpp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
