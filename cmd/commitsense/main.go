// Package main is the entry point for the commitsense CLI.
package main

import (
	"os"

	"github.com/commitsense/commitsense/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
