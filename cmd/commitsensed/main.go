// Package main is the entry point for the commitsensed daemon.
package main

import "github.com/commitsense/commitsense/internal/daemon/cmd"

func main() {
	cmd.Execute()
}
