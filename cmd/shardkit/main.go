// Package main is the entry point for the shardkit CLI.
package main

import (
	"os"

	"github.com/shardkit/shardkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
