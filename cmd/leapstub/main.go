// Package main provides the leapstub CLI for parsing pytype stub files.
package main

import (
	"os"

	"github.com/leapstack-labs/leapstub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
