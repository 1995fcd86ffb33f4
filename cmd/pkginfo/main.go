// Package main is the entry point of the pkginfo CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/pkginfo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
