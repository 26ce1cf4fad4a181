// Package main is the entry point for the baystack CLI.
//
// baystack runs a bay conductor: it turns baymodels and bay requests into
// OpenStack Heat stacks and tracks each stack until it settles. The serve
// command exposes the conductor over HTTP; the bay and baymodel commands
// drive it directly.
//
// For detailed usage information, run:
//
//	baystack --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/baystack/cmd/baystack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
