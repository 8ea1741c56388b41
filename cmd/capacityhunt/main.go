// Package main is the entry point for the capacityhunt CLI.
//
// capacityhunt repeatedly submits a create-instance request to a cloud provider
// (Oracle Cloud or Hetzner Cloud) until the provider stops rejecting it for lack
// of capacity, then reports the outcome by email and on stdout.
//
// Commands: run, validate, version.
//
// For detailed usage information, run:
//
//	capacityhunt --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/capacityhunt/cmd/capacityhunt/commands"
	"github.com/imamik/capacityhunt/cmd/capacityhunt/handlers"
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
		os.Exit(handlers.ExitCode(err))
	}
}
