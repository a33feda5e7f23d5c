// Package main is the entry point for the mintdapp CLI.
package main

import (
	"os"

	"github.com/capnganj/PoisonToadsDapp/internal/cli"
)

// Set by the linker: -ldflags "-X main.version=v1.0.0 -X main.commit=... -X main.date=..."
//
//nolint:gochecknoglobals // ldflags targets
var (
	version string
	commit  string
	date    string
)

func main() {
	cli.SetBuildInfo(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
