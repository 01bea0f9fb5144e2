// Package main is the single-binary entrypoint for Life OS:
// one binary carrying the CLI, the daemon, and the API server.
package main

import "github.com/lifeos-sh/lifeos/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
