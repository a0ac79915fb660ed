// Package main is the entry point for the argoboot CLI.
//
// argoboot bootstraps a local GitOps environment end to end: it
// provisions a minikube cluster, installs Argo CD, provisions the
// repository credentials, applies the root app-of-apps Application,
// and drives the ordered sync waves to completion unattended.
//
// Commands: up, destroy, doctor, version, completion.
//
// For detailed usage information, run:
//
//	argoboot --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/argoboot/cmd/argoboot/commands"
	"github.com/imamik/argoboot/internal/rollout"
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
		os.Exit(rollout.ExitCode(err))
	}
}
