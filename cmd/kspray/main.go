// Package main is the entry point for the kspray CLI.
//
// kspray turns the outputs of a Terraform run into a Kubespray inventory,
// runs the Kubespray playbooks against it and installs the resulting
// admin kubeconfig.
//
// Commands: init, apply, inventory, kubeconfig, tunnel, doctor, patch-dns.
//
// For detailed usage information, run:
//
//	kspray --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/kspray/cmd/kspray/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
