// Package main provides the entry point for gate-admin.
//
// gate-admin is the command-line management tool for the gate service:
// attendee and operator provisioning, asset token issuance, and offline
// scan ledger inspection.
package main

import (
	"fmt"
	"os"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
