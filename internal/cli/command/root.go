// Package command provides CLI command definitions for gate-admin.
//
// It uses urfave/cli/v2 for command parsing. Every command that talks to
// the gate service authenticates with admin operator credentials taken
// from the global flags or the environment.
package command

import (
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/cli/connection"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/cli/output"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gate-admin",
		Usage:   "Event gate management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AttendeeCommand(),
			OperatorCommand(),
			AssetCommand(),
			LedgerCommand(),
			SystemCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Gate service address (e.g., localhost:5080)",
			EnvVars: []string{"EVENTGATE_SERVER"},
			Value:   "localhost:5080",
		},
		&cli.StringFlag{
			Name:    "operator-id",
			Aliases: []string{"u"},
			Usage:   "Admin operator ID for authentication",
			EnvVars: []string{"EVENTGATE_OPERATOR_ID"},
		},
		&cli.StringFlag{
			Name:    "device-secret",
			Aliases: []string{"p"},
			Usage:   "Device secret for authentication",
			EnvVars: []string{"EVENTGATE_DEVICE_SECRET"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
	}
}

// clientFrom builds an HTTP client from the global flags.
func clientFrom(c *cli.Context) *connection.Client {
	return connection.NewClient(
		c.String("server"),
		c.String("operator-id"),
		c.String("device-secret"),
	)
}

// parseInto unwraps a server response envelope into target.
func parseInto(resp *http.Response, target any) error {
	return connection.ParseResponse(resp, target)
}

// printData writes data to stdout in the requested format.
func printData(c *cli.Context, data any) error {
	formatter := output.NewFormatter(output.Format(c.String("output")), c.Bool("wide"))
	return formatter.Format(c.App.Writer, data)
}
