package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/buildinfo"
)

// SystemCommand returns the system inspection command.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:  "system",
		Usage: "Inspect the gate service",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server liveness",
				Action: systemHealth,
			},
			{
				Name:   "version",
				Usage:  "Show client build information",
				Action: systemVersion,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	client := clientFrom(c)

	resp, err := client.Get(c.Context, "/health")
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := parseInto(resp, &health); err != nil {
		return err
	}

	return printData(c, map[string]string{
		"server":  client.BaseURL(),
		"status":  health.Status,
		"version": health.Version,
	})
}

func systemVersion(c *cli.Context) error {
	return printData(c, buildinfo.Get())
}
