package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// AssetCommand returns the asset token command.
func AssetCommand() *cli.Command {
	return &cli.Command{
		Name:  "asset",
		Usage: "Manage non-rotating asset tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "token",
				Usage: "Issue the signed token for an asset (printed on the physical badge)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "asset-id",
						Usage:    "Asset identity the token is bound to",
						Required: true,
					},
				},
				Action: assetToken,
			},
		},
	}
}

func assetToken(c *cli.Context) error {
	client := clientFrom(c)

	resp, err := client.Post(c.Context, "/v1/assets/tokens", map[string]string{
		"asset_id": c.String("asset-id"),
	})
	if err != nil {
		return fmt.Errorf("issue asset token: %w", err)
	}

	var issued struct {
		AssetID string `json:"asset_id"`
		Token   string `json:"token"`
	}
	if err := parseInto(resp, &issued); err != nil {
		return err
	}

	return printData(c, map[string]string{
		"asset_id": issued.AssetID,
		"token":    issued.Token,
	})
}
