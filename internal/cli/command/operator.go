package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// operatorView is the CLI projection of an operator record.
type operatorView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ScanTotal uint64 `json:"scan_total" table:"wide"`
}

// OperatorCommand returns the operator management command.
func OperatorCommand() *cli.Command {
	return &cli.Command{
		Name:  "operator",
		Usage: "Manage scanning operators",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a new operator and print its device secret",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Operator display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "role",
						Usage: "Operator role: operator or admin",
						Value: "operator",
					},
				},
				Action: operatorCreate,
			},
			{
				Name:   "list",
				Usage:  "List operators",
				Action: operatorList,
			},
			{
				Name:      "enable",
				Usage:     "Re-enable a disabled operator",
				ArgsUsage: "<operator-id>",
				Action:    operatorSetStatus("enable"),
			},
			{
				Name:      "disable",
				Usage:     "Disable an operator",
				ArgsUsage: "<operator-id>",
				Action:    operatorSetStatus("disable"),
			},
		},
	}
}

func operatorCreate(c *cli.Context) error {
	client := clientFrom(c)

	resp, err := client.Post(c.Context, "/v1/operators", map[string]string{
		"full_name": c.String("name"),
		"role":      c.String("role"),
	})
	if err != nil {
		return fmt.Errorf("create operator: %w", err)
	}

	var created struct {
		Operator     operatorView `json:"operator"`
		DeviceSecret string       `json:"device_secret"`
	}
	if err := parseInto(resp, &created); err != nil {
		return err
	}

	if err := printData(c, created.Operator); err != nil {
		return err
	}

	// The secret is shown once and never retrievable again.
	fmt.Fprintf(c.App.Writer, "\ndevice secret (store it now): %s\n", created.DeviceSecret)
	return nil
}

func operatorList(c *cli.Context) error {
	client := clientFrom(c)

	resp, err := client.Get(c.Context, "/v1/operators")
	if err != nil {
		return fmt.Errorf("list operators: %w", err)
	}

	var operators []operatorView
	if err := parseInto(resp, &operators); err != nil {
		return err
	}

	return printData(c, operators)
}

func operatorSetStatus(verb string) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("usage: operator %s <operator-id>", verb)
		}

		client := clientFrom(c)
		resp, err := client.Post(c.Context, "/v1/operators/"+c.Args().First()+"/"+verb, nil)
		if err != nil {
			return fmt.Errorf("%s operator: %w", verb, err)
		}

		var operator operatorView
		if err := parseInto(resp, &operator); err != nil {
			return err
		}

		return printData(c, operator)
	}
}
