package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// attendeeView is the CLI projection of an attendee record.
type attendeeView struct {
	ID            string `json:"id"`
	ExternalID    string `json:"external_id"`
	FullName      string `json:"full_name"`
	LocationState string `json:"location_state"`
	ScanCount     uint64 `json:"scan_count" table:"wide"`
	InsideMinutes uint64 `json:"inside_minutes" table:"wide"`
}

// AttendeeCommand returns the attendee management command.
func AttendeeCommand() *cli.Command {
	return &cli.Command{
		Name:  "attendee",
		Usage: "Manage event attendees",
		Subcommands: []*cli.Command{
			{
				Name:  "provision",
				Usage: "Register a new attendee",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "external-id",
						Usage:    "Stable external identity (e.g., enrollment number)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "full-name",
						Usage:    "Attendee display name",
						Required: true,
					},
				},
				Action: attendeeProvision,
			},
			{
				Name:   "list",
				Usage:  "List attendees with presence state",
				Action: attendeeList,
			},
			{
				Name:      "get",
				Usage:     "Show one attendee",
				ArgsUsage: "<attendee-id>",
				Action:    attendeeGet,
			},
			{
				Name:      "pass",
				Usage:     "Fetch the attendee's current rotating pass token",
				ArgsUsage: "<attendee-id>",
				Action:    attendeePass,
			},
		},
	}
}

func attendeeProvision(c *cli.Context) error {
	client := clientFrom(c)

	resp, err := client.Post(c.Context, "/v1/attendees", map[string]string{
		"external_id": c.String("external-id"),
		"full_name":   c.String("full-name"),
	})
	if err != nil {
		return fmt.Errorf("provision attendee: %w", err)
	}

	var attendee attendeeView
	if err := parseInto(resp, &attendee); err != nil {
		return err
	}

	return printData(c, attendee)
}

func attendeeList(c *cli.Context) error {
	client := clientFrom(c)

	resp, err := client.Get(c.Context, "/v1/attendees")
	if err != nil {
		return fmt.Errorf("list attendees: %w", err)
	}

	var listing struct {
		Total     int            `json:"total"`
		Inside    int            `json:"inside"`
		Attendees []attendeeView `json:"attendees"`
	}
	if err := parseInto(resp, &listing); err != nil {
		return err
	}

	if err := printData(c, listing.Attendees); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\n%d attendees, %d inside\n", listing.Total, listing.Inside)
	return nil
}

func attendeeGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: attendee get <attendee-id>")
	}

	client := clientFrom(c)
	resp, err := client.Get(c.Context, "/v1/attendees/"+c.Args().First())
	if err != nil {
		return fmt.Errorf("get attendee: %w", err)
	}

	var attendee attendeeView
	if err := parseInto(resp, &attendee); err != nil {
		return err
	}

	return printData(c, attendee)
}

func attendeePass(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: attendee pass <attendee-id>")
	}

	client := clientFrom(c)
	resp, err := client.Get(c.Context, "/v1/attendees/"+c.Args().First()+"/pass")
	if err != nil {
		return fmt.Errorf("fetch pass: %w", err)
	}

	var pass struct {
		Token    string `json:"token"`
		Rotation struct {
			SecondsUntilRotation int64 `json:"seconds_until_rotation"`
			RotationInterval     int64 `json:"rotation_interval"`
			GracePeriodSeconds   int64 `json:"grace_period_seconds"`
		} `json:"rotation"`
	}
	if err := parseInto(resp, &pass); err != nil {
		return err
	}

	return printData(c, map[string]any{
		"token":                  pass.Token,
		"seconds_until_rotation": pass.Rotation.SecondsUntilRotation,
		"rotation_interval":      pass.Rotation.RotationInterval,
		"grace_period_seconds":   pass.Rotation.GracePeriodSeconds,
	})
}
