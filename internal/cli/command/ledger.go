package command

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/storage/ledger"
)

// LedgerCommand returns the scan ledger inspection command.
//
// Ledger commands read segment files directly from disk: they are meant
// for offline audit on a stopped server or on copied segments, not for
// live queries.
func LedgerCommand() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "Inspect the append-only scan ledger",
		Subcommands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "Print scan records from ledger segment files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Ledger segment directory (e.g., <data-dir>/ledger)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum records to print (0 = all)",
					},
				},
				Action: ledgerDump,
			},
		},
	}
}

// scanRecordView is the CLI projection of a ledger record.
type scanRecordView struct {
	ID              string `json:"id"`
	AttendeeID      string `json:"attendee_id"`
	OperatorID      string `json:"operator_id" table:"wide"`
	Kind            string `json:"kind"`
	Sequence        uint64 `json:"sequence"`
	DurationMinutes int64  `json:"duration_minutes"`
	At              string `json:"at"`
}

func ledgerDump(c *cli.Context) error {
	reader, err := ledger.NewReader(c.String("dir"))
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer reader.Close()

	limit := c.Int("limit")
	var views []scanRecordView

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read ledger: %w", err)
		}

		views = append(views, scanRecordView{
			ID:              record.ID,
			AttendeeID:      record.AttendeeID,
			OperatorID:      record.OperatorID,
			Kind:            string(record.Kind),
			Sequence:        record.Sequence,
			DurationMinutes: record.DurationMinutes,
			At:              time.UnixMilli(record.Timestamp).UTC().Format(time.RFC3339),
		})
		if limit > 0 && len(views) >= limit {
			break
		}
	}

	if err := printData(c, views); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\n%d records\n", len(views))
	return nil
}
