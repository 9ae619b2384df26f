package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/feral-file/ff-smartdial/internal/api/shared/dto"
)

var statusRuns int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync state and recent passes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newAPIClient().SyncStatus(cmd.Context(), statusRuns)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, resp)
		}
		printStatus(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusRuns, "runs", 5, "Number of recent passes to show")
}

func printStatus(w io.Writer, resp *dto.SyncStatusResponse) {
	fmt.Fprintf(w, "state:     %s\n", resp.State)
	if resp.WatermarkTime != nil {
		fmt.Fprintf(w, "watermark: %d (%s)\n", resp.Watermark, resp.WatermarkTime.Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "watermark: never synced")
	}
	fmt.Fprintf(w, "index:     %d entries, %d prefixes, %d contacts\n", resp.Index.Entries, resp.Index.Prefixes, resp.Index.Contacts)

	if len(resp.RecentRuns) == 0 {
		return
	}
	fmt.Fprintln(w, "recent passes:")
	for _, run := range resp.RecentRuns {
		fmt.Fprintf(w, "  %s  %-9s %6dms  +%d entries  -%d contacts  %d skipped",
			run.StartedAt.Format(time.RFC3339), run.Status, run.DurationMS,
			run.Stats.InsertedEntries, run.Stats.DeletedContacts, run.Stats.SkippedRows)
		if run.Error != nil {
			fmt.Fprintf(w, "  error: %s", *run.Error)
		}
		fmt.Fprintln(w)
	}
}
