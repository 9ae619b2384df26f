package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a sync pass",
	Long: `Sync asks the service to bring the index up to date with the contact
directory. The pass runs in the background; a pass already in flight is not
restarted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newAPIClient().TriggerSync(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, resp)
		}

		if resp.Accepted {
			fmt.Fprintln(cmd.OutOrStdout(), "sync pass scheduled")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "a sync pass is already running")
		}
		return nil
	},
}
