package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feral-file/ff-smartdial/internal/api/shared/dto"
	"github.com/feral-file/ff-smartdial/internal/domain"
)

var lookupLimit int

var lookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Run a smart-dial lookup",
	Long: `Lookup sends a typed query to the service and prints the confirmed matches,
best first. Matched characters are wrapped in brackets.

Example:
  smartdialctl lookup 266
  smartdialctl lookup "ann l" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newAPIClient().Lookup(cmd.Context(), args[0], lookupLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, resp)
		}
		printLookup(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	lookupCmd.Flags().IntVar(&lookupLimit, "limit", domain.MAX_RESULTS, "Maximum number of results")
}

func printLookup(w io.Writer, resp *dto.LookupResponse) {
	if resp.Syncing {
		fmt.Fprintln(w, "index is syncing, try again shortly")
		return
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}

	for i, m := range resp.Results {
		star := " "
		if m.Starred {
			star = "*"
		}
		var numberSpans []domain.Span
		if m.NumberSpan != nil {
			numberSpans = []domain.Span{*m.NumberSpan}
		}
		fmt.Fprintf(w, "%2d %s %-32s %s\n", i+1, star, highlight(m.DisplayName, m.NameSpans), highlight(m.PhoneNumber, numberSpans))
	}
}

// highlight brackets the rune ranges of s covered by spans
func highlight(s string, spans []domain.Span) string {
	if len(spans) == 0 {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		for _, span := range spans {
			if span.Start == i {
				b.WriteRune('[')
			}
		}
		b.WriteRune(r)
		for _, span := range spans {
			if span.End == i+1 {
				b.WriteRune(']')
			}
		}
	}
	return b.String()
}
