package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// latencyRow summarizes the latencies of one query kind
type latencyRow struct {
	Label string
	Count int
	P50   time.Duration
	P90   time.Duration
	P99   time.Duration
	Max   time.Duration
}

func summarize(label string, latencies []time.Duration) latencyRow {
	sorted := sortedCopy(latencies)
	row := latencyRow{Label: label, Count: len(sorted)}
	if len(sorted) == 0 {
		return row
	}
	row.P50 = percentile(sorted, 50)
	row.P90 = percentile(sorted, 90)
	row.P99 = percentile(sorted, 99)
	row.Max = sorted[len(sorted)-1]
	return row
}

func latencyRows(results *Results) []latencyRow {
	var all []time.Duration
	rows := make([]latencyRow, 0, 3)
	for _, kind := range []QueryKind{QueryKindName, QueryKindNumber} {
		rows = append(rows, summarize(string(kind), results.Latencies[kind]))
		all = append(all, results.Latencies[kind]...)
	}
	return append(rows, summarize("all", all))
}

func totalQueries(results *Results) int {
	total := 0
	for _, latencies := range results.Latencies {
		total += len(latencies)
	}
	return total
}

func printResults(w io.Writer, results *Results) {
	total := totalQueries(results)

	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "Sync Pass:\n")
	fmt.Fprintf(w, "  Duration:    %s\n", formatDuration(results.SyncDuration))
	fmt.Fprintf(w, "  Entries:     %d (%s)\n", results.SyncStats.InsertedEntries, formatRate(results.SyncStats.InsertedEntries, results.SyncDuration))
	fmt.Fprintf(w, "  Prefixes:    %d\n", results.Index.Prefixes)
	fmt.Fprintf(w, "  Contacts:    %d\n", results.Index.Contacts)
	if results.SyncStats.SkippedRows > 0 {
		fmt.Fprintf(w, "  Skipped:     %d\n", results.SyncStats.SkippedRows)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Lookups:\n")
	fmt.Fprintf(w, "  Total:       %d in %s (%s)\n", total, formatDuration(results.QueryDuration), formatRate(total, results.QueryDuration))
	fmt.Fprintf(w, "  Empty:       %d (%s)\n", results.EmptyResults, percentageString(results.EmptyResults, total))
	if total > 0 {
		fmt.Fprintf(w, "  Avg Matches: %.2f\n", float64(results.Matches)/float64(total))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-8s %7s %10s %10s %10s %10s\n", "kind", "count", "p50", "p90", "p99", "max")
	for _, row := range latencyRows(results) {
		fmt.Fprintf(w, "  %-8s %7d %10s %10s %10s %10s\n", row.Label, row.Count,
			formatDuration(row.P50), formatDuration(row.P90), formatDuration(row.P99), formatDuration(row.Max))
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
}

// writeMarkdownReport writes a markdown report of the benchmark results
func writeMarkdownReport(filepath string, results *Results) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	writeMarkdown(file, results, time.Now())
	return nil
}

func writeMarkdown(w io.Writer, results *Results, generated time.Time) {
	total := totalQueries(results)

	_, _ = fmt.Fprintf(w, "# Smart-Dial Lookup Benchmark Report\n\n")
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))

	_, _ = fmt.Fprintf(w, "## Workload\n\n")
	_, _ = fmt.Fprintf(w, "| Property | Value |\n")
	_, _ = fmt.Fprintf(w, "|----------|-------|\n")
	_, _ = fmt.Fprintf(w, "| **Contacts** | %d |\n", results.Config.Contacts)
	_, _ = fmt.Fprintf(w, "| **Queries** | %d |\n", results.Config.Queries)
	_, _ = fmt.Fprintf(w, "| **Concurrency** | %d |\n", results.Config.Concurrency)
	_, _ = fmt.Fprintf(w, "| **Seed** | `%d` |\n", results.Config.Seed)
	_, _ = fmt.Fprintf(w, "| **Driver** | %s |\n", results.Config.Driver)
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "## Sync Pass\n\n")
	_, _ = fmt.Fprintf(w, "| Metric | Value |\n")
	_, _ = fmt.Fprintf(w, "|--------|-------|\n")
	_, _ = fmt.Fprintf(w, "| **Duration** | %s |\n", formatDuration(results.SyncDuration))
	_, _ = fmt.Fprintf(w, "| **Entries** | %d |\n", results.SyncStats.InsertedEntries)
	_, _ = fmt.Fprintf(w, "| **Prefixes** | %d |\n", results.Index.Prefixes)
	_, _ = fmt.Fprintf(w, "| **Skipped Rows** | %d |\n", results.SyncStats.SkippedRows)
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "## Lookups\n\n")
	_, _ = fmt.Fprintf(w, "Ran %d lookups in %s (%s), %s returned no match.\n\n",
		total, formatDuration(results.QueryDuration), formatRate(total, results.QueryDuration),
		percentageString(results.EmptyResults, total))
	_, _ = fmt.Fprintf(w, "| Kind | Count | p50 | p90 | p99 | Max |\n")
	_, _ = fmt.Fprintf(w, "|------|-------|-----|-----|-----|-----|\n")
	for _, row := range latencyRows(results) {
		_, _ = fmt.Fprintf(w, "| %s | %d | %s | %s | %s | %s |\n", row.Label, row.Count,
			formatDuration(row.P50), formatDuration(row.P90), formatDuration(row.P99), formatDuration(row.Max))
	}
}
