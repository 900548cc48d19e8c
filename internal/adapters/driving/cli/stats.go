package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [title]",
	Short: "Summarise stored extraction output",
	Long: `Prints per-status record counts and the number of source-credit
segments the citation grammar could not parse. With a title number the
summary covers that title only; otherwise the whole store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if reporter == nil {
		return errors.New("report service not configured")
	}

	title := ""
	if len(args) > 0 {
		title = args[0]
	}

	stats, err := reporter.TitleStats(context.Background(), title)
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if title != "" {
		cmd.Printf("Title %s\n", title)
	} else {
		cmd.Println("All titles")
	}

	total := 0
	statuses := make([]string, 0, len(stats.RecordsByStatus))
	for status, n := range stats.RecordsByStatus {
		statuses = append(statuses, status)
		total += n
	}
	sort.Strings(statuses)

	for _, status := range statuses {
		cmd.Printf("  %-12s %d\n", status, stats.RecordsByStatus[status])
	}
	cmd.Printf("  %-12s %d\n", "total", total)
	cmd.Printf("  %-12s %d\n", "unparsed", stats.UnparsedSegments)
	return nil
}
