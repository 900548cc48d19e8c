package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [title]",
	Short: "Download the USLM XML release",
	Long: `Downloads the bulk USLM XML release into the local data directory.
If a title number is provided, only that title's archive is downloaded.
An existing corpus is left alone unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

var fetchForce bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false,
		"re-download even when the corpus is already present")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if corpusFetcher == nil {
		return errors.New("fetch service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		title := args[0]
		cmd.Printf("Fetching title %s...\n", title)

		if err := corpusFetcher.FetchTitle(ctx, title, fetchForce); err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		cmd.Printf("Title %s unpacked into %s\n", title, corpusFetcher.DataDir())
		return nil
	}

	cmd.Println("Fetching full release (this downloads several hundred megabytes)...")

	if err := corpusFetcher.Fetch(ctx, fetchForce); err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	cmd.Printf("Release unpacked into %s\n", corpusFetcher.DataDir())
	return nil
}
