package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List stored section records",
	Long: `Queries the record store populated by extract. Records print one per
line in document order; use the flags to narrow by title, section
number or status.`,
	RunE: runRecords,
}

var (
	recordsTitle   string
	recordsSection string
	recordsStatus  string
	recordsLimit   int
)

func init() {
	recordsCmd.Flags().StringVarP(&recordsTitle, "title", "t", "",
		"filter by Code title number")
	recordsCmd.Flags().StringVarP(&recordsSection, "section", "s", "",
		"filter by section number")
	recordsCmd.Flags().StringVar(&recordsStatus, "status", "",
		"filter by status (operational, repealed, reserved)")
	recordsCmd.Flags().IntVarP(&recordsLimit, "limit", "n", 0,
		"maximum number of records to print (0 = no limit)")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, _ []string) error {
	if recordStore == nil {
		return errors.New("record store not configured")
	}

	filter := driven.RecordFilter{
		TitleNumber:   recordsTitle,
		SectionNumber: recordsSection,
		Status:        recordsStatus,
		Limit:         recordsLimit,
	}

	records, err := recordStore.ListRecords(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No records found. Run extract first.")
		return nil
	}

	for _, rec := range records {
		status := ""
		if rec.Status != domain.StatusOperational {
			status = fmt.Sprintf(" [%s]", rec.Status)
		}
		cmd.Printf("%-24s %s%s\n", rec.Citation, rec.Heading, status)
	}
	cmd.Printf("\n%d record(s).\n", len(records))
	return nil
}
