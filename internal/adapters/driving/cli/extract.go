package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/uscode-cli/internal/adapters/driven/fetch"
	"github.com/custodia-labs/uscode-cli/internal/adapters/driven/output"
	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driving"
	"github.com/custodia-labs/uscode-cli/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract section records from USLM XML",
	Long: `Runs the extraction engine over one title file, one title number, or
the whole corpus, writing one output file per source document. Results
are also persisted to the record store for querying with records and
stats.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var (
	extractTitle   string
	extractAll     bool
	extractFormat  string
	extractOut     string
	extractForce   bool
	extractWorkers int
	extractWatch   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractTitle, "title", "t", "",
		"extract one title by number (e.g. 5 or 50A)")
	extractCmd.Flags().BoolVar(&extractAll, "all", false,
		"extract every title in the data directory")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json",
		"output format: json or csv")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "",
		"output directory (default ./out)")
	extractCmd.Flags().BoolVar(&extractForce, "force", false,
		"re-extract files whose source XML is unchanged")
	extractCmd.Flags().IntVarP(&extractWorkers, "workers", "w", 0,
		"section worker pool size (0 selects a CPU-based default)")
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false,
		"keep running and re-extract title files as they change")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractor == nil {
		return errors.New("extract service not configured")
	}

	writer, err := newWriter(extractFormat, extractOut)
	if err != nil {
		return err
	}

	opts := driving.ExtractOptions{
		Force:   extractForce,
		Workers: extractWorkers,
		Persist: true,
	}

	ctx := context.Background()

	switch {
	case len(args) > 0:
		if err := extractOne(ctx, cmd, args[0], opts, writer); err != nil {
			return err
		}
	case extractTitle != "":
		if err := extractOne(ctx, cmd, fetch.TitleFileName(extractTitle), opts, writer); err != nil {
			return err
		}
	case extractAll:
		results, err := extractor.ExtractAll(ctx, opts)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		for _, result := range results {
			if err := writer.Write(ctx, result); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			printSummary(cmd, result)
		}
		cmd.Printf("Extracted %d title file(s).\n", len(results))
	default:
		return errors.New("specify a file, --title, or --all")
	}

	if extractWatch {
		return watchAndExtract(ctx, cmd, opts, writer)
	}
	return nil
}

// extractOne runs one file through the engine and the writer.
func extractOne(
	ctx context.Context,
	cmd *cobra.Command,
	path string,
	opts driving.ExtractOptions,
	writer driven.RecordWriter,
) error {
	result, err := extractor.ExtractFile(ctx, path, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if err := writer.Write(ctx, result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	printSummary(cmd, result)
	return nil
}

// printSummary prints a one-line per-file digest.
func printSummary(cmd *cobra.Command, result *domain.ExtractionResult) {
	cmd.Printf("%s: %d sections, %d processing note(s)\n",
		filepath.Base(result.SourceFile), len(result.Records), len(result.Notes))
	for _, note := range result.Notes {
		logger.Debug("note [%s] %s: %s", note.Kind, note.SectionID, note.Detail)
	}
}

// watchAndExtract re-extracts title files whenever the data directory
// reports a write. Runs until interrupted.
func watchAndExtract(
	ctx context.Context,
	cmd *cobra.Command,
	opts driving.ExtractOptions,
	writer driven.RecordWriter,
) error {
	if corpusFetcher == nil {
		return errors.New("fetch service not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dataDir := corpusFetcher.DataDir()
	if err := watcher.Add(dataDir); err != nil {
		return fmt.Errorf("watching %s: %w", dataDir, err)
	}
	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", dataDir)

	// Changed files always re-extract; the bookkeeping skip would
	// otherwise race the write event.
	opts.Force = true

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isTitleFile(event.Name) {
				continue
			}
			logger.Debug("change detected: %s", event.Name)
			if err := extractOne(ctx, cmd, filepath.Base(event.Name), opts, writer); err != nil {
				cmd.PrintErrf("re-extract %s: %v\n", filepath.Base(event.Name), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// newWriter selects the output writer for a format name.
func newWriter(format, outDir string) (driven.RecordWriter, error) {
	if outDir == "" {
		outDir = "out"
	}
	switch strings.ToLower(format) {
	case "json":
		return output.NewJSONWriter(outDir), nil
	case "csv":
		return output.NewCSVWriter(outDir), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}

// isTitleFile reports whether a path looks like a release title file.
func isTitleFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "usc") && strings.HasSuffix(base, ".xml")
}
