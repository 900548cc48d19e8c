// Package cli implements the uscode command line interface using
// cobra. Commands talk to the core through the driving ports; the
// concrete services are injected by Execute before the root command
// runs, so tests can swap them for fakes.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/uscode-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/uscode-cli/internal/adapters/driven/fetch"
	"github.com/custodia-labs/uscode-cli/internal/adapters/driven/loader"
	"github.com/custodia-labs/uscode-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driving"
	"github.com/custodia-labs/uscode-cli/internal/core/services"
	"github.com/custodia-labs/uscode-cli/internal/logger"
)

// Injected services. Commands nil-check these so tests can run
// individual commands without full wiring.
var (
	version = "dev"

	configStore   driven.ConfigStore
	corpusFetcher driven.CorpusFetcher
	recordStore   driven.RecordStore
	extractor     driving.Extractor
	reporter      driving.ReportService

	sqliteStore *sqlite.Store
)

var (
	cfgDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "uscode",
	Short: "Extract structured section records from the United States Code",
	Long: `uscode downloads the USLM XML release of the United States Code and
extracts one structured record per section: hierarchy path, normalised
text, parsed legislative history, cross-references and a content hash.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "",
		"config directory (default ~/.uscode)")
}

// Execute wires the concrete adapters and runs the root command.
func Execute(v string) error {
	version = v

	// Parse persistent flags early so --config is visible during
	// wiring. Errors surface again from rootCmd.Execute.
	_ = rootCmd.PersistentFlags().Parse(os.Args[1:]) //nolint:errcheck

	if err := initDependencies(); err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	defer func() {
		if sqliteStore != nil {
			_ = sqliteStore.Close() //nolint:errcheck
		}
	}()

	return rootCmd.Execute()
}

// initDependencies builds the adapter graph behind the driving ports.
func initDependencies() error {
	cfg, err := file.NewConfigStore(cfgDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	dataDir, err := resolveDataDir(cfg)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	sqliteStore = store
	recordStore = store.RecordStore()

	corpusFetcher = fetch.New(dataDir, cfg.GetString("fetch.release_base"))

	docLoader, err := loader.New(dataDir, cfg.GetInt("extract.cache_size"))
	if err != nil {
		return fmt.Errorf("opening document loader: %w", err)
	}

	extractor = services.NewExtractOrchestrator(
		docLoader,
		store.RecordStore(),
		store.SourceFileStore(),
		nil,
		version,
	)
	reporter = services.NewReportService(store.RecordStore())

	logger.Debug("wired data directory %s", dataDir)
	return nil
}

// resolveDataDir picks the corpus directory: config value first, then
// ~/.uscode/data.
func resolveDataDir(cfg driven.ConfigStore) (string, error) {
	if dir := cfg.GetString("fetch.data_dir"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".uscode", "data"), nil
}
