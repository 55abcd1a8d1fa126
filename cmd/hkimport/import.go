// ABOUTME: CLI command for importing an Apple Health export file.
// ABOUTME: Streams the XML, prints progress, and reports final statistics.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/hkimport/internal/config"
	"github.com/harperreed/hkimport/internal/importer"
)

var (
	importBatchSize   int
	importCommitEvery int
	importTimezone    string
	importNoSeed      bool
)

var importCmd = &cobra.Command{
	Use:   "import <export.xml>",
	Short: "Import an Apple Health export",
	Long: `Import an Apple Health export.xml into the local database.

The file is streamed in a single forward pass, so even multi-gigabyte
exports fit in modest memory. Entries already present in the database
are detected and skipped; running the same import twice adds nothing.

Press Ctrl-C to stop a running import. Batches committed so far stay
in the database and the partial statistics are printed; a later run
picks up the remainder.

TUNING:

  --batch-size     rows buffered per entity kind before a flush
  --commit-every   force a flush after this many parsed elements
  --timezone       IANA zone timestamps are normalized into
  --no-seed        skip preloading existing keys (fresh databases only)

EXAMPLES:

  hkimport import apple_health_export/export.xml
  hkimport import export.xml --db /tmp/health.db
  hkimport import export.xml --timezone America/Chicago
  hkimport import export.xml --batch-size 5000 --commit-every 20000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runImport(ctx, cfg, args[0], cmd.OutOrStdout())
	},
}

func runImport(ctx context.Context, cfg *config.Config, xmlPath string, out io.Writer) error {
	if importBatchSize > 0 {
		cfg.BatchSize = importBatchSize
	}
	if importCommitEvery > 0 {
		cfg.CommitEvery = importCommitEvery
	}
	if importTimezone != "" {
		cfg.Timezone = importTimezone
	}
	if importNoSeed {
		cfg.NoSeed = true
	}

	loc, err := time.LoadLocation(cfg.GetTimezone())
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", cfg.GetTimezone(), err)
	}

	store, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.ApplyBulkTuning(); err != nil {
		return fmt.Errorf("failed to tune database: %w", err)
	}

	seed := importer.DefaultSeedOptions()
	if cfg.NoSeed {
		seed = importer.SeedOptions{}
	}

	faint := color.New(color.Faint)
	imp := importer.New(store, importer.Config{
		BatchSize:   cfg.GetBatchSize(),
		CommitEvery: cfg.GetCommitEvery(),
		Location:    loc,
		Seed:        seed,
		Progress: func(s importer.Stats) {
			faint.Fprintf(out, "  %d elements, %d rows added, %d duplicates\n",
				s.Processed, s.Accepted(), s.Duplicates)
		},
	})

	fmt.Fprintf(out, "Importing %s into %s\n", xmlPath, store.Path())
	started := time.Now()

	stats, runErr := imp.Run(ctx, xmlPath)
	if stats != nil {
		fmt.Fprintln(out)
		stats.Report(out)
		faint.Fprintf(out, "  finished in %s\n", time.Since(started).Round(time.Second))
	}

	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(out, color.YellowString("Import cancelled; committed batches were kept."))
		return runErr
	}
	return runErr
}

func init() {
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", 0, "rows buffered per kind before a flush")
	importCmd.Flags().IntVar(&importCommitEvery, "commit-every", 0, "force a flush after this many elements")
	importCmd.Flags().StringVar(&importTimezone, "timezone", "", "IANA timezone for normalized timestamps")
	importCmd.Flags().BoolVar(&importNoSeed, "no-seed", false, "skip preloading existing identity keys")
	rootCmd.AddCommand(importCmd)
}
