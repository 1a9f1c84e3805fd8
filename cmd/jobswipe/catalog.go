package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/db"
	"github.com/jonathan/jobswipe/internal/logging"
	"github.com/jonathan/jobswipe/internal/types"
)

var (
	seedFile   string
	seedDBURL  string
	seedDryRun bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the job catalog",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load jobs into the PostgreSQL catalog",
	Long: `Upsert jobs into the job_catalog table used by --catalog postgres.

Jobs come from a JSON array file, or from the bundled catalog when --file is not given.
Catalog order is kept.

Examples:
  jobswipe catalog seed --database-url postgres://localhost/jobswipe
  jobswipe catalog seed --file jobs.json --dry-run`,
	Args: cobra.NoArgs,
	RunE: runCatalogSeed,
}

func init() {
	catalogSeedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON file with an array of jobs (default bundled catalog)")
	catalogSeedCmd.Flags().StringVar(&seedDBURL, "database-url", "", "PostgreSQL connection URL (default $DATABASE_URL)")
	catalogSeedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Validate the jobs without writing them")
	catalogCmd.AddCommand(catalogSeedCmd)
	rootCmd.AddCommand(catalogCmd)
}

func readSeedJobs(cmd *cobra.Command) ([]types.Job, error) {
	var source catalog.Loader = catalog.Default()
	if seedFile != "" {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		static, err := catalog.ParseStatic(data)
		if err != nil {
			return nil, err
		}
		source = static
	}
	return source.FetchAll(cmd.Context())
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	jobs, err := readSeedJobs(cmd)
	if err != nil {
		return err
	}
	if seedDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Would seed %d jobs\n", len(jobs))
		return nil
	}

	dsn := seedDBURL
	if dsn == "" {
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		return errors.New("database URL is required: pass --database-url or set DATABASE_URL")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := catalog.Seed(ctx, database, jobs); err != nil {
		return err
	}

	logger.Info("catalog seeded", zap.Int(logging.FieldCount, len(jobs)))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d jobs\n", len(jobs))
	return nil
}
