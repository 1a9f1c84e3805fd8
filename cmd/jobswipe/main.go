// Package main is the jobswipe command line.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	storeKind     string
	storeDSN      string
	catalogSource string
	catalogURL    string
	verbose       bool
	jsonLogs      bool
)

var rootCmd = &cobra.Command{
	Use:   "jobswipe",
	Short: "Swipe through job listings from the terminal",
	Long: `jobswipe keeps a profile, a job catalog cursor and a saved-jobs list.

Each command loads the persisted state, applies one change and writes it back.
The serve command runs the companion backend used for resume parsing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a JSON config file")
	pf.StringVar(&storeKind, "store", "", "State store: memory, file, sqlite, redis or postgres (default sqlite)")
	pf.StringVar(&storeDSN, "store-dsn", "", "Store location: directory, database path or connection URL")
	pf.StringVar(&catalogSource, "catalog", "", "Job catalog: static, http or postgres (default static)")
	pf.StringVar(&catalogURL, "catalog-url", "", "Base URL of a server exposing GET /jobs")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
