package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/catalog"
	"github.com/jonathan/jobswipe/internal/llm"
	"github.com/jonathan/jobswipe/internal/parsing"
	"github.com/jonathan/jobswipe/internal/server"
	"github.com/jonathan/jobswipe/internal/server/ratelimit"
)

// defaultCatalogRefresh is used when catalog_refresh is not configured
const defaultCatalogRefresh = 15 * time.Minute

var (
	servePort      int
	serveRefresh   time.Duration
	servePDFToText string
	serveModel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resume parsing and job catalog backend",
	Long: `Start the HTTP backend used by import-resume and the http catalog.

Endpoints:
  POST /parse   multipart upload (field "resume"), PDF only
  GET  /jobs    the job catalog
  GET  /health  liveness check

Resume parsing calls Gemini and needs GEMINI_API_KEY (or api_key in the config file).
PDF text is extracted with pdftotext from poppler-utils.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, fmt.Sprintf("Port to listen on (default $PORT or %d)", server.DefaultPort))
	serveCmd.Flags().DurationVar(&serveRefresh, "catalog-refresh", 0, "How often to reload the job catalog (default 15m)")
	serveCmd.Flags().StringVar(&servePDFToText, "pdftotext", parsing.DefaultPDFToText, "pdftotext executable")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Gemini model for resume parsing (default $GEMINI_MODEL or gemini-2.5-flash)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmConfig := llm.ConfigFromEnv()
	if serveModel != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, serveModel)
	}
	client, err := llm.NewGeminiClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	loader, closeLoader, err := catalog.Open(ctx, cfg.Catalog, cfg.CatalogLocation())
	if err != nil {
		return fmt.Errorf("failed to open job catalog: %w", err)
	}
	defer closeLoader()

	cached := catalog.NewCached(loader, logger)
	interval := cfg.RefreshInterval(defaultCatalogRefresh)
	if serveRefresh > 0 {
		interval = serveRefresh
	}
	refresher := catalog.NewRefresher(cached, interval, logger)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	port := cfg.Port
	if servePort != 0 {
		port = servePort
	}
	srv, err := server.New(
		server.Config{Port: port, RateLimit: ratelimit.LoadConfig()},
		server.Deps{
			Extractor: parsing.PDFToText{Binary: servePDFToText},
			Parser:    parsing.NewParser(client, logger),
			Catalog:   cached,
			Logger:    logger,
		},
	)
	if err != nil {
		return err
	}

	logger.Info("starting jobswipe backend",
		zap.String("addr", srv.Addr()),
		zap.String("catalog", cfg.Catalog),
		zap.Duration("catalog_refresh", interval),
		zap.String("model", llmConfig.GetModel(llm.TierStandard)),
	)
	return srv.Run(ctx)
}
