package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/okian/instock/internal/adapters/export"
	"github.com/okian/instock/internal/adapters/repository"
	"github.com/okian/instock/internal/adapters/source"
	"github.com/okian/instock/internal/config"
	"github.com/okian/instock/internal/domain/catalog"
	"github.com/okian/instock/internal/pipeline"
	"github.com/okian/instock/pkg/logger"
)

const defaultBuildTimeout = 30 * time.Minute

func main() {
	var (
		fromFile     = flag.String("from-file", "", "Load the catalog from a saved document instead of fetching it")
		catalogPath  = flag.String("catalog", "", "Where a fetched catalog is written (default <data_dir>/catalog.json)")
		reportOnly   = flag.Bool("report-only", false, "Print the stock report and write nothing")
		physicalOnly = flag.Bool("physical-only", false, "Keep only products the info endpoint reports as physical")
		outputJSON   = flag.String("output-json", "", "items.json path (default <data_dir>/items.json; \"-\" disables)")
		logFile      = flag.String("log", "", "Also write logs to this file")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		pipeline.ShowHelp(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultBuildTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	closeLog, err := pipeline.SetupLogging(cfg.LogFormat, *logFile)
	if err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	runCfg := &pipeline.Config{
		FromFile:     *fromFile,
		CatalogPath:  orDefault(*catalogPath, filepath.Join(cfg.DataDir, "catalog.json")),
		ReportOnly:   *reportOnly,
		PhysicalOnly: *physicalOnly,
		OutputJSON:   orDefault(*outputJSON, filepath.Join(cfg.DataDir, export.ItemsFile)),
		BuiltAt:      os.Getenv(export.BuildTimestampEnv),
		LogFile:      *logFile,
	}
	if runCfg.OutputJSON == "-" {
		runCfg.OutputJSON = ""
	}

	if err := run(ctx, cfg, runCfg); err != nil {
		logger.Get().Error(ctx, "build failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, runCfg *pipeline.Config) error {
	hc := &http.Client{Timeout: cfg.HTTPTimeout()}
	opts := []pipeline.Option{
		pipeline.WithFetcher(source.NewClient(
			source.WithBaseURL(cfg.APIURL),
			source.WithAPIKey(cfg.APIKey),
			source.WithCollection(cfg.Collection),
			source.WithPageSize(cfg.PageSize),
			source.WithPageDelay(cfg.PageDelay(), cfg.DelayEvery),
			source.WithHTTPClient(hc),
		)),
		pipeline.WithPhysicalFilter(source.NewInfoProbe(cfg.InfoURL, hc)),
		pipeline.WithBuilder(catalog.NewBuilder(catalog.WithProductBaseURL(cfg.ProductBaseURL))),
	}

	if cfg.DatabaseURL != "" && !runCfg.ReportOnly {
		store, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		opts = append(opts, pipeline.WithStore(store))
	}

	_, err := pipeline.New(opts...).Run(ctx, runCfg)
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
