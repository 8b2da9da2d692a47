package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-order-report/archive"
	"github.com/aluiziolira/go-order-report/catalog"
	"github.com/aluiziolira/go-order-report/config"
	"github.com/aluiziolira/go-order-report/models"
	"github.com/aluiziolira/go-order-report/pipeline"
	"github.com/aluiziolira/go-order-report/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	incomingDefault := defaultCfg.IncomingDir
	if value, ok := config.EnvString("ORDERS_INCOMING"); ok {
		incomingDefault = value
	}
	archiveDefault := defaultCfg.ArchiveDir
	if value, ok := config.EnvString("ORDERS_ARCHIVE"); ok {
		archiveDefault = value
	}
	reportDefault := defaultCfg.ReportFile
	if value, ok := config.EnvString("ORDERS_REPORT"); ok {
		reportDefault = value
	}
	catalogDefault := defaultCfg.CatalogBaseURL
	if value, ok := config.EnvString("ORDERS_CATALOG_URL"); ok {
		catalogDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("ORDERS_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	pauseDefault := defaultCfg.RateLimitPause
	if value, ok, err := config.EnvDuration("ORDERS_RATE_LIMIT_PAUSE"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid ORDERS_RATE_LIMIT_PAUSE: %v\n", err)
		os.Exit(1)
	} else if ok {
		pauseDefault = value
	}

	incomingDir := flag.String("incoming", incomingDefault, "Directory with incoming order files")
	archiveDir := flag.String("archive", archiveDefault, "Archive directory for processed files")
	reportFile := flag.String("report", reportDefault, "Workbook file the report is written to")
	catalogURL := flag.String("catalog-url", catalogDefault, "Catalog service base URL")
	pause := flag.Duration("rate-limit-pause", pauseDefault, "Pause taken after a rate-limited lookup")
	timeout := flag.Duration("timeout", defaultCfg.Timeout, "Catalog request timeout")
	cacheSize := flag.Int("cache-size", defaultCfg.CacheSize, "Product metadata cache entries")
	watch := flag.Bool("watch", false, "Keep running, re-processing when files arrive")
	watchSettle := flag.Duration("watch-settle", defaultCfg.WatchSettle, "Quiet period before a watched run starts")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.IncomingDir = *incomingDir
	cfg.ArchiveDir = *archiveDir
	cfg.ReportFile = *reportFile
	cfg.CatalogBaseURL = *catalogURL
	cfg.RateLimitPause = *pause
	cfg.Timeout = *timeout
	cfg.CacheSize = *cacheSize
	cfg.Watch = *watch
	cfg.WatchSettle = *watchSettle
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := catalog.NewClient(cfg)
	if err != nil {
		slog.Error("initialising catalog client", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(client.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	p := pipeline.New(cfg, client, report.NewWorkbook(cfg.ReportFile), archive.NewMover(cfg.ArchiveDir))

	if cfg.Watch {
		slog.Info("starting in watch mode",
			slog.String("incoming", cfg.IncomingDir),
			slog.Duration("settle", cfg.WatchSettle),
		)
		watcher := pipeline.NewWatcher(cfg.IncomingDir, cfg.WatchSettle, p)
		if err := watcher.Watch(ctx); err != nil {
			slog.Error("watch failed", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		slog.Info("processing incoming orders",
			slog.String("incoming", cfg.IncomingDir),
			slog.String("report", cfg.ReportFile),
		)
		result, err := p.Run(ctx)
		if err != nil {
			slog.Error("run failed", slog.Any("error", err))
			os.Exit(1)
		}
		printSummary(result)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}
}

func printSummary(result *models.RunResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Run complete")
	fmt.Printf("  Sheet:            %s\n", result.SheetName)
	fmt.Printf("  Files seen:       %d\n", result.FilesSeen)
	fmt.Printf("  Text parsed:      %d (skipped %d)\n", result.TextParsed, result.TextSkipped)
	fmt.Printf("  CSV rows:         %d\n", result.CSVRows)
	fmt.Printf("  Products:         %d resolved of %d distinct\n", result.Resolved, result.DistinctProducts)
	fmt.Printf("  Rows reported:    %d\n", result.RowsEmitted)
	fmt.Printf("  Files archived:   %d (failed %d)\n", result.FilesArchived, result.ArchiveFailures)
	fmt.Printf("  Duration:         %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
