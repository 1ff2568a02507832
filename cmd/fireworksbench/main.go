package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fireworksbench/fireworksbench/internal/config"
	"github.com/fireworksbench/fireworksbench/internal/exporter"
	"github.com/fireworksbench/fireworksbench/internal/httpclient"
	"github.com/fireworksbench/fireworksbench/internal/logging"
	"github.com/fireworksbench/fireworksbench/internal/metrics"
	"github.com/fireworksbench/fireworksbench/internal/output"
	"github.com/fireworksbench/fireworksbench/internal/runner"
	"github.com/fireworksbench/fireworksbench/internal/tracing"
)

const (
	loggerName      = "fireworksbench"
	progressEvery   = time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return execute(ctx, cfg, stdout, stderr)
}

func execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	// Keep stdout clean for the JSON document.
	console := stdout
	if cfg.JSONOutput {
		console = stderr
	}
	logger, logCloser, err := logging.New(loggerName, cfg.Output, console)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Tracing shutdown failed")
		}
	}()

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}
	requester := httpclient.NewRequester(
		httpclient.NewClient(cfg.Timeout),
		builder,
		httpclient.WithTracing(provider),
	)

	store := metrics.NewResultStore()

	if cfg.MetricsAddr != "" {
		srv, err := exporter.Start(cfg.MetricsAddr, exporter.NewCollector(store, cfg.TargetURL, cfg.Concurrency))
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		logger.Info().Msgf("Serving metrics on http://%s/metrics", srv.Addr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var progress *output.ProgressReporter
	if cfg.Progress {
		progress = output.NewProgressReporter(store, progressEvery, stderr)
		progress.Start()
	}

	r := runner.New(runner.Options{
		Target:      cfg.TargetURL,
		Concurrency: cfg.Concurrency,
		Duration:    cfg.Duration,
		QPS:         cfg.Rate(),
		Requester:   requester,
		Retry:       runner.NewRetryPolicy(cfg.Retries, cfg.RetryDelay, metrics.IsTransient),
		Store:       store,
		Logger:      logger,
	})
	record, runErr := r.Run(ctx)

	if progress != nil {
		progress.Stop()
	}
	if runErr == nil && ctx.Err() != nil {
		logger.Warn().Msg("Interrupted, reporting partial results")
	}

	stats := metrics.Aggregate(store, record)
	output.LogReport(logger, stats)

	if err := writeReports(cfg, stats, stdout, logger); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("run %s failed: %w", record.ID, runErr)
	}
	return nil
}

func writeReports(cfg *config.Config, stats metrics.RunStats, stdout io.Writer, logger zerolog.Logger) error {
	if cfg.JSONOutput {
		if err := output.PrintJSONReport(stdout, stats); err != nil {
			return fmt.Errorf("print json report: %w", err)
		}
	}
	if cfg.ReportFile != "" {
		if err := output.WriteReportFile(cfg.ReportFile, stats); err != nil {
			return fmt.Errorf("write report file: %w", err)
		}
		logger.Info().Msgf("Report written to %s", cfg.ReportFile)
	}
	return nil
}
