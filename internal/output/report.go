package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/fireworksbench/fireworksbench/internal/metrics"
)

// LogReport writes the human-readable summary of stats, one logger line per
// figure.
func LogReport(logger zerolog.Logger, stats metrics.RunStats) {
	logger.Info().Msgf("Total calls: %d", stats.TotalCalls)
	for _, row := range metrics.SortedCounts(stats.StatusGroups) {
		logger.Info().Msgf("%s responses: %d", row.Label, row.Count)
	}
	for _, row := range metrics.SortedCounts(stats.ErrorKinds) {
		logger.Info().Msgf("%s errors: %d", row.Label, row.Count)
	}
	logger.Info().Msgf("Error Rate: %.2f%%", stats.ErrorRate*100)

	logger.Info().Msgf("Total Duration: %.4f s", stats.TotalTime)
	logger.Info().Msgf("Average Latency: %.4f s", stats.AvgLatency)
	logger.Info().Msgf("Minimum Latency: %.4f s", stats.MinLatency)
	logger.Info().Msgf("Maximum Latency: %.4f s", stats.MaxLatency)
	logger.Info().Msgf("Amplitude: %.4f s", stats.Amplitude)
	logger.Info().Msgf("Standard deviation: %.6f", stats.StdDev)
	logger.Info().Msgf("Latency P50/P90/P99: %.4f / %.4f / %.4f s", stats.P50Latency, stats.P90Latency, stats.P99Latency)
	logger.Info().Msgf("Queries Per Second: %.2f", stats.RPS)
	logger.Info().Msgf("Queries Per Minute: %.2f", stats.RPM)
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, stats metrics.RunStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, stats metrics.RunStats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stats); err != nil {
		return err
	}
	return enc.Close()
}

// WriteReportFile saves stats to path. Files ending in .yaml or .yml are
// written as YAML, anything else as JSON.
func WriteReportFile(path string, stats metrics.RunStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = PrintYAMLReport(f, stats)
	default:
		err = PrintJSONReport(f, stats)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}
