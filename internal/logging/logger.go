// Package logging builds the run logger: one line per event, written both
// to an append-only log file and to a console stream.
//
// Lines look like
//
//	2026-01-02 15:04:05 - fireworksbench - INFO - runner.go:42 - Test finished
package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const timeLayout = "2006-01-02 15:04:05"

// New returns an INFO-level logger named name. Lines are appended to the
// file at path (skipped when path is empty) and mirrored to console (skipped
// when nil). The returned Closer releases the log file.
func New(name, path string, console io.Writer) (zerolog.Logger, io.Closer, error) {
	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if path != "" {
		file, err := OpenFile(path)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		writers = append(writers, newLineWriter(name, file))
		closer = file
	}
	if console != nil {
		writers = append(writers, newLineWriter(name, console))
	}
	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
	return logger, closer, nil
}

func newLineWriter(name string, out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FormatTimestamp: func(i interface{}) string {
			return formatTimestamp(i) + " - " + name + " -"
		},
		FormatLevel: func(i interface{}) string {
			level := strings.ToUpper(fmt.Sprint(i))
			if level == "WARN" {
				level = "WARNING"
			}
			return level + " -"
		},
		FormatCaller: func(i interface{}) string {
			caller, _ := i.(string)
			if caller == "" {
				return "- -"
			}
			return filepath.Base(caller) + " -"
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}

func formatTimestamp(i interface{}) string {
	s, ok := i.(string)
	if !ok {
		return time.Now().Format(timeLayout)
	}
	ts, err := time.Parse(zerolog.TimeFieldFormat, s)
	if err != nil {
		return s
	}
	return ts.Local().Format(timeLayout)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
