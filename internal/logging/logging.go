// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Options selects the log sinks
type Options struct {
	Level   string
	Console io.Writer // colored console output, nil to disable
	File    io.Writer // plain console format, nil to disable
	Graylog string    // GELF UDP address, empty to disable
}

// Manager owns the sinks behind the logger
type Manager struct {
	Logger        zerolog.Logger
	GraylogWriter *gelf.Writer
}

// Setup builds the logger. A Graylog address that cannot be resolved is
// reported on the returned logger and otherwise ignored.
func Setup(opts Options) *Manager {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	m := &Manager{}
	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.RFC3339,
		})
	}
	if opts.File != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	var gelfErr error
	if opts.Graylog != "" {
		m.GraylogWriter, gelfErr = gelf.NewWriter(opts.Graylog)
		if gelfErr == nil {
			writers = append(writers, m.GraylogWriter)
		}
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = zerolog.MultiLevelWriter(writers...)
	}
	m.Logger = zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()

	if gelfErr != nil {
		m.Logger.Warn().Err(gelfErr).Str("address", opts.Graylog).Msg("Graylog writer disabled")
	}
	m.Logger.Info().Str("loglevel", m.Logger.GetLevel().String()).Msg("Logging set up")
	return m
}

// OpenFile creates the logs directory and opens a fresh log file in it
func OpenFile(logsDir, appName string, start time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating logs dir: %w", err)
	}
	path := LogFilePath(logsDir, appName, start)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	return f, nil
}

// Close releases the Graylog connection
func (m *Manager) Close() error {
	if m.GraylogWriter != nil {
		return m.GraylogWriter.Close()
	}
	return nil
}
