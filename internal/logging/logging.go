package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jrsteele09/go-mock-auth-server/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global zerolog logger: human-readable output on
// stderr and, when a log file is configured, JSON lines in a rotated file.
// The returned closer flushes and closes the file.
func Setup(c config.LogConfig) (io.Closer, error) {
	logger, closer, err := New(c, os.Stderr)
	if err != nil {
		return nil, err
	}
	log.Logger = logger
	zerolog.SetGlobalLevel(logger.GetLevel())
	return closer, nil
}

// New builds a logger writing to console (if non-nil) and the configured file.
func New(c config.LogConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("log level %q: %w", c.GetLogLevel(), err)
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
	}

	var closer io.Closer = nopCloser{}
	if c.GetLogFile() != "" {
		file := &lumberjack.Logger{
			Filename:   c.GetLogFile(),
			MaxSize:    c.GetLogMaxSizeMB(),
			MaxBackups: c.GetLogMaxBackups(),
			MaxAge:     c.GetLogMaxAgeDays(),
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file
	}
	if len(writers) == 0 {
		return zerolog.Logger{}, nil, fmt.Errorf("no log outputs configured")
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
