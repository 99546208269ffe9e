// Package logging builds the application logger.
package logging

import (
	"io"
	"strings"

	"github.com/phuslu/log"

	"github.com/danmarmu/trading-journal-app/config"
)

// New returns a logger writing to w at cfg.Level. Format "json" writes one
// JSON object per line; anything else writes human readable console lines.
func New(cfg config.LogConfig, w io.Writer) *log.Logger {
	level := strings.ToLower(cfg.Level)
	if level == "" {
		level = "info"
	}

	logger := &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
	}
	if cfg.Format == "json" {
		logger.TimeFormat = ""
		logger.Writer = &log.IOWriter{Writer: w}
	} else {
		logger.Writer = &log.ConsoleWriter{Writer: w}
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
