// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a stdout logger, formatted for the ENVIRONMENT variable
func NewLogger(logLevel string) *logrus.Logger {
	return NewLoggerFor(logLevel, os.Getenv("ENVIRONMENT"), os.Stdout)
}

// NewLoggerFor creates a logger writing to out. Production gets JSON lines,
// everything else colored text.
func NewLoggerFor(logLevel, environment string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   out == os.Stdout || out == os.Stderr,
		})
	}

	return logger
}

// OrDiscard returns log, or a logger that drops everything when log is nil.
func OrDiscard(log *logrus.Logger) *logrus.Logger {
	if log != nil {
		return log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
