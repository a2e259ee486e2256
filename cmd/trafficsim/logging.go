package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	logDir      = "logs"
	logFileName = "trafficsim.log"
	maxLogSize  = 10 * 1024 * 1024
)

// logOptions collects the logging flags
type logOptions struct {
	Level string
	JSON  bool
	// ToFile sends output to logs/ instead of stderr, required while the viewer owns the terminal
	ToFile bool
}

// setupLogging configures logger and returns the opened log file, if any
// An existing log file over maxLogSize is rotated to a timestamped name first
func setupLogging(logger *log.Logger, opts logOptions) (*os.File, error) {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: opts.ToFile})
	}

	if !opts.ToFile {
		logger.SetOutput(os.Stderr)
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return nil, fmt.Errorf("create %s: %w", logDir, err)
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		base := strings.TrimSuffix(logFileName, filepath.Ext(logFileName))
		rotated := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", base, time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger.SetOutput(f)
	return f, nil
}
