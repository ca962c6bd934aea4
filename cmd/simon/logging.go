package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logDir      = "logs"
	logFileName = "simon.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns a logger writing to logs/simon.log when debug is set
// The terminal owns stdout, so without debug every log line is discarded
// The returned file is nil when logging is disabled
func setupLogging(debug bool, level string) (*logrus.Logger, *os.File) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if !debug {
		logger.SetOutput(io.Discard)
		log.SetOutput(io.Discard)
		return logger, nil
	}

	lvl, levelErr := logrus.ParseLevel(level)
	if levelErr != nil {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	file, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		logger.SetOutput(io.Discard)
		log.SetOutput(io.Discard)
		return logger, nil
	}

	logger.SetOutput(file)
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if levelErr != nil {
		logger.WithError(levelErr).Warn("unknown log level, using debug")
	}
	return logger, file
}

// openLogFile rotates an oversized log to a timestamped name and opens a fresh one
func openLogFile() (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", logDir, err)
	}

	path := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("simon_%s.log", time.Now().Format("20060102_150405")))
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("rotate %s: %w", path, err)
		}
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
