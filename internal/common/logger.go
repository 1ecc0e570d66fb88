package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerWrapper is the logger shared by all roles (replay, server, client).
// Info messages carry a verbosity: they are written only when it doesn't exceed the configured LogLevel.
// Errors are always written; with duplicateToStderr they also reach stderr when logging to a file.
type LoggerWrapper struct {
	impl      *log.Logger
	errImpl   *log.Logger
	verbosity int
	file      *os.File
}

// MakeLogger creates a logger writing to logFile: "stderr", "stdout", "" (discard) or a file path opened for append.
func MakeLogger(prefix string, logFile string, verbosity int, duplicateToStderr bool) (*LoggerWrapper, error) {
	var out io.Writer
	var file *os.File

	switch logFile {
	case "":
		out = io.Discard
	case "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		if err := MkdirForFile(logFile); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("can't open log file %q: %w", logFile, err)
		}
		out = f
		file = f
	}

	impl := log.NewWithOptions(out, log.Options{
		Prefix:          prefix,
		ReportTimestamp: file != nil,
		TimeFormat:      time.DateTime,
		Level:           log.InfoLevel,
	})

	errImpl := impl
	if duplicateToStderr && file != nil {
		errImpl = log.NewWithOptions(io.MultiWriter(file, os.Stderr), log.Options{
			Prefix:          prefix,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
	}

	return &LoggerWrapper{
		impl:      impl,
		errImpl:   errImpl,
		verbosity: verbosity,
		file:      file,
	}, nil
}

// MakeDiscardLogger is used until a real logger is installed.
func MakeDiscardLogger() *LoggerWrapper {
	logger, _ := MakeLogger("", "", -1, false)
	return logger
}

func joinLogArgs(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

func (logger *LoggerWrapper) Info(verbosity int, args ...any) {
	if verbosity <= logger.verbosity {
		logger.impl.Info(joinLogArgs(args))
	}
}

func (logger *LoggerWrapper) Error(args ...any) {
	logger.errImpl.Error(joinLogArgs(args))
}

func (logger *LoggerWrapper) GetFileName() string {
	if logger.file == nil {
		return ""
	}
	return logger.file.Name()
}

func (logger *LoggerWrapper) Close() {
	if logger.file != nil {
		_ = logger.file.Close()
		logger.file = nil
	}
}
