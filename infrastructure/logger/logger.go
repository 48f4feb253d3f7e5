package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// New builds the process logger. Output goes to stdout unless LOG_TO_FILE=true,
// in which case logs/<date><env>.log is appended to.
func New(env, level string) *log.Logger {
	logger := log.New()
	logger.Out = output(env)
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat:  time.RFC3339Nano,
		CallerPrettyfier: prettyCaller,
	}
	logger.SetReportCaller(true)
	SetLevel(logger, level)
	return logger
}

// SetLevel applies level, keeping the current one when it does not parse.
func SetLevel(logger *log.Logger, level string) {
	if level == "" {
		return
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("Unknown log level")
		return
	}
	logger.SetLevel(lvl)
}

func output(env string) io.Writer {
	if os.Getenv("LOG_TO_FILE") != "true" {
		return os.Stdout
	}
	cwd, err := os.Getwd()
	if err != nil {
		return os.Stdout
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logs directory %s: %v, falling back to stdout\n", logsDir, err)
		return os.Stdout
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), env))
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stdout\n", filePath, err)
		return os.Stdout
	}
	return f
}

// prettyCaller trims the function to its package-local name and the file to its base.
func prettyCaller(frame *runtime.Frame) (function string, file string) {
	function = frame.Function
	if i := strings.LastIndex(function, "/"); i >= 0 {
		function = function[i+1:]
	}
	return function, fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
