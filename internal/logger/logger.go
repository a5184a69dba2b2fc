package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FilePrefix names log files written under LOG_DIR.
const FilePrefix = "iosplus-extract"

var (
	base zerolog.Logger

	mu   sync.Mutex
	file *os.File
)

// Init configures the global JSON logger.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
//   - LOG_DIR: when set, JSON logs are also appended to
//     LOG_DIR/iosplus-extract_{yyyyMMdd-HHmmss}.log
//
// A LOG_DIR that cannot be created is reported on stderr and ignored; the
// process keeps logging to stdout.
func Init() {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if pretty {
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		w = cw
	}

	mu.Lock()
	defer mu.Unlock()
	closeFile()
	if dir := getenv("LOG_DIR", ""); dir != "" {
		f, err := openLogFile(dir, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		} else {
			file = f
			w = zerolog.MultiLevelWriter(w, f)
		}
	}

	l := zerolog.New(w).With().Timestamp().Logger().Level(level)
	base = l
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	if base.GetLevel() == zerolog.NoLevel {
		Init()
	}
	return &base
}

// Close flushes and closes the LOG_DIR file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFile()
}

func closeFile() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// FileName returns the log file name for a process started at t.
func FileName(t time.Time) string {
	return FilePrefix + "_" + t.Format("20060102-150405") + ".log"
}

func openLogFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
