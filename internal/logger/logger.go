// Package logger provides a process-wide structured logger writing to a
// rotating file under the state directory. All helpers are no-ops until Init
// is called, so library code can log unconditionally.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file name inside Config.Dir.
const FileName = "habit.log"

var (
	mu     sync.RWMutex
	logger *log.Logger
)

// Config holds logger configuration.
type Config struct {
	// Dir is the directory the rotating log file lives in.
	Dir string
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string
	// Debug forces debug level and mirrors output to stderr.
	Debug bool
}

// Init (re)initializes the global logger.
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, FileName),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level = parsed
	}

	var w io.Writer = file
	if cfg.Debug {
		level = log.DebugLevel
		w = io.MultiWriter(os.Stderr, file)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "habit",
	})

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// Get returns the current logger, or nil before Init.
func Get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Reset drops the global logger; subsequent calls are no-ops again.
func Reset() {
	mu.Lock()
	logger = nil
	mu.Unlock()
}

func Debug(msg string, keyvals ...any) {
	if l := Get(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if l := Get(); l != nil {
		l.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if l := Get(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if l := Get(); l != nil {
		l.Error(msg, keyvals...)
	}
}
