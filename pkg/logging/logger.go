package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level controls which entries a Logger emits.
type Level int

const (
	// LevelDebug emits everything
	LevelDebug Level = iota
	// LevelInfo emits info, warnings and errors (default)
	LevelInfo
	// LevelWarn emits warnings and errors
	LevelWarn
	// LevelError emits errors only
	LevelError
)

// ParseVerbosity maps a configured verbosity name to a Level.
// Unknown names map to LevelInfo.
func ParseVerbosity(verbosity string) Level {
	switch verbosity {
	case "quiet":
		return LevelWarn
	case "verbose", "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// sink is the shared destination of a logger and every child derived from it.
type sink struct {
	mu        sync.Mutex
	logger    *log.Logger
	file      *os.File
	logPath   string
	level     Level
	closeOnce sync.Once
}

// Logger provides structured logging for harness components.
//
// Entries are formatted as "[timestamp] [component] [LEVEL] message". Loggers
// created with With share the parent's destination and level.
type Logger struct {
	runID     string
	component string
	sink      *sink
}

var (
	// Global run ID for the current process
	runID     string
	runIDOnce sync.Once
)

// getRunID returns or creates the run ID for this process
func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// New creates a logger for a component that writes to w.
func New(component string, w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		runID:     getRunID(),
		component: component,
		sink: &sink{
			logger: log.New(w, "", 0), // We'll format timestamps ourselves
			level:  LevelInfo,
		},
	}
}

// NewRunLogger creates a logger that writes to <dir>/<run-id>-uiharness.log
// and mirrors every entry to console.
//
// If the directory cannot be created or the log file cannot be opened, it
// returns a fallback logger that writes to stderr along with the error.
// Callers can check the error to detect fallback mode.
func NewRunLogger(component, dir string, console io.Writer) (*Logger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		err = fmt.Errorf("failed to create log directory: %w", err)
		return newFallbackLogger(component, err), err
	}

	id := getRunID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-uiharness.log", id))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	var w io.Writer = file
	if console != nil {
		w = io.MultiWriter(file, console)
	}

	return &Logger{
		runID:     id,
		component: component,
		sink: &sink{
			logger:  log.New(w, "", 0),
			file:    file,
			logPath: logPath,
			level:   LevelInfo,
		},
	}, nil
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, err error) *Logger {
	l := New(component, os.Stderr)
	l.Warnf("failed to initialize file logging: %v", err)
	l.Warnf("falling back to stderr logging")
	return l
}

// With returns a logger for another component sharing this logger's destination.
func (l *Logger) With(component string) *Logger {
	return &Logger{
		runID:     l.runID,
		component: component,
		sink:      l.sink,
	}
}

// SetLevel sets the minimum level for this logger and every logger sharing its destination.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// formatLogEntry creates a structured log entry with timestamp, component, and level
func (l *Logger) formatLogEntry(level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level Level, name, format string, v ...interface{}) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level < l.sink.level {
		return
	}
	message := fmt.Sprintf(format, v...)
	l.sink.logger.Println(l.formatLogEntry(name, message))
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelInfo, "INFO", format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelWarn, "WARN", format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelError, "ERROR", format, v...)
}

// RunID returns the current run ID
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the path to the log file, empty when not file-backed
func (l *Logger) LogPath() string {
	return l.sink.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.sink.closeOnce.Do(func() {
		if l.sink.file != nil {
			err = l.sink.file.Close()
		}
	})
	return err
}
