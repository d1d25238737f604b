// logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}
var levelColors = [...]string{colorGray, colorReset, colorYellow, colorRed}

func (l LogLevel) String() string {
	if l < DEBUG || l > ERROR {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level.
// Unknown names fall back to INFO.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, true
	case "info", "":
		return INFO, true
	case "warn", "warning":
		return WARN, true
	case "error":
		return ERROR, true
	default:
		return INFO, false
	}
}

// sink is one destination; console sinks get colored prefixes.
type sink struct {
	loggers [4]*log.Logger
}

func newSink(w io.Writer, color bool) *sink {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	s := &sink{}
	for lvl, name := range levelNames {
		prefix := fmt.Sprintf("[%-5s] ", name)
		if color {
			prefix = levelColors[lvl] + prefix + colorReset
		}
		s.loggers[lvl] = log.New(w, prefix, flags)
	}
	return s
}

type Logger struct {
	console  *sink
	file     *sink
	handle   *os.File
	minLevel LogLevel
}

var (
	defaultLogger *Logger
	once          sync.Once
	mu            sync.RWMutex
)

// ensureInitialized creates a console logger if none exists
func ensureInitialized() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if defaultLogger == nil {
			defaultLogger = &Logger{console: newSink(os.Stdout, true), minLevel: DEBUG}
		}
	})
}

// Init initializes the logger with optional file and console output
// If filename is empty, logs only to console
// If console is false, logs only to file
func Init(filename string, console bool) error {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()

	next := &Logger{minLevel: defaultLogger.minLevel}

	if filename != "" {
		file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		next.handle = file
		next.file = newSink(file, false)
	}
	if console {
		next.console = newSink(os.Stdout, true)
	}
	if next.file == nil && next.console == nil {
		return fmt.Errorf("no output destination specified")
	}

	if defaultLogger.handle != nil {
		defaultLogger.handle.Close()
	}
	defaultLogger = next
	return nil
}

// SetOutput sends plain, uncolored output to w only. Used by tests.
func SetOutput(w io.Writer) {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger.handle != nil {
		defaultLogger.handle.Close()
	}
	defaultLogger = &Logger{file: newSink(w, false), minLevel: defaultLogger.minLevel}
}

// SetLevel sets the minimum log level (DEBUG, INFO, WARN, ERROR)
// Messages below this level will not be logged
func SetLevel(level LogLevel) {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()
	defaultLogger.minLevel = level
}

// Close closes the log file if one is open
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if defaultLogger != nil && defaultLogger.handle != nil {
		defaultLogger.handle.Close()
		defaultLogger.handle = nil
		defaultLogger.file = nil
	}
}

// emit writes msg at level; depth is the caller depth above emit.
func emit(level LogLevel, depth int, msg string) {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()

	l := defaultLogger
	if level < l.minLevel {
		return
	}
	if l.console != nil {
		l.console.loggers[level].Output(depth+1, msg)
	}
	if l.file != nil {
		l.file.loggers[level].Output(depth+1, msg)
	}
}

func Debug(v ...interface{})                 { emit(DEBUG, 2, fmt.Sprint(v...)) }
func Debugf(format string, v ...interface{}) { emit(DEBUG, 2, fmt.Sprintf(format, v...)) }
func Info(v ...interface{})                  { emit(INFO, 2, fmt.Sprint(v...)) }
func Infof(format string, v ...interface{})  { emit(INFO, 2, fmt.Sprintf(format, v...)) }
func Warn(v ...interface{})                  { emit(WARN, 2, fmt.Sprint(v...)) }
func Warnf(format string, v ...interface{})  { emit(WARN, 2, fmt.Sprintf(format, v...)) }
func Error(v ...interface{})                 { emit(ERROR, 2, fmt.Sprint(v...)) }
func Errorf(format string, v ...interface{}) { emit(ERROR, 2, fmt.Sprintf(format, v...)) }

// Fatal logs an error message and exits the program
func Fatal(v ...interface{}) {
	emit(ERROR, 2, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits the program
func Fatalf(format string, v ...interface{}) {
	emit(ERROR, 2, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Entry prefixes every message with a component name, e.g. "[s3] ".
type Entry struct {
	prefix string
}

// With returns an Entry for the named component.
func With(component string) Entry {
	return Entry{prefix: "[" + component + "] "}
}

func (e Entry) Debugf(format string, v ...interface{}) {
	emit(DEBUG, 2, e.prefix+fmt.Sprintf(format, v...))
}

func (e Entry) Infof(format string, v ...interface{}) {
	emit(INFO, 2, e.prefix+fmt.Sprintf(format, v...))
}

func (e Entry) Warnf(format string, v ...interface{}) {
	emit(WARN, 2, e.prefix+fmt.Sprintf(format, v...))
}

func (e Entry) Errorf(format string, v ...interface{}) {
	emit(ERROR, 2, e.prefix+fmt.Sprintf(format, v...))
}
