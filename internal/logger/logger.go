// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// Messages are printf-formatted and written either as plain lines or, with the
// "json" format, as one JSON object per line.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual human review.
	WarnLevel
	// ErrorLevel logs are high-priority. If an application is running smoothly, it shouldn't generate any error-level logs.
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger provides leveled logging
type Logger struct {
	level  Level
	json   bool
	logger *log.Logger
}

type jsonLine struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"msg"`
}

var (
	// Global logger instance
	defaultLogger *Logger
)

// Init initializes the default logger with the specified level and format
func Init(level string, format string) {
	InitWithOutput(level, format, os.Stderr)
}

// InitWithOutput is Init with an explicit destination, used by tests.
func InitWithOutput(level, format string, out io.Writer) {
	isJSON := strings.ToLower(format) == "json"

	flags := log.LstdFlags | log.Lmicroseconds
	if isJSON {
		flags = 0
	}

	defaultLogger = &Logger{
		level:  ParseLevel(level),
		json:   isJSON,
		logger: log.New(out, "", flags),
	}
}

func logf(l Level, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > l {
		return
	}
	defaultLogger.write(l, fmt.Sprintf(format, args...))
}

func (lg *Logger) write(l Level, msg string) {
	if lg.json {
		line, err := jsoniter.ConfigFastest.Marshal(jsonLine{
			Time:    time.Now().Format(time.RFC3339Nano),
			Level:   strings.ToLower(l.String()),
			Message: msg,
		})
		if err == nil {
			_ = lg.logger.Output(3, string(line))
			return
		}
	}
	_ = lg.logger.Output(3, "["+l.String()+"] "+msg)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	logf(DebugLevel, format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	logf(InfoLevel, format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	logf(WarnLevel, format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	logf(ErrorLevel, format, args...)
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if defaultLogger != nil {
		defaultLogger.write(ErrorLevel, "[FATAL] "+msg)
	} else {
		log.Print("[FATAL] " + msg)
	}
	os.Exit(1)
}
