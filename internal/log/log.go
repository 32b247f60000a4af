// Package log provides structured, colored logging for tonkeys.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// logFile is the file opened by the last Init, if any.
var logFile *os.File

// Component loggers for different parts of the system.
var (
	Verify   zerolog.Logger
	Pipeline zerolog.Logger
	Keystore zerolog.Logger
	CLI      zerolog.Logger
)

func init() {
	// Logs go to stderr; stdout belongs to prompts and results.
	Logger = NewConsoleLogger(os.Stderr, "info")
	initComponentLoggers()
}

// Init initializes the logger with the given configuration.
// When file is non-empty, logs are written to both w (colored or JSON
// depending on jsonOutput) and the file (always JSON for machine parsing).
func Init(w io.Writer, level string, jsonOutput bool, file string) error {
	if w == nil {
		w = os.Stderr
	}
	if err := Close(); err != nil {
		return err
	}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		logFile = f

		var consoleWriter io.Writer
		if jsonOutput {
			consoleWriter = w
		} else {
			consoleWriter = zerolog.ConsoleWriter{
				Out:        w,
				TimeFormat: "15:04:05",
			}
		}

		multi := zerolog.MultiLevelWriter(consoleWriter, f)
		Logger = zerolog.New(multi).
			Level(parseLevel(level)).
			With().
			Timestamp().
			Logger()
	} else if jsonOutput {
		Logger = NewJSONLogger(w, level)
	} else {
		Logger = NewConsoleLogger(w, level)
	}

	initComponentLoggers()
	return nil
}

// Close closes the log file opened by Init. Logging keeps going to the
// console writer until the next Init.
func Close() error {
	if logFile == nil {
		return nil
	}
	f := logFile
	logFile = nil
	return f.Close()
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}

	return zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ValidLevel reports whether level is one of the names Init understands.
func ValidLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error", "disabled":
		return true
	}
	return false
}

// parseLevel converts a string level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func initComponentLoggers() {
	Verify = WithComponent("verify")
	Pipeline = WithComponent("pipeline")
	Keystore = WithComponent("keystore")
	CLI = WithComponent("cli")
}

// WithComponent returns a logger with a component field.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// Info logs an info message.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Benchmark helper for timing operations.
func Benchmark(name string) func() {
	start := time.Now()
	return func() {
		Logger.Debug().
			Str("operation", name).
			Dur("duration", time.Since(start)).
			Msg("benchmark")
	}
}
