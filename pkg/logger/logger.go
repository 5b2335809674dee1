package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFilename is the log file name used when Config.Filename is empty.
const DefaultFilename = "validator.log"

// Logger wraps zerolog.Logger with additional functionality
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	LogDir     string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	Console    bool // Enable console output (stderr)

	// ConsoleOut replaces stderr as the console destination. Used by tests.
	ConsoleOut io.Writer
}

// New creates a new logger instance.
// Console output goes to stderr so that stdout stays reserved for reports.
func New(cfg Config) *Logger {
	// Set defaults
	if cfg.LogDir == "" {
		cfg.LogDir = "./logs"
	}
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.ConsoleOut == nil {
		cfg.ConsoleOut = os.Stderr
	}

	level := parseLogLevel(cfg.Level)

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		// Fallback to console only if directory creation fails
		return &Logger{
			Logger: zerolog.New(cfg.ConsoleOut).Level(level).With().Timestamp().Logger(),
		}
	}

	// Configure file rotation
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, cfg.Filename),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     30, // days
		Compress:   false,
	}

	writers := []io.Writer{fileWriter}
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        cfg.ConsoleOut,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    false,
		})
	}

	logger := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger, closer: fileWriter}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return FromZerolog(zerolog.Nop())
}

// FromZerolog wraps an existing zerolog logger.
func FromZerolog(zl zerolog.Logger) *Logger {
	return &Logger{Logger: zl}
}

// parseLogLevel converts string log level to zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Close closes the rotating log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
