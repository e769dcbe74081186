package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger  *zap.Logger
	restore func()
)

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "NMWIFI_LOG_LEVEL"

// DefaultLogFile is where log output goes when no file is configured. The TUI
// owns stdout, so logs never go to the terminal.
const DefaultLogFile = "nmwifi-debug.log"

// Initialize creates a new logger with the specified level writing to path.
// If level is empty, it checks NMWIFI_LOG_LEVEL. If neither is set, logging
// is disabled. An empty path means DefaultLogFile in the temp directory.
func Initialize(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		setLogger(zap.NewNop())
		return nil
	}

	zapLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	if path == "" {
		path = filepath.Join(os.TempDir(), DefaultLogFile)
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	setLogger(built)
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// setLogger swaps the global logger and routes the standard library logger
// into it, so stray log.Printf calls land in the same file.
func setLogger(l *zap.Logger) {
	if restore != nil {
		restore()
	}
	logger = l
	restore = zap.RedirectStdLog(l)
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogCommand logs one finished nmcli invocation. Secrets in argv are
// replaced before they reach the log, see RedactArgs.
func LogCommand(argv []string, exitCode int, elapsed time.Duration, err error, secrets ...string) {
	fields := []zap.Field{
		zap.Strings("argv", RedactArgs(argv, secrets...)),
		zap.Int("exit_code", exitCode),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("nmcli command failed", append(fields, zap.String("error", RedactText(err.Error(), secrets...)))...)
		return
	}
	Debug("nmcli command finished", fields...)
}

const redacted = "********"

// RedactArgs returns a copy of argv with every element equal to one of
// secrets masked. The value following a "password" or "psk" keyword is
// masked as well, so callers that pass no secrets still get keyword
// redaction.
func RedactArgs(argv []string, secrets ...string) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i, arg := range argv {
		if isSecret(arg, secrets) {
			out[i] = redacted
		}
		if i+1 < len(argv) {
			// Keywords are matched on the input so an SSID spelled like
			// a keyword cannot shift the mask off the real value.
			switch strings.ToLower(arg) {
			case "password", "psk", "wifi-sec.psk":
				out[i+1] = redacted
			}
		}
	}
	return out
}

// RedactText replaces every occurrence of secrets in s.
func RedactText(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret != "" {
			s = strings.ReplaceAll(s, secret, redacted)
		}
	}
	return s
}

func isSecret(arg string, secrets []string) bool {
	for _, secret := range secrets {
		if secret != "" && arg == secret {
			return true
		}
	}
	return false
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
