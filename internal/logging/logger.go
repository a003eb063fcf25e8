package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output) so the console
// display driver's frames are not interleaved with log lines.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MARKOSHKA_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks MARKOSHKA_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	// Customize encoder for better readability
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the MARKOSHKA_LOG_LEVEL
// environment variable. Silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
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

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogButtonPress logs a button event and whether its intent was queued.
func LogButtonPress(button string, press string, queued bool) {
	Info("Button press",
		zap.String("button", button),
		zap.String("press", press),
		zap.Bool("queued", queued),
	)
}

// LogModeChange logs a mode transition.
func LogModeChange(from string, to string) {
	Info("Mode changed",
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogFrame logs the two lines just pushed to the display. Debug level:
// every refresh writes a frame.
func LogFrame(transport string, lines [2]string) {
	Debug("Frame written",
		zap.String("transport", transport),
		zap.String("line1", lines[0]),
		zap.String("line2", lines[1]),
	)
}

// LogTransportFallback logs a display transport degrading to the next one
// in the chain.
func LogTransportFallback(from string, to string, err error) {
	Warn("Display transport unavailable, falling back",
		zap.String("from", from),
		zap.String("to", to),
		zap.Error(err),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
