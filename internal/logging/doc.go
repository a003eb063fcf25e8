// Package logging provides structured logging for the Markoshka display
// daemon.
//
// This package wraps zap logger with convenience functions for common
// logging patterns used throughout the daemon. Logging is silent unless a
// level is set via the --log-level flag or the MARKOSHKA_LOG_LEVEL
// environment variable; the daemon is an appliance process and stays quiet
// unless someone is debugging it. When enabled, output goes to stderr so
// it never interleaves with the console driver's frames on stdout.
//
// # Log Levels
//
//   - Debug: per-frame writes, weather cache hits, intent queue activity
//   - Info: mode changes, button presses, transport selection, startup
//   - Warn: transport fallbacks, dropped intents, mirror client errors
//   - Error: collaborator failures that degrade functionality
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Mode changed",
//	    zap.String("from", "sequential"),
//	    zap.String("to", "random"),
//	)
//
// Domain-specific helpers cover the recurring events:
//
//	logging.LogButtonPress("mode", "short", true)
//	logging.LogModeChange("sequential", "weather")
//	logging.LogFrame("console", frame)
//	logging.LogTransportFallback("serial", "i2c", err)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
