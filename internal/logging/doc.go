// Package logging provides structured logging for keylightctl.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the tool. Logging is silent by default so command
// output stays clean; set KEYLIGHTCTL_LOG_LEVEL to enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (announcement lines, skipped events)
//   - Info: Normal operations (devices added/removed, daemon lifecycle)
//   - Warn: Non-fatal issues (malformed lines, dropped events)
//   - Error: Fatal issues (subprocess failures, startup errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("New device found",
//	    zap.String("device", "Elgato Key Light 8D7C"),
//	    zap.String("url", "http://192.168.0.92:9123/"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format so they never interleave with
// device listings on stdout.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
