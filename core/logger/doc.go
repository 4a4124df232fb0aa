// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports a human-friendly
// console encoding for interactive use and JSON for scheduled runs whose
// output is collected.
//
// # Run Awareness
//
// Every reconciliation run carries a run ID. The WithRunID helper attaches it
// to the logger so all entries of one run can be correlated with the run
// ledger and the archived snapshot.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log = logger.WithRunID(log, runID)
//	log.Info("Sync completed", zap.Int("admitted", n))
package logger
