// Package logging provides structured logging configuration for routestore.
//
// This package wraps log/slog so every routestore component logs the same way.
// It supports configurable log levels and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("route added", "route", "r1")
//
// Tee additionally mirrors records as JSON into a second writer with its own
// level, which the CLI uses for --log-file and --log-file-level.
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via a setter.
// If no logger is provided, they use logging.Nop().
package logging
