// Package logging provides structured logging configuration for specmock.
//
// This package wraps log/slog so every component logs the same way:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	dispatcher := engine.NewDispatcher(engine.WithLogger(logging.Component(logger, "dispatcher")))
//
// Components accept a *slog.Logger through an option. When none is given
// they use Nop.
package logging
