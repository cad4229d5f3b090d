// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON
// logging with configurable log levels, and carries request-scoped loggers on
// the context so that trace and learner attributes follow a request through
// the service and store layers.
package logger
