// Package logger provides structured logging for the roster client.
//
// This package builds log/slog loggers:
//
//   - logger.go: handler selection, level control, the process default
//   - context.go: logger and request ID propagation through context
//   - redact.go: masking of credentials before they reach the output
//
// Access tokens are the one secret this client holds, so every handler
// built here passes attributes through the redaction step.
package logger
