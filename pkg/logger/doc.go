// Package logger builds the structured slog logger used across the proxy,
// JSON in production and human-readable text elsewhere.
package logger
