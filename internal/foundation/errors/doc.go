// Package errors provides foundational, type-safe error primitives used across scc.
//
// The parser reports its own typed errors; every layer above it (document
// loading, the compiler, the CLI and the watch server) wraps failures in a
// ClassifiedError so presentation and exit codes are decided in one place.
//
//   - ErrorCategory: broad classification (config, parse, render, filesystem, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether trying again can help (never, immediate, user)
//   - ErrorBuilder: fluent construction
//   - CLI and HTTP adapters for presentation
//
// Example usage:
//
//	err := errors.WrapError(perr, errors.CategoryParse, "parse failed").
//		WithContext("path", path).
//		UserAction().
//		Build()
package errors
