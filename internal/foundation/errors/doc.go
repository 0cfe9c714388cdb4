// Package errors provides classified error primitives used across hapsite.
//
// Errors carry a category (what failed), a severity (how bad it is) and a
// retry strategy, plus free-form context. Adapters translate them into HTTP
// status codes for the context endpoints and exit codes for the CLI.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryContent, "required document missing").
//		WithContext("document", "protocol").
//		WithContext("path", path).
//		WithCause(readErr).
//		Build()
package errors
