// Package errors provides the classified error primitives used across bookproc.
//
// Every failure that can end a preprocessing run is a ClassifiedError carrying a
// category, a severity and structured context (chapter, preprocessor, path). The
// CLI adapter turns these into a stderr message and a process exit code.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, transform, filesystem, ...)
//   - ErrorSeverity: Impact level (fatal, error)
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: Exit codes and user-facing messages
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryTransform, "replacements failed").
//		WithContext("chapter", "guide/intro.md").
//		Build()
package errors
