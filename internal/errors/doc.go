// Package errors provides structured, actionable error messages for lumen.
//
// The errors package implements a coded error system that:
//   - Shows exact source locations (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - graph: Module graph inconsistencies (import target missing from metadata)
//   - transform: Syntax transform failures for a single module
//   - build: Bundler failures for a full build
//   - runtime: Client-side registry errors (unknown import, failed update)
//   - protocol: Wire protocol errors (malformed messages)
//   - config: lumen.json problems
//   - cli: Environment problems (missing binaries)
//
// # Error Codes
//
// Each error has a unique code (e.g., "L100") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("L110").
//	    WithLocation("src/app.ts", 15, 12).
//	    WithSuggestion("Fix the syntax error and save to retry")
//
//	fmt.Println(err.Format())
package errors
