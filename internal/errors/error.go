package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryGraph     Category = "graph"
	CategoryTransform Category = "transform"
	CategoryBuild     Category = "build"
	CategoryRuntime   Category = "runtime"
	CategoryProtocol  Category = "protocol"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// Location represents a source code location.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// LumenError is a structured error with source location, suggestions, and documentation.
type LumenError struct {
	// Code is a unique error identifier (e.g., "L100").
	Code string

	// Category is the error type (graph, transform, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source code location where the error occurred.
	Location *Location

	// Context contains surrounding source code lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LumenError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LumenError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error.
func (e *LumenError) WithLocation(file string, line, column int) *LumenError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromOutput extracts a location from bundler diagnostic output.
// The esbuild text format is "file:line:column: message".
func (e *LumenError) WithLocationFromOutput(output string) *LumenError {
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 4)
		if len(parts) < 4 {
			continue
		}
		var lineNum, col int
		fmt.Sscanf(parts[1], "%d", &lineNum)
		fmt.Sscanf(parts[2], "%d", &col)
		if lineNum > 0 {
			e.Location = &Location{File: parts[0], Line: lineNum, Column: col}
			e.Context = readContextLines(parts[0], lineNum, 5)
			return e
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LumenError) WithSuggestion(s string) *LumenError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *LumenError) WithDetail(d string) *LumenError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *LumenError) Wrap(err error) *LumenError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a LumenError from a registered error code.
func New(code string) *LumenError {
	template, ok := registry[code]
	if !ok {
		return &LumenError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &LumenError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new LumenError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *LumenError {
	return &LumenError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a LumenError.
func FromError(err error, code string) *LumenError {
	if err == nil {
		return nil
	}
	if le, ok := err.(*LumenError); ok {
		return le
	}
	return New(code).Wrap(err)
}
