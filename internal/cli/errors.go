// Package cli provides shared configuration and utilities for the zodgen CLI.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/syssam/zodgen"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitConfig      = 2
	ExitSchemaParse = 3
	ExitGeneration  = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitWithError prints the error and exits with the appropriate code.
func ExitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}

// ExitCode returns the process exit code for err. Errors that are not an
// ExitError are classified by the zodgen sentinel they wrap.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, zodgen.ErrMissingConfig):
		return ExitConfig
	case errors.Is(err, zodgen.ErrInvalidSchema):
		return ExitSchemaParse
	case errors.Is(err, zodgen.ErrGenerationFailed):
		return ExitGeneration
	default:
		return ExitGeneral
	}
}

// ConfigError creates an ExitError with ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// SchemaParseError creates an ExitError with ExitSchemaParse code.
func SchemaParseError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitSchemaParse, Message: msg, Err: err}
}

// GenerationError creates an ExitError with ExitGeneration code.
func GenerationError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneration, Message: msg, Err: err}
}

// GeneralError creates an ExitError with ExitGeneral code.
func GeneralError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneral, Message: msg, Err: err}
}

// Classify wraps err in an ExitError whose code follows the zodgen sentinel
// it carries. Load errors that are not schema errors (missing files,
// permissions) are configuration errors.
func Classify(msg string, err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	switch {
	case errors.Is(err, zodgen.ErrInvalidSchema):
		return SchemaParseError(msg, err)
	case errors.Is(err, zodgen.ErrMissingConfig), errors.Is(err, fs.ErrNotExist):
		return ConfigError(msg, err)
	case errors.Is(err, zodgen.ErrGenerationFailed):
		return GenerationError(msg, err)
	default:
		return GeneralError(msg, err)
	}
}
