package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/config"
)

// Command error codes (E001-E099). Translation errors use the compiler's
// E2xx codes.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeSourceNotFound = "E002" // Source file missing or unreadable
	ErrCodeConfigInvalid  = "E003" // Project file or flag rejected
	ErrCodeCacheFailed    = "E004" // Translation cache could not be used
	ErrCodeWriteFailed    = "E005" // Output file write error
	ErrCodeBuildFailed    = "E006" // Toolchain failed or exited non-zero
	ErrCodeNotFound       = "E007" // Path not found
	ErrCodeTestFailed     = "E008" // One or more scenarios failed
)

// translationFailure maps an error from compiler.Translate to the CLI
// error code, exit code and detail payload.
func translationFailure(err error) (code string, exit int, details any) {
	var se *compiler.SyntaxError
	if errors.As(err, &se) {
		return se.Code, ExitFailure, se.Pos
	}
	var ioErr *compiler.IOError
	if errors.As(err, &ioErr) {
		return compiler.ErrCodeIO, ExitCommandError, nil
	}
	return ErrCodeGeneric, ExitCommandError, nil
}

// configFailure renders a config error with the schema problems as details.
func configFailure(f *OutputFormatter, err error) error {
	var se *config.SchemaError
	if errors.As(err, &se) {
		return f.Fail(ExitCommandError, ErrCodeConfigInvalid, se.Error(), se.Problems)
	}
	return f.Fail(ExitCommandError, ErrCodeConfigInvalid, fmt.Sprintf("%v", err), nil)
}
