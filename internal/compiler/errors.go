package compiler

import (
	"errors"
	"fmt"
)

// Translation error codes (E200-E299)
const (
	ErrCodeUnmatchedClose = "E201" // ']' with no open loop
	ErrCodeUnmatchedOpen  = "E202" // '[' never closed
	ErrCodeIO             = "E203" // reading source or writing output failed
	ErrCodeInvalidOption  = "E204" // translation options rejected
)

// SyntaxKind categorizes bracket structure errors.
type SyntaxKind string

const (
	// UnmatchedCloseBracket is reported as soon as the ']' is read.
	// No further source is consumed; partial output must be discarded.
	UnmatchedCloseBracket SyntaxKind = "UnmatchedCloseBracket"

	// UnmatchedOpenBracket is reported after the full program was emitted.
	// The output is complete but structurally invalid and must be discarded.
	UnmatchedOpenBracket SyntaxKind = "UnmatchedOpenBracket"
)

// Pos is a 1-based line and column (in characters) within the source.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String renders "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError reports unbalanced loop brackets.
type SyntaxError struct {
	Code string     `json:"code"`
	Kind SyntaxKind `json:"kind"`

	// Pos locates the offending ']' or the outermost '[' left open.
	Pos Pos `json:"pos"`
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	switch e.Kind {
	case UnmatchedCloseBracket:
		return fmt.Sprintf("[%s] %s: syntax error: unmatched ']'", e.Code, e.Pos)
	case UnmatchedOpenBracket:
		return fmt.Sprintf("[%s] %s: syntax error: unmatched '['", e.Code, e.Pos)
	}
	return fmt.Sprintf("[%s] %s: syntax error: %s", e.Code, e.Pos, e.Kind)
}

// IOError reports a failure reading the source or writing generated code.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("[%s] %s failed: %v", ErrCodeIO, e.Op, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// IsUnmatchedClose returns true if err is an UnmatchedCloseBracket error.
// Uses errors.As to handle wrapped errors.
func IsUnmatchedClose(err error) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Kind == UnmatchedCloseBracket
	}
	return false
}

// IsUnmatchedOpen returns true if err is an UnmatchedOpenBracket error.
// Uses errors.As to handle wrapped errors.
func IsUnmatchedOpen(err error) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Kind == UnmatchedOpenBracket
	}
	return false
}

// IsIOError returns true if err is an I/O failure.
func IsIOError(err error) bool {
	var ioe *IOError
	return errors.As(err, &ioe)
}

func newUnmatchedClose(pos Pos) *SyntaxError {
	return &SyntaxError{Code: ErrCodeUnmatchedClose, Kind: UnmatchedCloseBracket, Pos: pos}
}

func newUnmatchedOpen(pos Pos) *SyntaxError {
	return &SyntaxError{Code: ErrCodeUnmatchedOpen, Kind: UnmatchedOpenBracket, Pos: pos}
}
