package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Predefined errors (sentinel values).
var (
	ErrParse            = NewError("parse error")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")
	ErrReadInput        = NewError("failed to read input")
	ErrExprCompile      = NewError("expression compilation failed")
	ErrExprEvaluate     = NewError("expression evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from. Errors created
// with [Error.Wrap] or [Error.With] keep matching their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Position is a location in the parser input.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// String returns "line L, column C".
func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// ParseError is the single failure produced by a parse attempt.
type ParseError struct {
	Pos      Position
	Expected []string // descriptions of what could have matched at Pos
	Found    string   // description of the input at Pos
	Source   string   // complete parser input
	Err      error    // optional cause, e.g. ErrMaxDepthExceeded
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Pos.String())
	sb.WriteString(": ")

	switch {
	case e.Err != nil:
		sb.WriteString(e.Err.Error())

	case len(e.Expected) > 0:
		sb.WriteString("expected ")
		sb.WriteString(strings.Join(e.Expected, " or "))

	default:
		sb.WriteString("unexpected input")
	}

	if e.Found != "" {
		sb.WriteString(", found ")
		sb.WriteString(e.Found)
	}

	return sb.String()
}

// Unwrap returns the cause, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.Int("offset", e.Pos.Offset),
	}

	if len(e.Expected) > 0 {
		attrs = append(attrs, slog.String("expected", strings.Join(e.Expected, ", ")))
	}

	if e.Found != "" {
		attrs = append(attrs, slog.String("found", e.Found))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Detail returns the error message followed by the offending source line and
// a caret marking the error column:
//
//	line 2, column 3: expected ')', found end of input
//	  2 | > +(ccc
//	          ^
func (e *ParseError) Detail() string {
	var sb strings.Builder

	sb.WriteString(e.Error())
	sb.WriteRune('\n')

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return sb.String()
	}

	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")
	num := strconv.Itoa(e.Pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(line)
	sb.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := len(num) + 5
	if e.Pos.Column > 0 {
		padding += runewidth.StringWidth(columnPrefix(line, e.Pos.Column-1))
	}

	sb.WriteString(strings.Repeat(" ", padding))
	sb.WriteString("^\n")

	return sb.String()
}

// columnPrefix returns the first n runes of line, or all of line if shorter.
func columnPrefix(line string, n int) string {
	for i := range line {
		if n == 0 {
			return line[:i]
		}

		n--
	}

	return line
}
