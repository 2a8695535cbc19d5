// Package diag defines the error taxonomy shared by every stage of the
// pipeline: lexical, parse, compile, and runtime failures. Every error
// implements the standard error interface and carries a Span where one was
// known at the point of detection.
package diag

import (
	"fmt"

	"github.com/mna/dicelang/lang/span"
)

// Kind identifies the category of a diagnostic.
type Kind uint8

//nolint:revive
const (
	// Lexical / syntax
	UnexpectedToken Kind = iota
	UnexpectedEndOfInput
	InvalidIntegerLiteral
	InvalidFloatLiteral

	// Compile-time
	UndeclaredVariable
	ImmutableVariable
	InvalidAssignmentTarget
	InvalidBreak
	InvalidContinue
	InvalidReturn
	InvalidLoopEnding
	TooManyConstants
	TooManyUpvalues
	InternalCompilerError

	// Runtime
	NotAnObject
	NotAFunction
	NoSelfParameterProvided
	NoConstructor
	MissingField
	InvalidFunctionArgs
	InvalidType
	InvalidKeyType
	VariableNotFound
	TypeNotFound
	IndexOutOfBounds
	StackUnderflowed
	UnknownInstruction
	Aborted
)

var kindNames = [...]string{
	UnexpectedToken:          "unexpected token",
	UnexpectedEndOfInput:     "unexpected end of input",
	InvalidIntegerLiteral:    "invalid integer literal",
	InvalidFloatLiteral:      "invalid float literal",
	UndeclaredVariable:       "undeclared variable",
	ImmutableVariable:        "immutable variable",
	InvalidAssignmentTarget:  "invalid assignment target",
	InvalidBreak:             "invalid break",
	InvalidContinue:          "invalid continue",
	InvalidReturn:            "invalid return",
	InvalidLoopEnding:        "invalid loop ending",
	TooManyConstants:         "too many constants",
	TooManyUpvalues:          "too many upvalues",
	InternalCompilerError:    "internal compiler error",
	NotAnObject:              "not an object",
	NotAFunction:             "not a function",
	NoSelfParameterProvided:  "no self parameter provided",
	NoConstructor:            "no constructor",
	MissingField:             "missing field",
	InvalidFunctionArgs:      "invalid function arguments",
	InvalidType:              "invalid type",
	InvalidKeyType:           "invalid key type",
	VariableNotFound:         "variable not found",
	TypeNotFound:             "type not found",
	IndexOutOfBounds:         "index out of bounds",
	StackUnderflowed:         "stack underflowed",
	UnknownInstruction:       "unknown instruction",
	Aborted:                  "aborted",
}

func (k Kind) String() string { return kindNames[k] }

// Error is a single diagnostic: a Kind, a human-readable message, and the
// source Span it was detected at, if known. Span is the zero Span when no
// location information was available at the point of detection.
type Error struct {
	Kind Kind
	Msg  string
	Span span.Span
	// HasSpan distinguishes a genuinely unknown span from the zero-offset
	// span (0, 0), which is itself a valid location at the start of a file.
	HasSpan bool
}

// New creates an Error without a span.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is like New but formats the message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At returns a new Error of the given kind and message, positioned at sp.
func At(kind Kind, sp span.Span, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Span: sp, HasSpan: true}
}

// Atf is like At but formats the message.
func Atf(kind Kind, sp span.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: sp, HasSpan: true}
}

func (e *Error) Error() string {
	if e.HasSpan {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// List accumulates diagnostics produced over the course of a pipeline stage
// (e.g. all parse errors in a source file, rather than stopping at the
// first one). It implements Unwrap() []error so callers may use errors.Is
// and errors.As across the whole batch.
type List struct {
	Errs []*Error
}

// Add appends err to the list.
func (l *List) Add(err *Error) { l.Errs = append(l.Errs, err) }

// Len reports the number of accumulated errors.
func (l *List) Len() int { return len(l.Errs) }

// Err returns l as an error if it has accumulated any, or nil otherwise.
func (l *List) Err() error {
	if len(l.Errs) == 0 {
		return nil
	}
	return l
}

func (l *List) Error() string {
	if len(l.Errs) == 1 {
		return l.Errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l.Errs[0].Error(), len(l.Errs)-1)
}

// Unwrap exposes the individual errors for errors.Is/errors.As.
func (l *List) Unwrap() []error {
	errs := make([]error, len(l.Errs))
	for i, e := range l.Errs {
		errs[i] = e
	}
	return errs
}
