// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package diagnostics normalizes every failure raised by the query engine
// into a single structured error shape carrying a stable code, a source
// position when one exists, and an optional suggestion.
package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an engine error.
type Kind int

// Possible values are LEX, SYNTAX, TYPE, FUNCTION, VALIDATION, RESOURCE.
const (
	KindUnknown Kind = iota
	KindLex
	KindSyntax
	KindType
	KindFunction
	KindValidation
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "LEX"
	case KindSyntax:
		return "SYNTAX"
	case KindType:
		return "TYPE"
	case KindFunction:
		return "FUNCTION"
	case KindValidation:
		return "VALIDATION"
	case KindResource:
		return "RESOURCE"
	default:
		return "UNKNOWN"
	}
}

// Stable error codes surfaced to callers. The code set is append-only.
const (
	CodeLexUnterminatedString = "ERR_LEX_UNTERMINATED_STRING"
	CodeLexBadNumber          = "ERR_LEX_BAD_NUMBER"
	CodeLexBadLiteral         = "ERR_LEX_BAD_LITERAL"
	CodeLexUnexpectedChar     = "ERR_LEX_UNEXPECTED_CHAR"

	CodeSyntaxUnexpectedToken = "ERR_SYNTAX_UNEXPECTED_TOKEN"
	CodeSyntaxTrailingTokens  = "ERR_SYNTAX_TRAILING_TOKENS"
	CodeSyntaxUnbalancedParen = "ERR_SYNTAX_UNBALANCED_PAREN"

	CodeTypeIncomparable   = "ERR_TYPE_INCOMPARABLE"
	CodeTypeBadArgument    = "ERR_TYPE_BAD_ARGUMENT"
	CodeTypeBadConversion  = "ERR_TYPE_BAD_CONVERSION"
	CodeTypeNotBoolean     = "ERR_TYPE_NOT_BOOLEAN"
	CodeTypeDivisionByZero = "ERR_TYPE_DIVISION_BY_ZERO"

	CodeFunctionUnknown = "ERR_FUNCTION_UNKNOWN"
	CodeFunctionArity   = "ERR_FUNCTION_ARITY"

	CodeValidationBadOption     = "ERR_VALIDATION_BAD_OPTION"
	CodeValidationTooDeep       = "ERR_VALIDATION_TOO_DEEP"
	CodeValidationFilterTooLong = "ERR_VALIDATION_FILTER_TOO_LONG"
	CodeValidationStaleToken    = "ERR_VALIDATION_STALE_TOKEN"

	CodeResourceCanceled = "ERR_RESOURCE_CANCELED"
	CodeResourceTimeout  = "ERR_RESOURCE_TIMEOUT"
)

// Position locates an error inside the source filter text.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Error is the structured failure every engine component reports.
type Error struct {
	cause      error
	Code       string
	Message    string
	Suggestion string
	Pos        *Position
	Kind       Kind
}

// New creates a structured error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf creates a structured error with a formatted message.
func Newf(kind Kind, code, format string, args ...interface{}) *Error {
	return New(kind, code, fmt.Sprintf(format, args...))
}

// Wrap attaches a cause to a structured error.
func Wrap(cause error, kind Kind, code, message string) *Error {
	e := New(kind, code, message)
	e.cause = cause
	return e
}

// WithPos attaches the source position.
func (e *Error) WithPos(pos Position) *Error {
	e.Pos = &pos
	return e
}

// WithSuggestion attaches a "did you mean" candidate.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

func (e *Error) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Pos != nil {
		msg += " at " + e.Pos.String()
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; did you mean %q?", e.Suggestion)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap exposes the cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts a structured error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of an error, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}
