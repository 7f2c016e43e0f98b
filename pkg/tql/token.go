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

// Package tql provides the table query language front end: a hand-written
// lexer producing positioned tokens, a recursive-descent parser producing an
// immutable abstract syntax tree, and a canonical printer.
package tql

import (
	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
)

// TokenKind classifies a lexed token.
type TokenKind int

// Possible values are LITERAL, OPERATOR, FUNCTION, IDENTIFIER, PUNCTUATION, EOF.
const (
	TokenLiteral TokenKind = iota
	TokenOperator
	TokenFunction
	TokenIdentifier
	TokenPunct
	TokenEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "literal"
	case TokenOperator:
		return "operator"
	case TokenFunction:
		return "function"
	case TokenIdentifier:
		return "identifier"
	case TokenPunct:
		return "punctuation"
	case TokenEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token is a positioned lexical unit. Literal tokens carry the already-typed
// value so the parser never re-infers literal types from text.
type Token struct {
	Value  edm.Value
	Text   string
	Kind   TokenKind
	Line   int
	Column int
	Offset int
}

// Pos returns the token's source position.
func (t Token) Pos() diagnostics.Position {
	return diagnostics.Position{Line: t.Line, Column: t.Column, Offset: t.Offset}
}
