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

package tql

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/tql/function"
)

var operatorKeywords = map[string]Operator{
	"eq": OpEq, "ne": OpNe, "gt": OpGt, "ge": OpGe, "lt": OpLt, "le": OpLe,
	"and": OpAnd, "or": OpOr, "not": OpNot,
	"add": OpAdd, "sub": OpSub, "mul": OpMul, "div": OpDiv, "mod": OpMod,
}

// OperatorNames lists the operator keywords, used for suggestions.
func OperatorNames() []string {
	names := make([]string, 0, len(operatorKeywords))
	for name := range operatorKeywords {
		names = append(names, name)
	}
	return names
}

type lexer struct {
	input  string
	pos    int
	line   int
	column int
}

// Tokenize converts a raw filter string into a finite token sequence ending
// with an EOF token. Whitespace is skipped while line/column/offset tracking
// stays accurate through it. Malformed input fails with a LexError carrying
// the offending position; nothing is silently skipped or truncated.
func Tokenize(text string) ([]Token, error) {
	lx := &lexer{input: text, line: 1, column: 1}
	var tokens []Token
	for {
		lx.skipWhitespace()
		if lx.eof() {
			tokens = append(tokens, Token{Kind: TokenEOF, Line: lx.line, Column: lx.column, Offset: lx.pos})
			return tokens, nil
		}
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func (lx *lexer) eof() bool {
	return lx.pos >= len(lx.input)
}

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos:])
	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.input[lx.pos:])
	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return r
}

func (lx *lexer) skipWhitespace() {
	for !lx.eof() && unicode.IsSpace(lx.peek()) {
		lx.advance()
	}
}

func (lx *lexer) errorAt(line, column, offset int, code, format string, args ...interface{}) error {
	return diagnostics.Newf(diagnostics.KindLex, code, format, args...).
		WithPos(diagnostics.Position{Line: line, Column: column, Offset: offset})
}

func (lx *lexer) next() (Token, error) {
	line, column, offset := lx.line, lx.column, lx.pos
	r := lx.peek()
	switch {
	case r == '\'':
		return lx.scanString(line, column, offset)
	case r == '(' || r == ')' || r == ',':
		lx.advance()
		return Token{Kind: TokenPunct, Text: string(r), Line: line, Column: column, Offset: offset}, nil
	case unicode.IsDigit(r):
		return lx.scanNumber(line, column, offset)
	case r == '-' || r == '+':
		lx.advance()
		if !unicode.IsDigit(lx.peek()) {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexUnexpectedChar,
				"unexpected character %q", r)
		}
		return lx.scanNumber(line, column, offset)
	case unicode.IsLetter(r) || r == '_':
		return lx.scanWord(line, column, offset)
	default:
		return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexUnexpectedChar,
			"unexpected character %q", r)
	}
}

// scanString consumes a quoted string literal. A doubled quote inside the
// literal escapes a single quote.
func (lx *lexer) scanString(line, column, offset int) (Token, error) {
	lx.advance() // opening quote
	var sb strings.Builder
	for {
		if lx.eof() {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexUnterminatedString,
				"unterminated string literal")
		}
		r := lx.advance()
		if r == '\'' {
			if lx.peek() == '\'' {
				lx.advance()
				sb.WriteRune('\'')
				continue
			}
			break
		}
		sb.WriteRune(r)
	}
	return Token{
		Kind:   TokenLiteral,
		Text:   lx.input[offset:lx.pos],
		Value:  edm.StringValue(sb.String()),
		Line:   line,
		Column: column,
		Offset: offset,
	}, nil
}

// quotedBody consumes the quoted body of a typed literal such as
// datetime'...' and returns the raw content between the quotes.
func (lx *lexer) quotedBody(line, column, offset int) (string, error) {
	lx.advance() // opening quote
	start := lx.pos
	for {
		if lx.eof() {
			return "", lx.errorAt(line, column, offset, diagnostics.CodeLexUnterminatedString,
				"unterminated literal")
		}
		if lx.peek() == '\'' {
			body := lx.input[start:lx.pos]
			lx.advance()
			return body, nil
		}
		lx.advance()
	}
}

func (lx *lexer) scanNumber(line, column, offset int) (Token, error) {
	isDouble := false
	for !lx.eof() && unicode.IsDigit(lx.peek()) {
		lx.advance()
	}
	if lx.peek() == '.' {
		isDouble = true
		lx.advance()
		if !unicode.IsDigit(lx.peek()) {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexBadNumber,
				"malformed numeric literal %q", lx.input[offset:lx.pos])
		}
		for !lx.eof() && unicode.IsDigit(lx.peek()) {
			lx.advance()
		}
	}
	if lx.peek() == 'e' || lx.peek() == 'E' {
		isDouble = true
		lx.advance()
		if lx.peek() == '+' || lx.peek() == '-' {
			lx.advance()
		}
		if !unicode.IsDigit(lx.peek()) {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexBadNumber,
				"malformed numeric literal %q", lx.input[offset:lx.pos])
		}
		for !lx.eof() && unicode.IsDigit(lx.peek()) {
			lx.advance()
		}
	}
	text := lx.input[offset:lx.pos]
	forceInt64 := false
	if lx.peek() == 'L' || lx.peek() == 'l' {
		if isDouble {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexBadNumber,
				"malformed numeric literal %q", text)
		}
		forceInt64 = true
		lx.advance()
	}
	var value edm.Value
	if isDouble {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexBadNumber,
				"malformed numeric literal %q", text)
		}
		value = edm.DoubleValue(f)
	} else {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexBadNumber,
				"malformed numeric literal %q", text)
		}
		if forceInt64 || i > math.MaxInt32 || i < math.MinInt32 {
			value = edm.Int64Value(i)
		} else {
			value = edm.Int32Value(int32(i))
		}
	}
	return Token{
		Kind:   TokenLiteral,
		Text:   lx.input[offset:lx.pos],
		Value:  value,
		Line:   line,
		Column: column,
		Offset: offset,
	}, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (lx *lexer) scanWord(line, column, offset int) (Token, error) {
	for !lx.eof() && isWordRune(lx.peek()) {
		lx.advance()
	}
	word := lx.input[offset:lx.pos]

	// Typed literal prefixes: datetime'...', guid'...', binary/X'...'.
	if lx.peek() == '\'' {
		switch word {
		case "datetime", "guid", "binary", "X":
			body, err := lx.quotedBody(lx.line, lx.column, lx.pos)
			if err != nil {
				return Token{}, err
			}
			value, convErr := typedLiteral(word, body)
			if convErr != nil {
				return Token{}, lx.errorAt(line, column, offset, diagnostics.CodeLexBadLiteral,
					"malformed %s literal %q", word, body)
			}
			return Token{
				Kind:   TokenLiteral,
				Text:   lx.input[offset:lx.pos],
				Value:  value,
				Line:   line,
				Column: column,
				Offset: offset,
			}, nil
		}
	}

	tok := Token{Text: word, Line: line, Column: column, Offset: offset}
	switch {
	case word == "true" || word == "false":
		tok.Kind = TokenLiteral
		tok.Value = edm.BooleanValue(word == "true")
	case word == "null":
		tok.Kind = TokenLiteral
		tok.Value = edm.Null
	default:
		if _, ok := operatorKeywords[word]; ok {
			tok.Kind = TokenOperator
		} else if function.Exists(word) {
			tok.Kind = TokenFunction
		} else {
			tok.Kind = TokenIdentifier
		}
	}
	return tok, nil
}

func typedLiteral(prefix, body string) (edm.Value, error) {
	switch prefix {
	case "datetime":
		return edm.ParseDateTime(body)
	case "guid":
		return edm.ParseGuid(body)
	default:
		raw, err := hex.DecodeString(body)
		if err != nil {
			return edm.Null, err
		}
		return edm.BinaryValue(raw), nil
	}
}
