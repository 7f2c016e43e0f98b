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
	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/tql/function"
)

// DefaultMaxDepth bounds expression nesting so hostile filters cannot blow
// the parser stack.
const DefaultMaxDepth = 32

// ParserOption configures a parse run.
type ParserOption func(*parser)

// WithMaxDepth overrides the expression nesting limit.
func WithMaxDepth(n int) ParserOption {
	return func(p *parser) {
		p.maxDepth = n
	}
}

type parser struct {
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
}

// Parse consumes the full token stream into an AST. Trailing tokens after a
// complete expression are a SyntaxError.
//
// Grammar, lowest to highest precedence:
//
//	or_expr        := and_expr ('or' and_expr)*
//	and_expr       := unary ('and' unary)*
//	unary          := 'not' unary | '(' or_expr ')' | comparison
//	comparison     := additive (comp_op additive)?
//	additive       := multiplicative (('add'|'sub') multiplicative)*
//	multiplicative := primary (('mul'|'div'|'mod') primary)*
//	primary        := literal | property | function_call
func Parse(tokens []Token, opts ...ParserOption) (Node, error) {
	p := &parser{tokens: tokens, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Kind != TokenEOF {
		return nil, p.syntaxError(diagnostics.CodeSyntaxTrailingTokens,
			"unexpected %s %q after complete expression", p.current().Kind, p.current().Text)
	}
	return node, nil
}

// ParseFilter tokenizes and parses a raw filter string.
func ParseFilter(text string, opts ...ParserOption) (Node, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts...)
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) syntaxError(code, format string, args ...interface{}) error {
	return diagnostics.Newf(diagnostics.KindSyntax, code, format, args...).
		WithPos(p.current().Pos())
}

// atOperator reports whether the current token is the given operator keyword.
func (p *parser) atOperator(ops ...Operator) (Operator, bool) {
	tok := p.current()
	if tok.Kind != TokenOperator {
		return 0, false
	}
	op := operatorKeywords[tok.Text]
	for _, want := range ops {
		if op == want {
			return op, true
		}
	}
	return 0, false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return diagnostics.Newf(diagnostics.KindValidation, diagnostics.CodeValidationTooDeep,
			"expression exceeds maximum depth %d", p.maxDepth).WithPos(p.current().Pos())
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseOr() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.atOperator(OpOr); !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: OpOr, Right: right}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.atOperator(OpAnd); !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: OpAnd, Right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, ok := p.atOperator(OpNot); ok {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: OpNot, Operand: operand}, nil
	}
	if tok := p.current(); tok.Kind == TokenPunct && tok.Text == "(" {
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.current(); closing.Kind != TokenPunct || closing.Text != ")" {
			return nil, p.syntaxError(diagnostics.CodeSyntaxUnbalancedParen,
				"expected %q, got %s %q", ")", closing.Kind, closing.Text)
		}
		p.advance()
		return inner, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := p.atOperator(OpEq, OpNe, OpGt, OpGe, OpLt, OpLe)
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Left: left, Op: op, Right: right}, nil
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.atOperator(OpAdd, OpSub)
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.atOperator(OpMul, OpDiv, OpMod)
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.current()
	switch tok.Kind {
	case TokenLiteral:
		p.advance()
		return &Literal{Value: tok.Value}, nil
	case TokenFunction:
		return p.parseFunctionCall()
	case TokenIdentifier:
		// An identifier followed by "(" is a typo'd function name, not a
		// property: report it with a suggestion instead of a generic error.
		if p.pos+1 < len(p.tokens) {
			next := p.tokens[p.pos+1]
			if next.Kind == TokenPunct && next.Text == "(" {
				return nil, function.UnknownError(tok.Text).WithPos(tok.Pos())
			}
		}
		p.advance()
		return &PropertyAccess{Name: tok.Text}, nil
	default:
		return nil, p.syntaxError(diagnostics.CodeSyntaxUnexpectedToken,
			"expected literal, property or function, got %s %q", tok.Kind, tok.Text)
	}
}

func (p *parser) parseFunctionCall() (Node, error) {
	name := p.advance() // function name token
	if open := p.current(); open.Kind != TokenPunct || open.Text != "(" {
		return nil, p.syntaxError(diagnostics.CodeSyntaxUnexpectedToken,
			"expected %q after function %q, got %q", "(", name.Text, open.Text)
	}
	p.advance()

	var args []Node
	if closing := p.current(); !(closing.Kind == TokenPunct && closing.Text == ")") {
		for {
			arg, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			sep := p.current()
			if sep.Kind == TokenPunct && sep.Text == "," {
				p.advance()
				continue
			}
			break
		}
	}
	if closing := p.current(); closing.Kind != TokenPunct || closing.Text != ")" {
		return nil, p.syntaxError(diagnostics.CodeSyntaxUnbalancedParen,
			"expected %q to close call to %q, got %s %q", ")", name.Text, closing.Kind, closing.Text)
	}
	p.advance()

	sig, ok := function.Lookup(name.Text)
	if !ok {
		return nil, function.UnknownError(name.Text).WithPos(name.Pos())
	}
	if len(args) < sig.MinArgs() || len(args) > sig.MaxArgs() {
		return nil, diagnostics.Newf(diagnostics.KindFunction, diagnostics.CodeFunctionArity,
			"function %q expects %d to %d arguments, got %d",
			name.Text, sig.MinArgs(), sig.MaxArgs(), len(args)).WithPos(name.Pos())
	}
	return &FunctionCall{Name: name.Text, Args: args}, nil
}
