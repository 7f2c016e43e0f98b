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

import "strings"

// Print renders an AST as canonical filter text. For any tree produced by
// Parse, re-parsing the printed text yields a structurally equal tree; the
// canonical form is also the basis of the query fingerprint.
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0, false)
	return sb.String()
}

// Precedence levels, lowest first. Operands are parenthesized when their
// operator binds looser than the parent's, or equally tight on the right-hand
// side (the grammar is left-associative).
func precedence(op Operator) int {
	switch {
	case op == OpOr:
		return 1
	case op == OpAnd:
		return 2
	case op.IsComparison():
		return 3
	case op == OpAdd || op == OpSub:
		return 4
	case op == OpMul || op == OpDiv || op == OpMod:
		return 5
	default:
		return 6
	}
}

func printNode(sb *strings.Builder, node Node, parent int, rightSide bool) {
	switch n := node.(type) {
	case *BinaryOp:
		prec := precedence(n.Op)
		paren := prec < parent || (prec == parent && rightSide)
		if paren {
			sb.WriteByte('(')
		}
		printNode(sb, n.Left, prec, false)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		printNode(sb, n.Right, prec, true)
		if paren {
			sb.WriteByte(')')
		}
	case *UnaryOp:
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		// "not" binds tighter than and/or; its operand only needs parens
		// when it is itself a logical expression.
		if inner, ok := n.Operand.(*BinaryOp); ok && inner.Op.IsLogical() {
			sb.WriteByte('(')
			printNode(sb, n.Operand, 0, false)
			sb.WriteByte(')')
		} else {
			printNode(sb, n.Operand, 3, false)
		}
	case *FunctionCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printNode(sb, arg, 0, false)
		}
		sb.WriteByte(')')
	case *Literal:
		sb.WriteString(n.Value.String())
	case *PropertyAccess:
		sb.WriteString(n.Name)
	}
}
