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

import "github.com/quilldb/quill/pkg/edm"

// Operator is a filter-expression operator.
type Operator int

// Possible values are EQ, NE, GT, GE, LT, LE, AND, OR, NOT, ADD, SUB, MUL, DIV, MOD.
const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpAnd
	OpOr
	OpNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpGt:
		return "gt"
	case OpGe:
		return "ge"
	case OpLt:
		return "lt"
	case OpLe:
		return "le"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	default:
		return "unknown"
	}
}

// IsComparison reports whether op is eq/ne/gt/ge/lt/le.
func (op Operator) IsComparison() bool { return op >= OpEq && op <= OpLe }

// IsLogical reports whether op is and/or.
func (op Operator) IsLogical() bool { return op == OpAnd || op == OpOr }

// IsArithmetic reports whether op is add/sub/mul/div/mod.
func (op Operator) IsArithmetic() bool { return op >= OpAdd && op <= OpMod }

// CompareOp maps a comparison operator to its edm counterpart.
func (op Operator) CompareOp() edm.CompareOp {
	return edm.CompareOp(op - OpEq)
}

// ArithOp maps an arithmetic operator to its edm counterpart.
func (op Operator) ArithOp() edm.ArithOp {
	return edm.ArithOp(op - OpAdd)
}

// Node is a node in the abstract syntax tree. The node set is closed:
// BinaryOp, UnaryOp, FunctionCall, Literal and PropertyAccess. Every consumer
// dispatches with an exhaustive type switch. Nodes and their subtrees are
// never modified once the parser returns them; the optimizer and evaluator
// only read the tree.
type Node interface {
	node()
}

// BinaryOp applies a logical, comparison or arithmetic operator to two operands.
type BinaryOp struct {
	Left  Node
	Right Node
	Op    Operator
}

func (*BinaryOp) node() {}

// UnaryOp applies a unary operator (only "not") to an operand.
type UnaryOp struct {
	Operand Node
	Op      Operator
}

func (*UnaryOp) node() {}

// FunctionCall invokes a registered function with positional arguments.
type FunctionCall struct {
	Name string
	Args []Node
}

func (*FunctionCall) node() {}

// Literal is a typed constant.
type Literal struct {
	Value edm.Value
}

func (*Literal) node() {}

// PropertyAccess reads a named entity property.
type PropertyAccess struct {
	Name string
}

func (*PropertyAccess) node() {}

// Equal reports structural equality between two trees.
func Equal(a, b Node) bool {
	switch an := a.(type) {
	case *BinaryOp:
		bn, ok := b.(*BinaryOp)
		return ok && an.Op == bn.Op && Equal(an.Left, bn.Left) && Equal(an.Right, bn.Right)
	case *UnaryOp:
		bn, ok := b.(*UnaryOp)
		return ok && an.Op == bn.Op && Equal(an.Operand, bn.Operand)
	case *FunctionCall:
		bn, ok := b.(*FunctionCall)
		if !ok || an.Name != bn.Name || len(an.Args) != len(bn.Args) {
			return false
		}
		for i := range an.Args {
			if !Equal(an.Args[i], bn.Args[i]) {
				return false
			}
		}
		return true
	case *Literal:
		bn, ok := b.(*Literal)
		return ok && an.Value.Type() == bn.Value.Type() && an.Value.String() == bn.Value.String()
	case *PropertyAccess:
		bn, ok := b.(*PropertyAccess)
		return ok && an.Name == bn.Name
	case nil:
		return b == nil
	default:
		return false
	}
}
