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

package edm

import (
	"math"

	"github.com/quilldb/quill/pkg/diagnostics"
)

// ArithOp is an arithmetic operator applied to two numeric values.
type ArithOp int

// Possible values are ADD, SUB, MUL, DIV, MOD.
const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

func (op ArithOp) String() string {
	switch op {
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

// Arithmetic evaluates a binary arithmetic expression with numeric promotion.
// A null operand yields null, operands outside Int32/Int64/Double are a
// TypeError, and division or modulo by zero is reported rather than producing
// infinities.
func Arithmetic(left Value, op ArithOp, right Value) (Value, error) {
	if left.IsNull() || right.IsNull() {
		return Null, nil
	}
	lt, rt := left.Type(), right.Type()
	if !lt.IsNumeric() || !rt.IsNumeric() {
		return Null, diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeIncomparable,
			"operator %q requires numeric operands, got %s and %s", op, lt, rt)
	}
	if wide := Promote(lt, rt); wide == TypeDouble {
		return doubleArith(left.Float(), op, right.Float())
	} else if wide == TypeInt64 {
		return intArith(left.Int(), op, right.Int(), false)
	}
	return intArith(left.Int(), op, right.Int(), true)
}

func divisionByZero(op ArithOp) *diagnostics.Error {
	return diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeDivisionByZero,
		"%s by zero", op)
}

func doubleArith(a float64, op ArithOp, b float64) (Value, error) {
	switch op {
	case OpAdd:
		return DoubleValue(a + b), nil
	case OpSub:
		return DoubleValue(a - b), nil
	case OpMul:
		return DoubleValue(a * b), nil
	case OpDiv:
		if b == 0 {
			return Null, divisionByZero(op)
		}
		return DoubleValue(a / b), nil
	default:
		if b == 0 {
			return Null, divisionByZero(op)
		}
		return DoubleValue(math.Mod(a, b)), nil
	}
}

func intArith(a int64, op ArithOp, b int64, narrow bool) (Value, error) {
	var r int64
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return Null, divisionByZero(op)
		}
		r = a / b
	default:
		if b == 0 {
			return Null, divisionByZero(op)
		}
		r = a % b
	}
	if narrow && r <= math.MaxInt32 && r >= math.MinInt32 {
		return Int32Value(int32(r)), nil
	}
	return Int64Value(r), nil
}
