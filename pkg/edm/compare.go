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
	"bytes"
	"strings"

	"github.com/quilldb/quill/pkg/diagnostics"
)

// CompareOp is a comparison operator applied to two values.
type CompareOp int

// Possible values are EQ, NE, GT, GE, LT, LE.
const (
	OpEq CompareOp = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
)

func (op CompareOp) String() string {
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
	default:
		return "unknown"
	}
}

// IsOrdering reports whether op is one of gt/ge/lt/le.
func (op CompareOp) IsOrdering() bool {
	return op == OpGt || op == OpGe || op == OpLt || op == OpLe
}

func incomparable(left Type, op CompareOp, right Type) *diagnostics.Error {
	return diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeIncomparable,
		"operator %q is not defined between %s and %s", op, left, right)
}

// CheckComparison validates a comparison between two static operand types.
// Null pairs with any type under eq/ne only. String ordering is rejected
// here; callers that allow ordinal ordering on key columns bypass this check
// deliberately.
func CheckComparison(left Type, op CompareOp, right Type) error {
	if left == TypeNull || right == TypeNull {
		if op == OpEq || op == OpNe {
			return nil
		}
		return incomparable(left, op, right)
	}
	if left.IsNumeric() && right.IsNumeric() {
		return nil
	}
	if left != right {
		return incomparable(left, op, right)
	}
	switch left {
	case TypeString, TypeBoolean, TypeBinary:
		if op.IsOrdering() {
			return incomparable(left, op, right)
		}
		return nil
	case TypeDateTime, TypeGuid:
		return nil
	default:
		return incomparable(left, op, right)
	}
}

// Compare evaluates a comparison between two runtime values. A null operand
// never raises: eq is true only when both sides are null, ne is its negation,
// and ordering comparisons involving null are false. String ordering is
// ordinal; the static check decides where it is permitted.
func Compare(left Value, op CompareOp, right Value) (bool, error) {
	if left.IsNull() || right.IsNull() {
		switch op {
		case OpEq:
			return left.IsNull() && right.IsNull(), nil
		case OpNe:
			return !(left.IsNull() && right.IsNull()), nil
		default:
			return false, nil
		}
	}
	lt, rt := left.Type(), right.Type()
	if lt.IsNumeric() && rt.IsNumeric() {
		return applyOrder(compareNumeric(left, right), op), nil
	}
	if lt != rt {
		return false, incomparable(lt, op, rt)
	}
	switch lt {
	case TypeString:
		if op == OpEq {
			return strings.EqualFold(left.Str(), right.Str()), nil
		}
		if op == OpNe {
			return !strings.EqualFold(left.Str(), right.Str()), nil
		}
		return applyOrder(strings.Compare(left.Str(), right.Str()), op), nil
	case TypeBoolean:
		switch op {
		case OpEq:
			return left.Bool() == right.Bool(), nil
		case OpNe:
			return left.Bool() != right.Bool(), nil
		default:
			return false, incomparable(lt, op, rt)
		}
	case TypeDateTime:
		return applyOrder(left.Time().Compare(right.Time()), op), nil
	case TypeGuid:
		return applyOrder(strings.Compare(left.Guid().String(), right.Guid().String()), op), nil
	case TypeBinary:
		switch op {
		case OpEq:
			return bytes.Equal(left.bin, right.bin), nil
		case OpNe:
			return !bytes.Equal(left.bin, right.bin), nil
		default:
			return false, incomparable(lt, op, rt)
		}
	default:
		return false, incomparable(lt, op, rt)
	}
}

func compareNumeric(a, b Value) int {
	if a.Type() == TypeDouble || b.Type() == TypeDouble {
		af, bf := a.Float(), b.Float()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a.Int() < b.Int():
		return -1
	case a.Int() > b.Int():
		return 1
	default:
		return 0
	}
}

func applyOrder(cmp int, op CompareOp) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	default:
		return false
	}
}

// CompareOrdinal evaluates a comparison under the sorting total order instead
// of the filter semantics: string equality is exact and string ordering is
// byte-wise. The key columns compare this way, so a predicate on them means
// the same thing whether a planner turns it into a storage bound or a filter
// evaluates it.
func CompareOrdinal(left Value, op CompareOp, right Value) bool {
	return applyOrder(Order(left, right), op)
}

// Order defines the total order used by sorting: null sorts lower than every
// non-null value, values of the same type compare natively, and values of
// different type groups compare by type tag so mixed-type columns still sort
// deterministically.
func Order(a, b Value) int {
	if a.IsNull() || b.IsNull() {
		switch {
		case a.IsNull() && b.IsNull():
			return 0
		case a.IsNull():
			return -1
		default:
			return 1
		}
	}
	at, bt := a.Type(), b.Type()
	if at.IsNumeric() && bt.IsNumeric() {
		return compareNumeric(a, b)
	}
	if at != bt {
		if at < bt {
			return -1
		}
		return 1
	}
	switch at {
	case TypeString:
		return strings.Compare(a.Str(), b.Str())
	case TypeBoolean:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case TypeDateTime:
		return a.Time().Compare(b.Time())
	case TypeGuid:
		return strings.Compare(a.Guid().String(), b.Guid().String())
	case TypeBinary:
		return bytes.Compare(a.bin, b.bin)
	default:
		return 0
	}
}
