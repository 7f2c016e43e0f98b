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

package executor

import (
	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/table"
	"github.com/quilldb/quill/pkg/tql"
	"github.com/quilldb/quill/pkg/tql/function"
)

// Match evaluates a filter against one entity. A null or missing result is
// false; a non-boolean result is a type error that aborts the whole query.
func Match(e table.Entity, filter tql.Node) (bool, error) {
	if filter == nil {
		return true, nil
	}
	v, err := eval(e, filter)
	if err != nil {
		return false, err
	}
	return truthy(v)
}

func truthy(v edm.Value) (bool, error) {
	switch v.Type() {
	case edm.TypeNull:
		return false, nil
	case edm.TypeBoolean:
		return v.Bool(), nil
	default:
		return false, diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeNotBoolean,
			"expression used in boolean context has type %s", v.Type())
	}
}

// eval dispatches over the closed node set. Adding a node kind fails to
// compile here until handled.
func eval(e table.Entity, node tql.Node) (edm.Value, error) {
	switch n := node.(type) {
	case *tql.Literal:
		return n.Value, nil
	case *tql.PropertyAccess:
		return e.Prop(n.Name), nil
	case *tql.UnaryOp:
		return evalUnary(e, n)
	case *tql.FunctionCall:
		return evalFunction(e, n)
	case *tql.BinaryOp:
		return evalBinary(e, n)
	default:
		return edm.Null, diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeNotBoolean,
			"unsupported expression node %T", node)
	}
}

func evalUnary(e table.Entity, n *tql.UnaryOp) (edm.Value, error) {
	v, err := eval(e, n.Operand)
	if err != nil {
		return edm.Null, err
	}
	b, err := truthy(v)
	if err != nil {
		return edm.Null, err
	}
	return edm.BooleanValue(!b), nil
}

func evalFunction(e table.Entity, n *tql.FunctionCall) (edm.Value, error) {
	sig, ok := function.Lookup(n.Name)
	if !ok {
		return edm.Null, function.UnknownError(n.Name)
	}
	args := make([]edm.Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := eval(e, arg)
		if err != nil {
			return edm.Null, err
		}
		args[i] = v
	}
	return sig.Call(args)
}

func evalBinary(e table.Entity, n *tql.BinaryOp) (edm.Value, error) {
	switch {
	case n.Op.IsLogical():
		return evalLogical(e, n)
	case n.Op.IsComparison():
		return evalComparison(e, n)
	default:
		left, err := eval(e, n.Left)
		if err != nil {
			return edm.Null, err
		}
		right, err := eval(e, n.Right)
		if err != nil {
			return edm.Null, err
		}
		return edm.Arithmetic(left, n.Op.ArithOp(), right)
	}
}

// evalLogical short-circuits: the right operand is never evaluated when the
// left already determines the result, so a failing right-hand expression
// cannot abort a query it does not affect.
func evalLogical(e table.Entity, n *tql.BinaryOp) (edm.Value, error) {
	left, err := eval(e, n.Left)
	if err != nil {
		return edm.Null, err
	}
	lb, err := truthy(left)
	if err != nil {
		return edm.Null, err
	}
	if n.Op == tql.OpAnd && !lb {
		return edm.BooleanValue(false), nil
	}
	if n.Op == tql.OpOr && lb {
		return edm.BooleanValue(true), nil
	}
	right, err := eval(e, n.Right)
	if err != nil {
		return edm.Null, err
	}
	rb, err := truthy(right)
	if err != nil {
		return edm.Null, err
	}
	return edm.BooleanValue(rb), nil
}

func evalComparison(e table.Entity, n *tql.BinaryOp) (edm.Value, error) {
	left, err := eval(e, n.Left)
	if err != nil {
		return edm.Null, err
	}
	right, err := eval(e, n.Right)
	if err != nil {
		return edm.Null, err
	}
	op := n.Op.CompareOp()
	// The key columns compare ordinally, both equality and ordering: they
	// are byte-ordered by construction, and the planner extracts bounds
	// under the same order, so an extracted key predicate and its residual
	// form must agree. Other string columns keep the filter semantics,
	// where ordering is the type error the static check would have raised.
	if left.Type() == edm.TypeString && right.Type() == edm.TypeString {
		if comparesKeyColumn(n) {
			return edm.BooleanValue(edm.CompareOrdinal(left, op, right)), nil
		}
		if op.IsOrdering() {
			return edm.Null, diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeIncomparable,
				"ordering comparison %s is not defined for %s operands", op, edm.TypeString)
		}
	}
	ok, err := edm.Compare(left, op, right)
	if err != nil {
		return edm.Null, err
	}
	return edm.BooleanValue(ok), nil
}

func comparesKeyColumn(n *tql.BinaryOp) bool {
	return isKeyProperty(n.Left) || isKeyProperty(n.Right)
}

func isKeyProperty(node tql.Node) bool {
	access, ok := node.(*tql.PropertyAccess)
	return ok && (access.Name == table.PropPartitionKey || access.Name == table.PropRowKey)
}
