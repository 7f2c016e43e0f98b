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

package logical

import (
	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/table"
	"github.com/quilldb/quill/pkg/tql"
)

// Optimize selects the cheapest execution strategy for a filter. It walks
// the flattened top-level conjunction looking for equality constraints on
// PartitionKey and equality or range constraints on RowKey. Constraints
// under "or" or "not" do not universally hold and are never extracted; they
// stay in the residual along with every other unconsumed conjunct. The
// orderby columns do not influence strategy selection (sorting happens after
// candidate enumeration) and are accepted for cost reporting symmetry only.
func Optimize(filter tql.Node, _ []SortField, stats table.Stats) Plan {
	if filter == nil {
		return &TableScan{EstimatedCost: tableCost(stats)}
	}

	conjuncts := flattenAnd(filter, nil)
	var (
		partitionKey   *string
		rowKey         *string
		lower, upper   *table.RangeBound
		residual       []tql.Node
		rangeConjuncts []tql.Node
	)
	for _, conjunct := range conjuncts {
		prop, op, lit, ok := keyComparison(conjunct)
		if !ok {
			residual = append(residual, conjunct)
			continue
		}
		switch {
		case prop == table.PropPartitionKey && op == tql.OpEq && partitionKey == nil:
			v := lit
			partitionKey = &v
		case prop == table.PropRowKey && op == tql.OpEq && rowKey == nil:
			v := lit
			rowKey = &v
		case prop == table.PropRowKey && (op == tql.OpGt || op == tql.OpGe):
			lower = tightest(lower, &table.RangeBound{RowKey: lit, Inclusive: op == tql.OpGe}, true)
			rangeConjuncts = append(rangeConjuncts, conjunct)
		case prop == table.PropRowKey && (op == tql.OpLt || op == tql.OpLe):
			upper = tightest(upper, &table.RangeBound{RowKey: lit, Inclusive: op == tql.OpLe}, false)
			rangeConjuncts = append(rangeConjuncts, conjunct)
		default:
			residual = append(residual, conjunct)
			continue
		}
	}

	res := rebuildAnd(residual)
	switch {
	case partitionKey != nil && rowKey != nil:
		// A row-key equality supersedes any range bounds, but the range
		// conjuncts are not implied by the point lookup (they could
		// contradict it), so they stay residual.
		res = rebuildAnd(append(residual, rangeConjuncts...))
		return &PointQuery{PartitionKey: *partitionKey, RowKey: *rowKey, ResidualFilter: res, EstimatedCost: 1}
	case partitionKey != nil && (lower != nil || upper != nil):
		return &RangeScan{
			PartitionKey:   *partitionKey,
			RowKeyLower:    lower,
			RowKeyUpper:    upper,
			ResidualFilter: res,
			EstimatedCost:  rangeCost(stats),
		}
	case partitionKey != nil:
		return &PartitionScan{PartitionKey: *partitionKey, ResidualFilter: res, EstimatedCost: partitionCost(stats)}
	default:
		// Nothing extractable: the whole filter is residual, including any
		// RowKey constraints that lacked a partition pin.
		return &TableScan{ResidualFilter: filter, EstimatedCost: tableCost(stats)}
	}
}

// flattenAnd collects the conjuncts of a top-level and-chain, descending
// through nested parenthesized "and" groups: a conjunct of a conjunct still
// universally holds. It never descends under "or" or "not".
func flattenAnd(node tql.Node, acc []tql.Node) []tql.Node {
	if bin, ok := node.(*tql.BinaryOp); ok && bin.Op == tql.OpAnd {
		acc = flattenAnd(bin.Left, acc)
		return flattenAnd(bin.Right, acc)
	}
	return append(acc, node)
}

func rebuildAnd(conjuncts []tql.Node) tql.Node {
	if len(conjuncts) == 0 {
		return nil
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = &tql.BinaryOp{Left: result, Op: tql.OpAnd, Right: c}
	}
	return result
}

// keyComparison matches `Key op 'literal'` or the flipped `'literal' op Key`
// for a string literal and one of the two key properties.
func keyComparison(node tql.Node) (prop string, op tql.Operator, lit string, ok bool) {
	bin, isBin := node.(*tql.BinaryOp)
	if !isBin || !bin.Op.IsComparison() {
		return "", 0, "", false
	}
	if p, l, matched := propAndLiteral(bin.Left, bin.Right); matched {
		return p, bin.Op, l, true
	}
	if p, l, matched := propAndLiteral(bin.Right, bin.Left); matched {
		return p, flipComparison(bin.Op), l, true
	}
	return "", 0, "", false
}

func propAndLiteral(left, right tql.Node) (prop, lit string, ok bool) {
	access, isProp := left.(*tql.PropertyAccess)
	literal, isLit := right.(*tql.Literal)
	if !isProp || !isLit || literal.Value.Type() != edm.TypeString {
		return "", "", false
	}
	if access.Name != table.PropPartitionKey && access.Name != table.PropRowKey {
		return "", "", false
	}
	return access.Name, literal.Value.Str(), true
}

func flipComparison(op tql.Operator) tql.Operator {
	switch op {
	case tql.OpGt:
		return tql.OpLt
	case tql.OpGe:
		return tql.OpLe
	case tql.OpLt:
		return tql.OpGt
	case tql.OpLe:
		return tql.OpGe
	default:
		return op
	}
}

// tightest keeps the narrower of two bounds on the same side.
func tightest(current, candidate *table.RangeBound, isLower bool) *table.RangeBound {
	if current == nil {
		return candidate
	}
	if isLower {
		if candidate.RowKey > current.RowKey ||
			(candidate.RowKey == current.RowKey && !candidate.Inclusive) {
			return candidate
		}
		return current
	}
	if candidate.RowKey < current.RowKey ||
		(candidate.RowKey == current.RowKey && !candidate.Inclusive) {
		return candidate
	}
	return current
}

// Cost is the estimated candidate-set size, monotonic in the size of the
// range each strategy enumerates. It feeds diagnostics and caching
// decisions, never correctness.
func tableCost(stats table.Stats) float64 {
	if stats.EntityCount < 1 {
		return 1
	}
	return float64(stats.EntityCount)
}

func partitionCost(stats table.Stats) float64 {
	if stats.PartitionCount < 1 {
		return 1
	}
	c := float64(stats.EntityCount) / float64(stats.PartitionCount)
	if c < 1 {
		return 1
	}
	return c
}

func rangeCost(stats table.Stats) float64 {
	c := partitionCost(stats) / 2
	if c < 1 {
		return 1
	}
	return c
}
