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

// Package logical selects an execution plan for a parsed filter: it extracts
// key constraints provably implied by the filter, estimates candidate-set
// cost from table statistics, and leaves everything else as a residual
// filter for per-candidate evaluation.
package logical

import (
	"fmt"

	"github.com/quilldb/quill/pkg/table"
	"github.com/quilldb/quill/pkg/tql"
)

// Kind identifies an execution strategy.
type Kind int

// Possible values are POINT, PARTITION_SCAN, RANGE_SCAN, TABLE_SCAN.
const (
	KindPointQuery Kind = iota
	KindPartitionScan
	KindRangeScan
	KindTableScan
)

func (k Kind) String() string {
	switch k {
	case KindPointQuery:
		return "PointQuery"
	case KindPartitionScan:
		return "PartitionScan"
	case KindRangeScan:
		return "RangeScan"
	case KindTableScan:
		return "TableScan"
	default:
		return "Unknown"
	}
}

// Plan is an execution plan. The bound constraints a plan carries are always
// provably implied by the original filter; the residual is re-evaluated per
// candidate, so a plan can only shrink the candidate set, never change the
// result.
type Plan interface {
	Kind() Kind
	Cost() float64
	Residual() tql.Node
	String() string
}

func residualString(residual tql.Node) string {
	if residual == nil {
		return "none"
	}
	return tql.Print(residual)
}

// PointQuery resolves a single entity by both key fields.
type PointQuery struct {
	ResidualFilter tql.Node
	PartitionKey   string
	RowKey         string
	EstimatedCost  float64
}

// Kind returns KindPointQuery.
func (p *PointQuery) Kind() Kind { return KindPointQuery }

// Cost returns the estimated candidate-set size.
func (p *PointQuery) Cost() float64 { return p.EstimatedCost }

// Residual returns the filter part not captured by the key constraints.
func (p *PointQuery) Residual() tql.Node { return p.ResidualFilter }

func (p *PointQuery) String() string {
	return fmt.Sprintf("PointQuery: partition=%q row=%q cost=%.0f; residual=%s",
		p.PartitionKey, p.RowKey, p.EstimatedCost, residualString(p.ResidualFilter))
}

// PartitionScan scans a single partition.
type PartitionScan struct {
	ResidualFilter tql.Node
	PartitionKey   string
	EstimatedCost  float64
}

// Kind returns KindPartitionScan.
func (p *PartitionScan) Kind() Kind { return KindPartitionScan }

// Cost returns the estimated candidate-set size.
func (p *PartitionScan) Cost() float64 { return p.EstimatedCost }

// Residual returns the filter part not captured by the key constraints.
func (p *PartitionScan) Residual() tql.Node { return p.ResidualFilter }

func (p *PartitionScan) String() string {
	return fmt.Sprintf("PartitionScan: partition=%q cost=%.0f; residual=%s",
		p.PartitionKey, p.EstimatedCost, residualString(p.ResidualFilter))
}

// RangeScan scans a row-key range within a single partition.
type RangeScan struct {
	RowKeyLower    *table.RangeBound
	RowKeyUpper    *table.RangeBound
	ResidualFilter tql.Node
	PartitionKey   string
	EstimatedCost  float64
}

// Kind returns KindRangeScan.
func (p *RangeScan) Kind() Kind { return KindRangeScan }

// Cost returns the estimated candidate-set size.
func (p *RangeScan) Cost() float64 { return p.EstimatedCost }

// Residual returns the filter part not captured by the key constraints.
func (p *RangeScan) Residual() tql.Node { return p.ResidualFilter }

func (p *RangeScan) String() string {
	bound := func(b *table.RangeBound, op string) string {
		if b == nil {
			return ""
		}
		if b.Inclusive {
			op += "="
		}
		return fmt.Sprintf(" row%s%q", op, b.RowKey)
	}
	return fmt.Sprintf("RangeScan: partition=%q%s%s cost=%.0f; residual=%s",
		p.PartitionKey, bound(p.RowKeyLower, ">"), bound(p.RowKeyUpper, "<"),
		p.EstimatedCost, residualString(p.ResidualFilter))
}

// TableScan scans the whole table.
type TableScan struct {
	ResidualFilter tql.Node
	EstimatedCost  float64
}

// Kind returns KindTableScan.
func (p *TableScan) Kind() Kind { return KindTableScan }

// Cost returns the estimated candidate-set size.
func (p *TableScan) Cost() float64 { return p.EstimatedCost }

// Residual returns the filter part not captured by the key constraints.
func (p *TableScan) Residual() tql.Node { return p.ResidualFilter }

func (p *TableScan) String() string {
	return fmt.Sprintf("TableScan: cost=%.0f; residual=%s",
		p.EstimatedCost, residualString(p.ResidualFilter))
}

// Format renders a plan for diagnostics output.
func Format(plan Plan) string {
	return plan.String()
}

// SortField is one orderby column.
type SortField struct {
	Property string
	Desc     bool
}
