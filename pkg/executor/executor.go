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
	"context"
	"sort"

	"github.com/benbjohnson/clock"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/logical"
	"github.com/quilldb/quill/pkg/table"
)

// cancelCheckInterval is how many candidate evaluations pass between
// cancellation checks, so a timeout on a long table scan is observed
// promptly rather than after the full scan.
const cancelCheckInterval = 256

// Executor runs plans. It is stateless and safe for concurrent use; the
// clock is injectable for deterministic timing in tests.
type Executor struct {
	clock clock.Clock
}

// New creates an executor on the wall clock.
func New() *Executor {
	return NewWithClock(clock.New())
}

// NewWithClock creates an executor on the given clock.
func NewWithClock(c clock.Clock) *Executor {
	return &Executor{clock: c}
}

// Execute runs one plan to a single result page. The candidate sequence is a
// snapshot taken by the entity source, so results are consistent as of
// snapshot time, not linearizable against concurrent writes. When Count is
// requested the full matching set is computed regardless of Top, which makes
// it a heavier operation on large candidate sets.
func (x *Executor) Execute(ctx context.Context, plan logical.Plan, opts Options, source table.EntitySource) (*ResultSet, error) {
	start := x.clock.Now()
	fingerprint := Fingerprint(opts)

	var resume *ContinuationToken
	if opts.Continuation != "" {
		token, err := DecodeToken(opts.Continuation, fingerprint)
		if err != nil {
			return nil, err
		}
		resume = &token
	}

	candidates := enumerate(plan, source)
	residual := plan.Residual()

	matched := make([]table.Entity, 0, len(candidates))
	for i, e := range candidates {
		if i%cancelCheckInterval == 0 {
			if err := checkContext(ctx); err != nil {
				return nil, err
			}
		}
		ok, err := Match(e, residual)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
		}
	}

	sortStart := x.clock.Now()
	if len(opts.OrderBy) > 0 {
		sortEntities(matched, opts.OrderBy)
	}
	sortElapsed := x.clock.Now().Sub(sortStart)

	first := pageStart(matched, opts, resume)
	last := len(matched)
	more := false
	if opts.Top > 0 && first+int(opts.Top) < last {
		last = first + int(opts.Top)
		more = true
	}
	if first > len(matched) {
		first, last = len(matched), len(matched)
	}

	page := make([]table.Entity, 0, last-first)
	for _, e := range matched[first:last] {
		page = append(page, project(e, opts.Select))
	}

	totalScanned := uint64(len(candidates))
	if resume != nil {
		totalScanned += resume.TotalScanned
	}

	rs := &ResultSet{
		Entities: page,
		Statistics: Statistics{
			EntitiesScanned:     uint64(len(candidates)),
			EntitiesReturned:    uint64(len(page)),
			EntitiesFilteredOut: uint64(len(candidates) - len(matched)),
			ExecutionTime:       x.clock.Now().Sub(start),
			SortTime:            sortElapsed,
		},
	}
	if more {
		lastKey := matched[last-1].Key()
		rs.Continuation = ContinuationToken{
			NextPartitionKey: lastKey.PartitionKey,
			NextRowKey:       lastKey.RowKey,
			SkipCount:        uint64(last),
			TotalScanned:     totalScanned,
			QueryFingerprint: fingerprint,
		}.Encode()
	}
	if opts.Count {
		c := uint64(len(matched))
		rs.Count = &c
	}
	return rs, nil
}

func enumerate(plan logical.Plan, source table.EntitySource) []table.Entity {
	switch p := plan.(type) {
	case *logical.PointQuery:
		if e, ok := source.GetPoint(p.PartitionKey, p.RowKey); ok {
			return []table.Entity{e}
		}
		return nil
	case *logical.PartitionScan:
		return source.ScanPartition(p.PartitionKey)
	case *logical.RangeScan:
		return source.ScanRange(p.PartitionKey, p.RowKeyLower, p.RowKeyUpper)
	default:
		return source.ScanAll()
	}
}

func checkContext(ctx context.Context) error {
	switch err := ctx.Err(); err {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return diagnostics.Wrap(err, diagnostics.KindResource, diagnostics.CodeResourceTimeout,
			"query deadline exceeded")
	default:
		return diagnostics.Wrap(err, diagnostics.KindResource, diagnostics.CodeResourceCanceled,
			"query canceled")
	}
}

// pageStart finds the first index of the requested page. A continuation
// token resumes a key-ordered sequence by seeking past the last returned
// key, so inserts before the resume point cannot duplicate or shift results;
// a custom orderby has no stable key to seek on and falls back to the
// token's positional skip count.
func pageStart(matched []table.Entity, opts Options, resume *ContinuationToken) int {
	if resume == nil {
		return int(opts.Skip)
	}
	if len(opts.OrderBy) > 0 {
		return int(resume.SkipCount)
	}
	after := table.Key{PartitionKey: resume.NextPartitionKey, RowKey: resume.NextRowKey}
	return sort.Search(len(matched), func(i int) bool {
		return matched[i].Key().Compare(after) > 0
	})
}

// sortEntities orders by each requested column in turn using the null-low
// total order, then by primary key so equal sort values page
// deterministically.
func sortEntities(entities []table.Entity, fields []logical.SortField) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		for _, f := range fields {
			c := edm.Order(a.Prop(f.Property), b.Prop(f.Property))
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.Key().Compare(b.Key()) < 0
	})
}

// project keeps only the selected user properties. The key fields and system
// metadata live on the entity itself and always survive projection.
func project(e table.Entity, selected map[string]struct{}) table.Entity {
	if len(selected) == 0 {
		return e
	}
	props := make(map[string]edm.Value, len(selected))
	for name := range selected {
		if v, ok := e.Properties[name]; ok {
			props[name] = v
		}
	}
	e.Properties = props
	return e
}
