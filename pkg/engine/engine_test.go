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

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/meter"
	"github.com/quilldb/quill/pkg/meter/native"
	"github.com/quilldb/quill/pkg/table"
)

func newTestEngine(t *testing.T) (*Engine, *table.MemTable) {
	t.Helper()
	m := table.NewMemTable()
	provider := native.NewProvider(meter.NewHierarchicalScope("quill", "_").SubScope("query"))
	e, err := New(m, DefaultConfig(), provider)
	require.NoError(t, err)
	return e, m
}

func seed(m *table.MemTable, n int) {
	for i := 0; i < n; i++ {
		m.Put(table.Entity{
			PartitionKey: fmt.Sprintf("p%d", i%3),
			RowKey:       fmt.Sprintf("r%03d", i),
			Properties:   map[string]edm.Value{"Price": edm.Int32Value(int32(i))},
		})
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	e, m := newTestEngine(t)
	seed(m, 30)

	rs, err := e.Execute(context.Background(), RawOptions{
		Filter:  "Price ge 25",
		OrderBy: "Price desc",
		Select:  "Price",
		Top:     3,
		Count:   true,
	})
	require.NoError(t, err)
	require.Len(t, rs.Entities, 3)
	assert.Equal(t, int64(29), rs.Entities[0].Prop("Price").Int())
	require.NotNil(t, rs.Count)
	assert.Equal(t, uint64(5), *rs.Count)
	assert.NotEmpty(t, rs.Continuation)
	assert.False(t, rs.Statistics.CacheHit)
}

func TestFilterParseIsCached(t *testing.T) {
	e, m := newTestEngine(t)
	seed(m, 5)

	raw := RawOptions{Filter: "Price ge 0"}
	rs, err := e.Execute(context.Background(), raw)
	require.NoError(t, err)
	assert.False(t, rs.Statistics.CacheHit)

	rs, err = e.Execute(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, rs.Statistics.CacheHit)

	hits := e.metrics.cacheHits.(*native.Counter)
	misses := e.metrics.cacheMisses.(*native.Counter)
	assert.Equal(t, float64(1), hits.Value())
	assert.Equal(t, float64(1), misses.Value())
}

func TestTopIsClamped(t *testing.T) {
	e, m := newTestEngine(t)
	seed(m, 5)

	opts, _, err := e.ParseOptions(RawOptions{Top: 5000})
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), opts.Top)
}

func TestBadOrderByRejected(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Execute(context.Background(), RawOptions{OrderBy: "Price sideways"})
	require.Error(t, err)
	de, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeValidationBadOption, de.Code)

	_, err = e.Execute(context.Background(), RawOptions{OrderBy: "Price desc extra"})
	require.Error(t, err)

	_, err = e.Execute(context.Background(), RawOptions{Select: "Price,,Name"})
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindValidation, diagnostics.KindOf(err))
}

func TestFilterLengthLimit(t *testing.T) {
	m := table.NewMemTable()
	cfg := DefaultConfig()
	cfg.MaxFilterLength = 16
	provider := native.NewProvider(meter.NewHierarchicalScope("quill", "_"))
	e, err := New(m, cfg, provider)
	require.NoError(t, err)

	_, err = e.Execute(context.Background(), RawOptions{Filter: "Price gt 50 and Price lt 100"})
	require.Error(t, err)
	de, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeValidationFilterTooLong, de.Code)
}

func TestParseErrorsSurface(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Execute(context.Background(), RawOptions{Filter: "Price gt"})
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindSyntax, diagnostics.KindOf(err))

	failures := e.metrics.failures.(*native.Counter)
	assert.Equal(t, float64(1), failures.Value())
}

func TestExplain(t *testing.T) {
	e, m := newTestEngine(t)
	seed(m, 30)

	out, err := e.Explain(RawOptions{Filter: "PartitionKey eq 'p0' and Price gt 5"})
	require.NoError(t, err)
	assert.Contains(t, out, "PartitionScan")
	assert.Contains(t, out, "Price gt 5")

	out, err = e.Explain(RawOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "TableScan")
}

func TestMetricsObserved(t *testing.T) {
	e, m := newTestEngine(t)
	seed(m, 10)

	_, err := e.Execute(context.Background(), RawOptions{Filter: "Price ge 5"})
	require.NoError(t, err)

	scanned := e.metrics.scanned.(*native.Counter)
	assert.Equal(t, float64(10), scanned.Value())
	plans := e.metrics.plans.(*native.Counter)
	assert.Equal(t, float64(1), plans.Value("TableScan"))

	latency := e.metrics.latency.(*native.Histogram)
	assert.Equal(t, 1, latency.Count())
	assert.GreaterOrEqual(t, e.LatencyPercentile(50), float64(0))
}

func TestPaginationThroughEngine(t *testing.T) {
	e, m := newTestEngine(t)
	seed(m, 25)

	seen := map[table.Key]bool{}
	raw := RawOptions{Top: 10}
	for {
		rs, err := e.Execute(context.Background(), raw)
		require.NoError(t, err)
		for _, entity := range rs.Entities {
			assert.False(t, seen[entity.Key()])
			seen[entity.Key()] = true
		}
		if rs.Continuation == "" {
			break
		}
		raw.Continuation = rs.Continuation
	}
	assert.Len(t, seen, 25)
}
