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
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/logical"
	"github.com/quilldb/quill/pkg/table"
	"github.com/quilldb/quill/pkg/tql"
)

func put(m *table.MemTable, pk, rk string, props map[string]edm.Value) {
	m.Put(table.Entity{PartitionKey: pk, RowKey: rk, Properties: props})
}

func run(t *testing.T, source table.EntitySource, opts Options) *ResultSet {
	t.Helper()
	rs, err := runE(source, opts)
	require.NoError(t, err)
	return rs
}

func runE(source table.EntitySource, opts Options) (*ResultSet, error) {
	plan := logical.Optimize(opts.Filter, opts.OrderBy, source.Stats())
	return New().Execute(context.Background(), plan, opts, source)
}

func filterOpts(t *testing.T, filter string) Options {
	t.Helper()
	node, err := tql.ParseFilter(filter)
	require.NoError(t, err)
	return Options{Filter: node, RawFilter: filter}
}

func TestMissingPropertyIsNull(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "r", nil) // no Score property

	rs := run(t, m, filterOpts(t, "Score eq 5"))
	assert.Empty(t, rs.Entities)

	rs = run(t, m, filterOpts(t, "Score eq null"))
	require.Len(t, rs.Entities, 1)
	assert.Equal(t, "r", rs.Entities[0].RowKey)
}

func TestStringEqualityIsCaseInsensitive(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "1", map[string]edm.Value{"Name": edm.StringValue("Azure")})
	put(m, "p", "2", map[string]edm.Value{"Name": edm.StringValue("azure")})
	put(m, "p", "3", map[string]edm.Value{"Name": edm.StringValue("other")})

	rs := run(t, m, filterOpts(t, "Name eq 'AZURE'"))
	assert.Len(t, rs.Entities, 2)
}

func TestShortCircuitSkipsFailingRightOperand(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "r", map[string]edm.Value{
		"Active": edm.BooleanValue(false),
		"Name":   edm.StringValue("a"),
	})

	// Name gt on a non-key string property is a type error, but the false
	// left operand must prevent it from ever being evaluated.
	rs := run(t, m, filterOpts(t, "Active eq true and Name gt 'x'"))
	assert.Empty(t, rs.Entities)

	put(m, "p", "r2", map[string]edm.Value{
		"Active": edm.BooleanValue(true),
		"Name":   edm.StringValue("a"),
	})
	_, err := runE(m, filterOpts(t, "Active eq true and Name gt 'x'"))
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindType, diagnostics.KindOf(err))
}

func TestKeyColumnOrderingAllowed(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "a", nil)
	put(m, "p", "m", nil)
	put(m, "p", "z", nil)

	rs := run(t, m, filterOpts(t, "PartitionKey eq 'p' and RowKey gt 'a' and RowKey le 'z'"))
	require.Len(t, rs.Entities, 2)
	assert.Equal(t, "m", rs.Entities[0].RowKey)
	assert.Equal(t, "z", rs.Entities[1].RowKey)
}

func TestKeyEqualityIsOrdinal(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "r", nil)

	// Each pair is the same predicate twice: once extractable into a key
	// bound, once or-duplicated so it can only evaluate residually. Both
	// forms must agree, and key equality is exact, never case-folded.
	for _, filter := range []string{
		"PartitionKey eq 'P'",
		"PartitionKey eq 'P' or PartitionKey eq 'P'",
		"RowKey eq 'R'",
		"RowKey eq 'R' or RowKey eq 'R'",
	} {
		rs := run(t, m, filterOpts(t, filter))
		assert.Empty(t, rs.Entities, "filter %q", filter)
	}
	for _, filter := range []string{
		"PartitionKey eq 'p'",
		"PartitionKey eq 'p' or PartitionKey eq 'p'",
		"RowKey ne 'R'",
	} {
		rs := run(t, m, filterOpts(t, filter))
		assert.Len(t, rs.Entities, 1, "filter %q", filter)
	}
}

func TestFilterSortProjectScenario(t *testing.T) {
	m := table.NewMemTable()
	put(m, "A", "1", map[string]edm.Value{"Price": edm.Int32Value(10)})
	put(m, "A", "2", map[string]edm.Value{"Price": edm.Int32Value(60)})
	put(m, "B", "1", map[string]edm.Value{"Price": edm.Int32Value(60), "Extra": edm.StringValue("x")})

	opts := filterOpts(t, "Price gt 50")
	opts.Select = map[string]struct{}{"Price": {}}
	opts.OrderBy = []logical.SortField{{Property: "Price", Desc: true}}
	rs := run(t, m, opts)

	require.Len(t, rs.Entities, 2)
	// Equal Price values tiebreak by primary key.
	assert.Equal(t, table.Key{PartitionKey: "A", RowKey: "2"}, rs.Entities[0].Key())
	assert.Equal(t, table.Key{PartitionKey: "B", RowKey: "1"}, rs.Entities[1].Key())
	for _, e := range rs.Entities {
		assert.NotEmpty(t, e.PartitionKey)
		assert.NotEmpty(t, e.RowKey)
		assert.False(t, e.Timestamp.IsZero())
		assert.Contains(t, e.Properties, "Price")
		assert.NotContains(t, e.Properties, "Extra")
	}
	assert.Equal(t, uint64(3), rs.Statistics.EntitiesScanned)
	assert.Equal(t, uint64(1), rs.Statistics.EntitiesFilteredOut)
	assert.Equal(t, uint64(2), rs.Statistics.EntitiesReturned)
}

func TestNullsSortFirst(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "1", map[string]edm.Value{"Score": edm.Int32Value(5)})
	put(m, "p", "2", nil)
	put(m, "p", "3", map[string]edm.Value{"Score": edm.Int32Value(1)})

	rs := run(t, m, Options{OrderBy: []logical.SortField{{Property: "Score"}}})
	require.Len(t, rs.Entities, 3)
	assert.Equal(t, "2", rs.Entities[0].RowKey)
	assert.Equal(t, "3", rs.Entities[1].RowKey)
	assert.Equal(t, "1", rs.Entities[2].RowKey)
}

func TestSkipAndTop(t *testing.T) {
	m := table.NewMemTable()
	for i := 0; i < 10; i++ {
		put(m, "p", fmt.Sprintf("%02d", i), nil)
	}
	rs := run(t, m, Options{Skip: 3, Top: 4})
	require.Len(t, rs.Entities, 4)
	assert.Equal(t, "03", rs.Entities[0].RowKey)
	assert.Equal(t, "06", rs.Entities[3].RowKey)
	assert.NotEmpty(t, rs.Continuation)

	rs = run(t, m, Options{Skip: 20})
	assert.Empty(t, rs.Entities)
	assert.Empty(t, rs.Continuation)
}

func TestPaginationCoversAllEntitiesExactlyOnce(t *testing.T) {
	m := table.NewMemTable()
	for p := 0; p < 25; p++ {
		for r := 0; r < 100; r++ {
			put(m, fmt.Sprintf("p%02d", p), fmt.Sprintf("r%03d", r), nil)
		}
	}

	seen := make(map[table.Key]bool)
	opts := Options{Top: 1000}
	pages := 0
	for {
		rs := run(t, m, opts)
		pages++
		for _, e := range rs.Entities {
			assert.False(t, seen[e.Key()], "duplicate %v", e.Key())
			seen[e.Key()] = true
		}
		if rs.Continuation == "" {
			break
		}
		opts.Continuation = rs.Continuation
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 2500)
}

func TestContinuationSurvivesInsertsBeforeResumePoint(t *testing.T) {
	m := table.NewMemTable()
	for i := 0; i < 6; i++ {
		put(m, "p", fmt.Sprintf("r%d", i*2), nil)
	}
	rs := run(t, m, Options{Top: 3})
	require.Len(t, rs.Entities, 3)
	require.NotEmpty(t, rs.Continuation)

	// An insert before the resume key must not shift or duplicate page two.
	put(m, "p", "r1", nil)
	rs = run(t, m, Options{Top: 3, Continuation: rs.Continuation})
	require.Len(t, rs.Entities, 3)
	assert.Equal(t, "r6", rs.Entities[0].RowKey)
	assert.Empty(t, rs.Continuation)
}

func TestContinuationRejectsDifferentQuery(t *testing.T) {
	m := table.NewMemTable()
	for i := 0; i < 5; i++ {
		put(m, "p", fmt.Sprintf("r%d", i), map[string]edm.Value{"Price": edm.Int32Value(int32(i * 20))})
	}
	rs := run(t, m, Options{Top: 2})
	require.NotEmpty(t, rs.Continuation)

	opts := filterOpts(t, "Price gt 50")
	opts.Top = 2
	opts.Continuation = rs.Continuation
	_, err := runE(m, opts)
	require.Error(t, err)
	de, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeValidationStaleToken, de.Code)

	_, err = runE(m, Options{Top: 2, Continuation: "not base64!!"})
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindValidation, diagnostics.KindOf(err))
}

func TestCountIsFullMatchTotal(t *testing.T) {
	m := table.NewMemTable()
	for i := 0; i < 10; i++ {
		put(m, "p", fmt.Sprintf("r%d", i), map[string]edm.Value{"Even": edm.BooleanValue(i%2 == 0)})
	}
	opts := filterOpts(t, "Even eq true")
	opts.Top = 2
	opts.Count = true
	rs := run(t, m, opts)
	assert.Len(t, rs.Entities, 2)
	require.NotNil(t, rs.Count)
	assert.Equal(t, uint64(5), *rs.Count)
}

func TestPointPlanUsesGetPoint(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "r", map[string]edm.Value{"Price": edm.Int32Value(10)})
	put(m, "p", "s", nil)

	rs := run(t, m, filterOpts(t, "PartitionKey eq 'p' and RowKey eq 'r'"))
	require.Len(t, rs.Entities, 1)
	assert.Equal(t, uint64(1), rs.Statistics.EntitiesScanned)

	// Point lookup plus residual that the entity fails.
	rs = run(t, m, filterOpts(t, "PartitionKey eq 'p' and RowKey eq 'r' and Price gt 50"))
	assert.Empty(t, rs.Entities)
}

func TestCancellationAborts(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "r", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := logical.Optimize(nil, nil, m.Stats())
	_, err := New().Execute(ctx, plan, Options{}, m)
	require.Error(t, err)
	de, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeResourceCanceled, de.Code)
	assert.Equal(t, diagnostics.KindResource, de.Kind)
}

func TestArithmeticInFilter(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "1", map[string]edm.Value{"Price": edm.Int32Value(40), "Tax": edm.Int32Value(20)})
	put(m, "p", "2", map[string]edm.Value{"Price": edm.Int32Value(40), "Tax": edm.Int32Value(5)})

	rs := run(t, m, filterOpts(t, "Price add Tax gt 50"))
	require.Len(t, rs.Entities, 1)
	assert.Equal(t, "1", rs.Entities[0].RowKey)
}

func TestFunctionInFilter(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "1", map[string]edm.Value{"Name": edm.StringValue("widget")})
	put(m, "p", "2", map[string]edm.Value{"Name": edm.StringValue("gadget")})
	put(m, "p", "3", nil)

	// Null argument makes the predicate false, not an error.
	rs := run(t, m, filterOpts(t, "startswith(Name, 'wid')"))
	require.Len(t, rs.Entities, 1)
	assert.Equal(t, "1", rs.Entities[0].RowKey)
}

func TestNotOperator(t *testing.T) {
	m := table.NewMemTable()
	put(m, "p", "1", map[string]edm.Value{"Active": edm.BooleanValue(true)})
	put(m, "p", "2", map[string]edm.Value{"Active": edm.BooleanValue(false)})

	rs := run(t, m, filterOpts(t, "not (Active eq true)"))
	require.Len(t, rs.Entities, 1)
	assert.Equal(t, "2", rs.Entities[0].RowKey)
}

func TestFingerprintDistinguishesQueryShape(t *testing.T) {
	base := Options{Top: 10}
	assert.Equal(t, Fingerprint(base), Fingerprint(Options{Top: 10}))

	withFilter := filterOpts(t, "Price gt 50")
	withFilter.Top = 10
	assert.NotEqual(t, Fingerprint(base), Fingerprint(withFilter))
	assert.NotEqual(t, Fingerprint(base), Fingerprint(Options{Top: 11}))
	assert.NotEqual(t, Fingerprint(base),
		Fingerprint(Options{Top: 10, OrderBy: []logical.SortField{{Property: "Price"}}}))
	assert.NotEqual(t, Fingerprint(base),
		Fingerprint(Options{Top: 10, Select: map[string]struct{}{"Price": {}}}))
}

func TestTokenRoundTrip(t *testing.T) {
	token := ContinuationToken{
		NextPartitionKey: "p",
		NextRowKey:       "r",
		SkipCount:        42,
		TotalScanned:     100,
		QueryFingerprint: 7,
	}
	decoded, err := DecodeToken(token.Encode(), 7)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(token, decoded))

	_, err = DecodeToken(token.Encode(), 8)
	require.Error(t, err)
}
