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
	"time"

	"github.com/quilldb/quill/pkg/executor"
	"github.com/quilldb/quill/pkg/logical"
	"github.com/quilldb/quill/pkg/meter"
	"github.com/quilldb/quill/pkg/meter/native"
)

type queryMetrics struct {
	latency     meter.Histogram
	scanned     meter.Counter
	returned    meter.Counter
	filteredOut meter.Counter
	plans       meter.Counter
	cacheHits   meter.Counter
	cacheMisses meter.Counter
	failures    meter.Counter
}

func newQueryMetrics(provider meter.Provider) *queryMetrics {
	return &queryMetrics{
		latency:     provider.Histogram("latency_seconds", meter.DefBuckets),
		scanned:     provider.Counter("entities_scanned"),
		returned:    provider.Counter("entities_returned"),
		filteredOut: provider.Counter("entities_filtered_out"),
		plans:       provider.Counter("plans", "kind"),
		cacheHits:   provider.Counter("filter_cache_hits"),
		cacheMisses: provider.Counter("filter_cache_misses"),
		failures:    provider.Counter("failures"),
	}
}

func (m *queryMetrics) observe(plan logical.Plan, stats executor.Statistics, elapsed time.Duration) {
	m.latency.Observe(elapsed.Seconds())
	m.scanned.Inc(float64(stats.EntitiesScanned))
	m.returned.Inc(float64(stats.EntitiesReturned))
	m.filteredOut.Inc(float64(stats.EntitiesFilteredOut))
	m.plans.Inc(1, plan.Kind().String())
}

func (m *queryMetrics) observeCache(hit bool) {
	if hit {
		m.cacheHits.Inc(1)
		return
	}
	m.cacheMisses.Inc(1)
}

func (m *queryMetrics) latencyPercentile(p float64) float64 {
	if h, ok := m.latency.(*native.Histogram); ok {
		return h.Percentile(p)
	}
	return 0
}
