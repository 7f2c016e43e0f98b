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

// Package native is an in-process meter provider. Counters and gauges keep
// one value per label series; histograms retain the raw observations so
// process-wide percentiles can be read back without an external scrape.
package native

import (
	"strings"
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/quilldb/quill/pkg/meter"
)

type series struct {
	labelValues []string
	value       float64
}

type metricVec struct {
	scope   meter.Scope
	metrics map[string]series
	name    string
	mutex   sync.Mutex
}

func newMetricVec(name string, scope meter.Scope) *metricVec {
	return &metricVec{
		scope:   scope,
		name:    name,
		metrics: map[string]series{},
	}
}

func seriesKey(labelValues []string) string {
	return strings.Join(labelValues, "\x00")
}

func (v *metricVec) inc(delta float64, labelValues ...string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	key := seriesKey(labelValues)
	s, exist := v.metrics[key]
	if !exist {
		s = series{labelValues: labelValues}
	}
	s.value += delta
	v.metrics[key] = s
}

func (v *metricVec) set(value float64, labelValues ...string) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.metrics[seriesKey(labelValues)] = series{labelValues: labelValues, value: value}
}

// Delete removes the series with the given label values.
func (v *metricVec) Delete(labelValues ...string) bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	key := seriesKey(labelValues)
	_, exist := v.metrics[key]
	delete(v.metrics, key)
	return exist
}

// Value reads one series back, zero when it has never been written.
func (v *metricVec) Value(labelValues ...string) float64 {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.metrics[seriesKey(labelValues)].value
}

// Counter is the native implementation of meter.Counter.
type Counter struct {
	*metricVec
}

// Inc adds delta to the series.
func (c *Counter) Inc(delta float64, labelValues ...string) {
	c.inc(delta, labelValues...)
}

// Gauge is the native implementation of meter.Gauge.
type Gauge struct {
	*metricVec
}

// Add adds delta to the series.
func (g *Gauge) Add(delta float64, labelValues ...string) {
	g.inc(delta, labelValues...)
}

// Set overwrites the series value.
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.set(value, labelValues...)
}

// Histogram is the native implementation of meter.Histogram. Observations
// are retained per series, bounded by maxObservations with oldest-first
// eviction, so percentile reads stay cheap and memory stays bounded.
type Histogram struct {
	scope        meter.Scope
	observations map[string][]float64
	name         string
	mutex        sync.Mutex
}

const maxObservations = 16384

// Observe records one value.
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	key := seriesKey(labelValues)
	obs := append(h.observations[key], value)
	if len(obs) > maxObservations {
		obs = obs[len(obs)-maxObservations:]
	}
	h.observations[key] = obs
}

// Delete removes the series with the given label values.
func (h *Histogram) Delete(labelValues ...string) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	key := seriesKey(labelValues)
	_, exist := h.observations[key]
	delete(h.observations, key)
	return exist
}

// Percentile computes the p-th percentile (0 < p <= 100) of the retained
// observations for one series. It returns 0 when the series is empty.
func (h *Histogram) Percentile(p float64, labelValues ...string) float64 {
	h.mutex.Lock()
	obs := h.observations[seriesKey(labelValues)]
	data := make([]float64, len(obs))
	copy(data, obs)
	h.mutex.Unlock()
	if len(data) == 0 {
		return 0
	}
	v, err := stats.Percentile(data, p)
	if err != nil {
		return 0
	}
	return v
}

// Count returns how many observations one series currently retains.
func (h *Histogram) Count(labelValues ...string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.observations[seriesKey(labelValues)])
}

type provider struct {
	scope meter.Scope
}

// NewProvider creates an in-process provider under the given scope.
func NewProvider(scope meter.Scope) meter.Provider {
	return &provider{scope: scope}
}

func (p *provider) Counter(name string, _ ...string) meter.Counter {
	return &Counter{metricVec: newMetricVec(p.scope.GetNamespace()+"_"+name, p.scope)}
}

func (p *provider) Gauge(name string, _ ...string) meter.Gauge {
	return &Gauge{metricVec: newMetricVec(p.scope.GetNamespace()+"_"+name, p.scope)}
}

func (p *provider) Histogram(name string, _ meter.Buckets, _ ...string) meter.Histogram {
	return &Histogram{
		scope:        p.scope,
		name:         p.scope.GetNamespace() + "_" + name,
		observations: map[string][]float64{},
	}
}
