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

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/quilldb/quill/pkg/executor"
	"github.com/quilldb/quill/pkg/logger"
	"github.com/quilldb/quill/pkg/logical"
	"github.com/quilldb/quill/pkg/meter"
	"github.com/quilldb/quill/pkg/table"
	"github.com/quilldb/quill/pkg/tql"
)

// Engine executes queries against one entity source. It is safe for
// concurrent use: parsed filters are shared through an LRU cache populated
// under a compute-once group, and every AST and plan is immutable once
// built.
type Engine struct {
	source  table.EntitySource
	cache   *lru.Cache
	exec    *executor.Executor
	clock   clock.Clock
	log     *logger.Logger
	metrics *queryMetrics
	group   singleflight.Group
	cfg     Config
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock injects a clock, for deterministic timing in tests.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
		e.exec = executor.NewWithClock(c)
	}
}

// New creates an engine over the given source, reporting metrics through the
// given provider.
func New(source table.EntitySource, cfg Config, provider meter.Provider, opts ...Option) (*Engine, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		source:  source,
		cfg:     cfg,
		cache:   cache,
		clock:   clock.New(),
		exec:    executor.New(),
		log:     logger.GetLogger("engine"),
		metrics: newQueryMetrics(provider),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Execute runs one query end to end: validate and type the options, pick a
// plan, run it, and report metrics.
func (e *Engine) Execute(ctx context.Context, raw RawOptions) (*executor.ResultSet, error) {
	start := e.clock.Now()
	opts, cacheHit, err := e.ParseOptions(raw)
	if err != nil {
		e.metrics.failures.Inc(1)
		return nil, err
	}
	e.metrics.observeCache(cacheHit)

	plan := logical.Optimize(opts.Filter, opts.OrderBy, e.source.Stats())
	rs, err := e.exec.Execute(ctx, plan, opts, e.source)
	if err != nil {
		e.metrics.failures.Inc(1)
		e.log.Warn().Err(err).Str("filter", raw.Filter).Msg("query failed")
		return nil, err
	}
	rs.Statistics.CacheHit = cacheHit

	elapsed := e.clock.Now().Sub(start)
	e.metrics.observe(plan, rs.Statistics, elapsed)
	e.log.Debug().
		Str("plan", plan.Kind().String()).
		Uint64("scanned", rs.Statistics.EntitiesScanned).
		Uint64("returned", rs.Statistics.EntitiesReturned).
		Dur("elapsed", elapsed).
		Bool("cache_hit", cacheHit).
		Msg("query executed")
	return rs, nil
}

// Explain parses and plans a query without running it, returning the plan
// rendering.
func (e *Engine) Explain(raw RawOptions) (string, error) {
	opts, _, err := e.ParseOptions(raw)
	if err != nil {
		return "", err
	}
	plan := logical.Optimize(opts.Filter, opts.OrderBy, e.source.Stats())
	return logical.Format(plan), nil
}

// LatencyPercentile reads the p-th query-latency percentile in seconds. It
// returns 0 unless the engine was built on the native meter provider, which
// is the only one that retains observations in-process.
func (e *Engine) LatencyPercentile(p float64) float64 {
	return e.metrics.latencyPercentile(p)
}

// parseFilter resolves a filter string to its AST through the shared cache.
// Concurrent misses on the same text collapse into one parse.
func (e *Engine) parseFilter(text string) (tql.Node, bool, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached.(tql.Node), true, nil
	}
	parsed, err, _ := e.group.Do(text, func() (interface{}, error) {
		node, err := tql.ParseFilter(text, tql.WithMaxDepth(e.cfg.MaxExpressionDepth))
		if err != nil {
			return nil, err
		}
		e.cache.Add(text, node)
		return node, nil
	})
	if err != nil {
		return nil, false, err
	}
	return parsed.(tql.Node), false, nil
}
