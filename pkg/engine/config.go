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

// Package engine is the top of the query pipeline: it turns raw query
// options into a parsed and validated query, picks a plan, runs it, and
// reports metrics, with a compute-once cache over filter parsing.
package engine

// Config bounds what one query may cost before it runs.
type Config struct {
	// MaxTop is the hard page-size cap; larger requests are clamped, not
	// rejected.
	MaxTop uint32
	// MaxExpressionDepth bounds filter nesting.
	MaxExpressionDepth int
	// MaxFilterLength bounds the raw filter text, in bytes.
	MaxFilterLength int
	// CacheSize is the number of parsed filters kept by the LRU cache.
	CacheSize int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxTop:             1000,
		MaxExpressionDepth: 32,
		MaxFilterLength:    8192,
		CacheSize:          1024,
	}
}
