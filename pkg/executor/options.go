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

// Package executor runs a query plan against an entity source: it evaluates
// the residual filter per candidate, sorts, paginates with resumable
// continuation tokens, and projects the selected properties.
package executor

import (
	"time"

	"github.com/quilldb/quill/pkg/logical"
	"github.com/quilldb/quill/pkg/table"
	"github.com/quilldb/quill/pkg/tql"
)

// Options carries the per-query knobs. Filter is the parsed expression the
// plan was derived from; Select holds property names to project (the key
// fields and system metadata are always retained); Top of zero means
// unlimited. Continuation, when non-empty, resumes a previous page and takes
// the place of Skip.
type Options struct {
	Select       map[string]struct{}
	Filter       tql.Node
	RawFilter    string
	Continuation string
	OrderBy      []logical.SortField
	Top          uint32
	Skip         uint32
	Count        bool
}

// Statistics describes one invocation. It feeds the diagnostics layer and is
// never persisted.
type Statistics struct {
	EntitiesScanned     uint64
	EntitiesReturned    uint64
	EntitiesFilteredOut uint64
	ExecutionTime       time.Duration
	SortTime            time.Duration
	CacheHit            bool
}

// ResultSet is one page of results. Continuation is empty when the page is
// the last one; Count is set only when Options.Count was requested.
type ResultSet struct {
	Count        *uint64
	Continuation string
	Entities     []table.Entity
	Statistics   Statistics
}
