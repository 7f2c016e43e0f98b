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

// Package table defines the entity model and the entity source the query
// engine reads from, plus an in-memory implementation ordered by
// (PartitionKey, RowKey).
package table

import (
	"strings"
	"time"

	"github.com/quilldb/quill/pkg/edm"
)

// System property names resolvable in filters and projections.
const (
	PropPartitionKey = "PartitionKey"
	PropRowKey       = "RowKey"
	PropTimestamp    = "Timestamp"
)

// Key is the two-part primary key of an entity.
type Key struct {
	PartitionKey string
	RowKey       string
}

// Compare orders keys by (PartitionKey, RowKey) ascending.
func (k Key) Compare(other Key) int {
	if c := strings.Compare(k.PartitionKey, other.PartitionKey); c != 0 {
		return c
	}
	return strings.Compare(k.RowKey, other.RowKey)
}

// Entity is an immutable snapshot of a stored row: the two key fields, the
// user properties, and system metadata. The engine never mutates an entity.
type Entity struct {
	Timestamp    time.Time
	Properties   map[string]edm.Value
	PartitionKey string
	RowKey       string
	ETag         string
}

// Key returns the entity's primary key.
func (e Entity) Key() Key {
	return Key{PartitionKey: e.PartitionKey, RowKey: e.RowKey}
}

// Prop resolves a property by name. The key fields and Timestamp resolve as
// typed values; a missing property yields null, never an error.
func (e Entity) Prop(name string) edm.Value {
	switch name {
	case PropPartitionKey:
		return edm.StringValue(e.PartitionKey)
	case PropRowKey:
		return edm.StringValue(e.RowKey)
	case PropTimestamp:
		return edm.DateTimeValue(e.Timestamp)
	}
	if v, ok := e.Properties[name]; ok {
		return v
	}
	return edm.Null
}

// RangeBound bounds a RowKey range scan on one side.
type RangeBound struct {
	RowKey    string
	Inclusive bool
}

// Contains reports whether a row key satisfies the bound from the given side.
func (b *RangeBound) Contains(rowKey string, lower bool) bool {
	if b == nil {
		return true
	}
	c := strings.Compare(rowKey, b.RowKey)
	if lower {
		if b.Inclusive {
			return c >= 0
		}
		return c > 0
	}
	if b.Inclusive {
		return c <= 0
	}
	return c < 0
}

// Stats summarizes table shape for cost estimation.
type Stats struct {
	EntityCount    uint64
	PartitionCount uint64
}

// EntitySource is the read surface the engine consumes. Every sequence is
// ordered by (PartitionKey, RowKey) ascending so pagination stays
// deterministic, and every call returns a consistent snapshot taken under a
// short-held read section.
type EntitySource interface {
	ScanAll() []Entity
	ScanPartition(partitionKey string) []Entity
	GetPoint(partitionKey, rowKey string) (Entity, bool)
	ScanRange(partitionKey string, lower, upper *RangeBound) []Entity
	Stats() Stats
}
