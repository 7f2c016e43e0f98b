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

package table

import (
	"sync"
	"time"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/uuid"

	"github.com/quilldb/quill/pkg/edm"
)

// MemTable is an in-memory EntitySource backed by a red-black treemap keyed
// by (PartitionKey, RowKey). Reads copy the matching entities out under a
// read lock, so lock hold time is bounded by enumeration, not by filter
// evaluation; writers are never blocked by an in-flight query's predicate
// work.
type MemTable struct {
	entities   *treemap.Map
	partitions map[string]uint64
	mu         sync.RWMutex
}

// NewMemTable creates an empty table.
func NewMemTable() *MemTable {
	return &MemTable{
		entities: treemap.NewWith(func(a, b interface{}) int {
			return a.(Key).Compare(b.(Key))
		}),
		partitions: make(map[string]uint64),
	}
}

// Put inserts or replaces an entity, stamping Timestamp and a fresh ETag.
// The property map is copied so later caller mutations cannot leak into
// stored snapshots.
func (m *MemTable) Put(e Entity) Entity {
	props := make(map[string]edm.Value, len(e.Properties))
	for k, v := range e.Properties {
		props[k] = v
	}
	e.Properties = props
	e.Timestamp = time.Now().UTC()
	e.ETag = uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	key := e.Key()
	if _, exists := m.entities.Get(key); !exists {
		m.partitions[e.PartitionKey]++
	}
	m.entities.Put(key, e)
	return e
}

// Delete removes an entity, reporting whether it existed.
func (m *MemTable) Delete(partitionKey, rowKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Key{PartitionKey: partitionKey, RowKey: rowKey}
	if _, exists := m.entities.Get(key); !exists {
		return false
	}
	m.entities.Remove(key)
	if m.partitions[partitionKey] <= 1 {
		delete(m.partitions, partitionKey)
	} else {
		m.partitions[partitionKey]--
	}
	return true
}

// Len returns the number of stored entities.
func (m *MemTable) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entities.Size()
}

// ScanAll returns a snapshot of every entity in key order.
func (m *MemTable) ScanAll() []Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entity, 0, m.entities.Size())
	it := m.entities.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Entity))
	}
	return out
}

// ScanPartition returns a snapshot of one partition in row-key order.
func (m *MemTable) ScanPartition(partitionKey string) []Entity {
	return m.ScanRange(partitionKey, nil, nil)
}

// GetPoint returns the entity with the exact key, if present.
func (m *MemTable) GetPoint(partitionKey, rowKey string) (Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entities.Get(Key{PartitionKey: partitionKey, RowKey: rowKey})
	if !ok {
		return Entity{}, false
	}
	return v.(Entity), true
}

// ScanRange returns a snapshot of the row-key range within one partition.
// Iteration stops once the ordered map moves past the partition.
func (m *MemTable) ScanRange(partitionKey string, lower, upper *RangeBound) []Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entity
	it := m.entities.Iterator()
	for it.Next() {
		key := it.Key().(Key)
		if key.PartitionKey < partitionKey {
			continue
		}
		if key.PartitionKey > partitionKey {
			break
		}
		if !lower.Contains(key.RowKey, true) {
			continue
		}
		if !upper.Contains(key.RowKey, false) {
			break
		}
		out = append(out, it.Value().(Entity))
	}
	return out
}

// Stats reports table shape for the optimizer's cost model.
func (m *MemTable) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		EntityCount:    uint64(m.entities.Size()),
		PartitionCount: uint64(len(m.partitions)),
	}
}
