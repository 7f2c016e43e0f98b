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

package cmd

import (
	"bytes"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/quilldb/quill/pkg/edm"
	"github.com/quilldb/quill/pkg/table"
)

type fixtureEntity struct {
	PartitionKey string                     `json:"partitionKey"`
	RowKey       string                     `json:"rowKey"`
	Properties   map[string]json.RawMessage `json:"properties"`
}

// loadFixture reads a JSON entity array into a fresh table. Property types
// are inferred from the JSON value: booleans and strings map directly,
// integral numbers become Int32 or Int64 by range, anything else numeric
// becomes Double, and null becomes a null property.
func loadFixture(path string) (*table.MemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var fixtures []fixtureEntity
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, errors.Wrapf(err, "fixture %s is not a JSON entity array", path)
	}

	m := table.NewMemTable()
	for _, f := range fixtures {
		if f.PartitionKey == "" || f.RowKey == "" {
			return nil, errors.Errorf("fixture %s: every entity needs partitionKey and rowKey", path)
		}
		props := make(map[string]edm.Value, len(f.Properties))
		for name, rawValue := range f.Properties {
			v, err := decodeValue(rawValue)
			if err != nil {
				return nil, errors.Wrapf(err, "fixture %s: property %q", path, name)
			}
			props[name] = v
		}
		m.Put(table.Entity{PartitionKey: f.PartitionKey, RowKey: f.RowKey, Properties: props})
	}
	return m, nil
}

func decodeValue(raw json.RawMessage) (edm.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return edm.Null, errors.WithStack(err)
	}
	switch val := v.(type) {
	case nil:
		return edm.Null, nil
	case bool:
		return edm.BooleanValue(val), nil
	case string:
		return edm.StringValue(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return edm.Int32Value(int32(i)), nil
			}
			return edm.Int64Value(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return edm.Null, errors.WithStack(err)
		}
		return edm.DoubleValue(f), nil
	default:
		return edm.Null, errors.Errorf("unsupported property encoding %T", v)
	}
}
