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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/pkg/edm"
)

const fixture = `[
  {"partitionKey": "A", "rowKey": "1", "properties": {"Price": 10, "Name": "widget"}},
  {"partitionKey": "A", "rowKey": "2", "properties": {"Price": 60, "Active": true}},
  {"partitionKey": "B", "rowKey": "1", "properties": {"Price": 60, "Rating": 4.5}}
]`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entities.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func runQuery(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"query"}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestLoadFixtureInfersTypes(t *testing.T) {
	m, err := loadFixture(writeFixture(t))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	e, ok := m.GetPoint("B", "1")
	require.True(t, ok)
	assert.Equal(t, edm.TypeDouble, e.Prop("Rating").Type())
	assert.Equal(t, edm.TypeInt32, e.Prop("Price").Type())

	e, ok = m.GetPoint("A", "2")
	require.True(t, ok)
	assert.Equal(t, edm.TypeBoolean, e.Prop("Active").Type())
}

func TestLoadFixtureRejectsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"rowKey": "1"}]`), 0o600))
	_, err := loadFixture(path)
	require.Error(t, err)
}

func TestQueryCommandFiltersAndProjects(t *testing.T) {
	out := runQuery(t,
		"--data", writeFixture(t),
		"--filter", "Price gt 50",
		"--select", "Price",
		"--orderby", "Price desc",
	)
	var doc resultDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Entities, 2)
	assert.Equal(t, "A", doc.Entities[0].PartitionKey)
	assert.Equal(t, "2", doc.Entities[0].RowKey)
	assert.Equal(t, "60", doc.Entities[0].Properties["Price"])
	assert.NotContains(t, doc.Entities[1].Properties, "Rating")
	assert.Equal(t, uint64(3), doc.Statistics.EntitiesScanned)
}

func TestQueryCommandExplain(t *testing.T) {
	out := runQuery(t,
		"--data", writeFixture(t),
		"--filter", "PartitionKey eq 'A' and Price gt 50",
		"--explain",
	)
	assert.Contains(t, out, "PartitionScan")
}

func TestQueryCommandSurfacesParseErrors(t *testing.T) {
	root := NewRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"query", "--data", writeFixture(t), "--filter", "Price gt"})
	require.Error(t, root.Execute())
}
