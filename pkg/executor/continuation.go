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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/tql"
)

// ContinuationToken records where the next page starts. NextPartitionKey and
// NextRowKey mark the last returned entity for key-ordered results;
// SkipCount is the absolute position for custom-ordered results. The
// fingerprint binds the token to the query that produced it.
type ContinuationToken struct {
	NextPartitionKey string `json:"np"`
	NextRowKey       string `json:"nr"`
	SkipCount        uint64 `json:"sc"`
	TotalScanned     uint64 `json:"ts"`
	QueryFingerprint uint64 `json:"fp"`
}

// Encode serializes the token into its opaque wire form.
func (t ContinuationToken) Encode() string {
	raw, _ := json.Marshal(t)
	return base64.RawURLEncoding.EncodeToString(raw)
}

var errStaleToken = diagnostics.New(diagnostics.KindValidation, diagnostics.CodeValidationStaleToken,
	"continuation token does not match the current query")

// DecodeToken parses an opaque token and verifies it against the current
// query's fingerprint. A malformed or replayed token is a validation error,
// never a crash.
func DecodeToken(encoded string, fingerprint uint64) (ContinuationToken, error) {
	var t ContinuationToken
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return t, diagnostics.Wrap(errors.WithStack(err), diagnostics.KindValidation,
			diagnostics.CodeValidationStaleToken, "malformed continuation token")
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, diagnostics.Wrap(errors.WithStack(err), diagnostics.KindValidation,
			diagnostics.CodeValidationStaleToken, "malformed continuation token")
	}
	if t.QueryFingerprint != fingerprint {
		return t, errStaleToken
	}
	return t, nil
}

// Fingerprint hashes the query shape a token must match: the canonical filter
// text plus orderby, select, and top. Two requests with the same fingerprint
// paginate the same result sequence.
func Fingerprint(opts Options) uint64 {
	var sb strings.Builder
	if opts.Filter != nil {
		sb.WriteString(tql.Print(opts.Filter))
	}
	sb.WriteByte('|')
	for _, f := range opts.OrderBy {
		sb.WriteString(f.Property)
		if f.Desc {
			sb.WriteString(" desc")
		}
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	selected := make([]string, 0, len(opts.Select))
	for name := range opts.Select {
		selected = append(selected, name)
	}
	sort.Strings(selected)
	sb.WriteString(strings.Join(selected, ","))
	fmt.Fprintf(&sb, "|%d", opts.Top)
	return xxhash.Sum64String(sb.String())
}
