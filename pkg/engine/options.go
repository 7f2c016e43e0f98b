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
	"strings"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/executor"
	"github.com/quilldb/quill/pkg/logical"
)

// RawOptions is the untyped query surface handed over by a transport layer.
// The continuation string is opaque to the transport and must round-trip
// byte for byte.
type RawOptions struct {
	Filter       string
	Select       string
	OrderBy      string
	Continuation string
	Top          uint32
	Skip         uint32
	Count        bool
}

// ParseOptions validates and types a raw option set. Top beyond the
// configured cap is clamped rather than rejected; malformed select or
// orderby lists are validation errors. The returned cache-hit flag reports
// whether the filter parse was served from the cache.
func (e *Engine) ParseOptions(raw RawOptions) (executor.Options, bool, error) {
	opts := executor.Options{
		RawFilter:    raw.Filter,
		Continuation: raw.Continuation,
		Skip:         raw.Skip,
		Count:        raw.Count,
	}

	opts.Top = raw.Top
	if opts.Top > e.cfg.MaxTop {
		opts.Top = e.cfg.MaxTop
	}

	cacheHit := false
	if raw.Filter != "" {
		if e.cfg.MaxFilterLength > 0 && len(raw.Filter) > e.cfg.MaxFilterLength {
			return opts, false, diagnostics.Newf(diagnostics.KindValidation, diagnostics.CodeValidationFilterTooLong,
				"filter is %d bytes, limit is %d", len(raw.Filter), e.cfg.MaxFilterLength)
		}
		node, hit, err := e.parseFilter(raw.Filter)
		if err != nil {
			return opts, false, err
		}
		opts.Filter = node
		cacheHit = hit
	}

	if raw.Select != "" {
		selected, err := parseSelect(raw.Select)
		if err != nil {
			return opts, false, err
		}
		opts.Select = selected
	}

	if raw.OrderBy != "" {
		fields, err := parseOrderBy(raw.OrderBy)
		if err != nil {
			return opts, false, err
		}
		opts.OrderBy = fields
	}
	return opts, cacheHit, nil
}

func parseSelect(raw string) (map[string]struct{}, error) {
	selected := make(map[string]struct{})
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, diagnostics.Newf(diagnostics.KindValidation, diagnostics.CodeValidationBadOption,
				"select list %q contains an empty property name", raw)
		}
		selected[name] = struct{}{}
	}
	return selected, nil
}

func parseOrderBy(raw string) ([]logical.SortField, error) {
	var fields []logical.SortField
	for _, part := range strings.Split(raw, ",") {
		tokens := strings.Fields(part)
		switch len(tokens) {
		case 1:
			fields = append(fields, logical.SortField{Property: tokens[0]})
		case 2:
			switch strings.ToLower(tokens[1]) {
			case "asc":
				fields = append(fields, logical.SortField{Property: tokens[0]})
			case "desc":
				fields = append(fields, logical.SortField{Property: tokens[0], Desc: true})
			default:
				return nil, diagnostics.Newf(diagnostics.KindValidation, diagnostics.CodeValidationBadOption,
					"orderby direction %q is not asc or desc", tokens[1])
			}
		default:
			return nil, diagnostics.Newf(diagnostics.KindValidation, diagnostics.CodeValidationBadOption,
				"orderby entry %q is not property[ asc|desc]", strings.TrimSpace(part))
		}
	}
	return fields, nil
}
