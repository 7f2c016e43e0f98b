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

package diagnostics

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := Newf(KindSyntax, CodeSyntaxUnexpectedToken, "unexpected token %q", "gt").
		WithPos(Position{Line: 1, Column: 12, Offset: 11}).
		WithSuggestion("ge")
	assert.Contains(t, err.Error(), CodeSyntaxUnexpectedToken)
	assert.Contains(t, err.Error(), "line 1, column 12")
	assert.Contains(t, err.Error(), `did you mean "ge"?`)
}

func TestKindOfWrappedError(t *testing.T) {
	inner := New(KindType, CodeTypeIncomparable, "Boolean is not comparable to Int32")
	wrapped := errors.Wrap(inner, "evaluating filter")
	assert.Equal(t, KindType, KindOf(wrapped))

	e, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeTypeIncomparable, e.Code)

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestSuggest(t *testing.T) {
	functions := []string{"startswith", "endswith", "contains", "tolower", "toupper", "substringof"}

	tests := []struct {
		input string
		want  string
	}{
		{"startwith", "startswith"},
		{"toLower", "tolower"},
		{"substrngof", "substringof"},
		{"xyzzy", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Suggest(tt.input, functions), "input=%q", tt.input)
	}
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("trim", "trim"))
	assert.Equal(t, 1, editDistance("trim", "tram"))
	assert.Equal(t, 4, editDistance("", "ceil"))
}
