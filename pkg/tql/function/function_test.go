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

package function

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
)

func call(t *testing.T, name string, args ...edm.Value) edm.Value {
	t.Helper()
	sig, ok := Lookup(name)
	require.True(t, ok, "function %q not registered", name)
	v, err := sig.Call(args)
	require.NoError(t, err)
	return v
}

func TestStringPredicates(t *testing.T) {
	assert.True(t, call(t, "startswith", edm.StringValue("Azure"), edm.StringValue("Az")).Bool())
	assert.False(t, call(t, "startswith", edm.StringValue("Azure"), edm.StringValue("az")).Bool(), "predicates are case-sensitive")
	assert.True(t, call(t, "endswith", edm.StringValue("Azure"), edm.StringValue("ure")).Bool())
	assert.True(t, call(t, "contains", edm.StringValue("haystack"), edm.StringValue("sta")).Bool())
	assert.True(t, call(t, "substringof", edm.StringValue("sta"), edm.StringValue("haystack")).Bool())
}

func TestStringPredicatesNullSafe(t *testing.T) {
	v := call(t, "startswith", edm.Null, edm.StringValue("Az"))
	assert.Equal(t, edm.TypeBoolean, v.Type())
	assert.False(t, v.Bool())

	v = call(t, "contains", edm.StringValue("x"), edm.Null)
	assert.False(t, v.Bool())
}

func TestStringValuedFunctions(t *testing.T) {
	assert.Equal(t, "azure", call(t, "tolower", edm.StringValue("AzUrE")).Str())
	assert.Equal(t, "AZURE", call(t, "toupper", edm.StringValue("azure")).Str())
	assert.Equal(t, "x", call(t, "trim", edm.StringValue("  x  ")).Str())
	assert.Equal(t, "ab", call(t, "concat", edm.StringValue("a"), edm.StringValue("b")).Str())
	assert.Equal(t, "cdef", call(t, "substring", edm.StringValue("abcdef"), edm.Int32Value(2)).Str())
	assert.Equal(t, "cd", call(t, "substring", edm.StringValue("abcdef"), edm.Int32Value(2), edm.Int32Value(2)).Str())
	assert.Equal(t, "b-c", call(t, "replace", edm.StringValue("b.c"), edm.StringValue("."), edm.StringValue("-")).Str())

	assert.True(t, call(t, "tolower", edm.Null).IsNull())
	assert.True(t, call(t, "concat", edm.StringValue("a"), edm.Null).IsNull())
}

func TestUnicodeStringFunctions(t *testing.T) {
	assert.Equal(t, int64(4), call(t, "length", edm.StringValue("héllo"[0:5])).Int())
	assert.Equal(t, int64(5), call(t, "length", edm.StringValue("héllo")).Int())
	assert.Equal(t, int64(1), call(t, "indexof", edm.StringValue("héllo"), edm.StringValue("él")).Int())
	assert.Equal(t, "él", call(t, "substring", edm.StringValue("héllo"), edm.Int32Value(1), edm.Int32Value(2)).Str())
}

func TestSubstringClampsOutOfRange(t *testing.T) {
	assert.Equal(t, "", call(t, "substring", edm.StringValue("ab"), edm.Int32Value(10)).Str())
	assert.Equal(t, "ab", call(t, "substring", edm.StringValue("ab"), edm.Int32Value(-5)).Str())
}

func TestCallCoercesPromotedArguments(t *testing.T) {
	// Promotable numeric arguments reach the implementation as the declared
	// parameter type, never as a differently-represented value it misreads.
	assert.Equal(t, "ello", call(t, "substring", edm.StringValue("hello"), edm.DoubleValue(1)).Str())
	assert.Equal(t, "el", call(t, "substring", edm.StringValue("hello"), edm.Int64Value(1), edm.Int64Value(2)).Str())
	assert.Equal(t, int64(5), call(t, "length", edm.StringValue("hello")).Int())

	sig, _ := Lookup("substring")
	_, err := sig.Call([]edm.Value{edm.StringValue("hello"), edm.Int64Value(int64(math.MaxInt32) + 1)})
	require.Error(t, err)
	e, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeTypeBadArgument, e.Code)
}

func TestDateParts(t *testing.T) {
	ts := edm.DateTimeValue(time.Date(2024, 3, 9, 13, 45, 59, 0, time.UTC))
	assert.Equal(t, int64(2024), call(t, "year", ts).Int())
	assert.Equal(t, int64(3), call(t, "month", ts).Int())
	assert.Equal(t, int64(9), call(t, "day", ts).Int())
	assert.Equal(t, int64(13), call(t, "hour", ts).Int())
	assert.Equal(t, int64(45), call(t, "minute", ts).Int())
	assert.Equal(t, int64(59), call(t, "second", ts).Int())
	assert.True(t, call(t, "year", edm.Null).IsNull())
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.0, call(t, "round", edm.DoubleValue(2.5)).Double())
	assert.Equal(t, 2.0, call(t, "floor", edm.DoubleValue(2.9)).Double())
	assert.Equal(t, 3.0, call(t, "ceiling", edm.DoubleValue(2.1)).Double())
	// numeric promotion: integer arguments are accepted
	assert.Equal(t, 4.0, call(t, "round", edm.Int32Value(4)).Double())
}

func TestValidateArity(t *testing.T) {
	sig, _ := Lookup("substring")
	_, err := sig.Validate([]edm.Type{edm.TypeString})
	require.Error(t, err)
	e, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeFunctionArity, e.Code)

	_, err = sig.Validate([]edm.Type{edm.TypeString, edm.TypeInt32})
	assert.NoError(t, err)
	_, err = sig.Validate([]edm.Type{edm.TypeString, edm.TypeInt32, edm.TypeInt32})
	assert.NoError(t, err)
}

func TestValidateArgumentTypes(t *testing.T) {
	sig, _ := Lookup("startswith")
	_, err := sig.Validate([]edm.Type{edm.TypeString, edm.TypeInt32})
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindType, diagnostics.KindOf(err))

	ret, err := sig.Validate([]edm.Type{edm.TypeString, edm.TypeNull})
	require.NoError(t, err)
	assert.Equal(t, edm.TypeBoolean, ret)
}

func TestUnknownError(t *testing.T) {
	err := UnknownError("startwith")
	assert.Equal(t, "startswith", err.Suggestion)
	assert.Equal(t, diagnostics.CodeFunctionUnknown, err.Code)
}
