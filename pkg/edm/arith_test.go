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

package edm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/pkg/diagnostics"
)

func TestArithmeticPromotion(t *testing.T) {
	v, err := Arithmetic(Int32Value(2), OpAdd, Int32Value(3))
	require.NoError(t, err)
	assert.Equal(t, TypeInt32, v.Type())
	assert.Equal(t, int64(5), v.Int())

	v, err = Arithmetic(Int32Value(2), OpMul, Int64Value(3))
	require.NoError(t, err)
	assert.Equal(t, TypeInt64, v.Type())

	v, err = Arithmetic(Int64Value(7), OpDiv, DoubleValue(2))
	require.NoError(t, err)
	assert.Equal(t, TypeDouble, v.Type())
	assert.Equal(t, 3.5, v.Double())
}

func TestIntegerDivisionTruncates(t *testing.T) {
	v, err := Arithmetic(Int32Value(7), OpDiv, Int32Value(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int())

	v, err = Arithmetic(Int32Value(7), OpMod, Int32Value(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int())
}

func TestDivisionByZero(t *testing.T) {
	_, err := Arithmetic(Int32Value(1), OpDiv, Int32Value(0))
	require.Error(t, err)
	e, ok := diagnostics.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diagnostics.CodeTypeDivisionByZero, e.Code)

	_, err = Arithmetic(DoubleValue(1), OpMod, DoubleValue(0))
	require.Error(t, err)
}

func TestArithmeticNullPropagates(t *testing.T) {
	v, err := Arithmetic(Null, OpAdd, Int32Value(1))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestArithmeticRejectsNonNumeric(t *testing.T) {
	_, err := Arithmetic(StringValue("a"), OpAdd, Int32Value(1))
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindType, diagnostics.KindOf(err))
}

func TestConvert(t *testing.T) {
	v, err := Convert(Int32Value(5), TypeDouble)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.Double())

	v, err = Convert(StringValue("2024-03-01T00:00:00Z"), TypeDateTime)
	require.NoError(t, err)
	assert.Equal(t, TypeDateTime, v.Type())

	_, err = Convert(BooleanValue(true), TypeInt32)
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindType, diagnostics.KindOf(err))
}
