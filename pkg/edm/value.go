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
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Value is a tagged union over the EDM scalar types. A Value carries its type
// alongside the native representation so consumers never re-infer the type
// from a dynamic value.
type Value struct {
	t    time.Time
	str  string
	bin  []byte
	i    int64
	f    float64
	g    uuid.UUID
	typ  Type
	b    bool
}

// Null is the singleton null value.
var Null = Value{typ: TypeNull}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

// Int32Value wraps an int32.
func Int32Value(i int32) Value { return Value{typ: TypeInt32, i: int64(i)} }

// Int64Value wraps an int64.
func Int64Value(i int64) Value { return Value{typ: TypeInt64, i: i} }

// DoubleValue wraps a float64.
func DoubleValue(f float64) Value { return Value{typ: TypeDouble, f: f} }

// BooleanValue wraps a bool.
func BooleanValue(b bool) Value { return Value{typ: TypeBoolean, b: b} }

// DateTimeValue wraps an instant. The instant is normalized to UTC so
// comparisons and rendering are zone-independent.
func DateTimeValue(t time.Time) Value { return Value{typ: TypeDateTime, t: t.UTC()} }

// GuidValue wraps a UUID.
func GuidValue(g uuid.UUID) Value { return Value{typ: TypeGuid, g: g} }

// BinaryValue wraps a byte slice. The slice is copied to keep values immutable.
func BinaryValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{typ: TypeBinary, bin: cp}
}

// ParseDateTime parses an ISO-8601 datetime literal body.
func ParseDateTime(s string) (Value, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTimeValue(t), nil
		}
	}
	return Null, errors.Errorf("malformed datetime literal %q", s)
}

// ParseGuid parses a GUID literal body into its canonical form.
func ParseGuid(s string) (Value, error) {
	g, err := uuid.Parse(s)
	if err != nil {
		return Null, errors.Wrapf(err, "malformed guid literal %q", s)
	}
	return GuidValue(g), nil
}

// Type returns the EDM type tag.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether the value is the null value.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// Str returns the native string. Valid only for TypeString.
func (v Value) Str() string { return v.str }

// Int returns the native integer. Valid for TypeInt32 and TypeInt64.
func (v Value) Int() int64 { return v.i }

// Double returns the native float. Valid only for TypeDouble.
func (v Value) Double() float64 { return v.f }

// Bool returns the native bool. Valid only for TypeBoolean.
func (v Value) Bool() bool { return v.b }

// Time returns the native instant in UTC. Valid only for TypeDateTime.
func (v Value) Time() time.Time { return v.t }

// Guid returns the native UUID. Valid only for TypeGuid.
func (v Value) Guid() uuid.UUID { return v.g }

// Binary returns a copy of the native bytes. Valid only for TypeBinary.
func (v Value) Binary() []byte {
	cp := make([]byte, len(v.bin))
	copy(cp, v.bin)
	return cp
}

// Float widens any numeric value to float64.
func (v Value) Float() float64 {
	if v.typ == TypeDouble {
		return v.f
	}
	return float64(v.i)
}

// String renders the value as a filter literal that lexes back to an equal
// value, which makes it usable by the AST printer and plan formatter.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "null"
	case TypeString:
		return "'" + strings.ReplaceAll(v.str, "'", "''") + "'"
	case TypeInt32:
		return strconv.FormatInt(v.i, 10)
	case TypeInt64:
		return strconv.FormatInt(v.i, 10) + "L"
	case TypeDouble:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case TypeBoolean:
		return strconv.FormatBool(v.b)
	case TypeDateTime:
		return "datetime'" + v.t.Format(time.RFC3339Nano) + "'"
	case TypeGuid:
		return "guid'" + v.g.String() + "'"
	case TypeBinary:
		return "X'" + hex.EncodeToString(v.bin) + "'"
	default:
		return "<invalid>"
	}
}
