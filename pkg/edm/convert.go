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
	"math"

	"github.com/quilldb/quill/pkg/diagnostics"
)

func badConversion(from, to Type) *diagnostics.Error {
	return diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeBadConversion,
		"cannot convert %s to %s", from, to)
}

// Convert coerces a value to the target type. Null converts to any type
// (staying null), numeric types convert between each other, and strings
// convert to DateTime and Guid by parsing. Everything else is a TypeError.
func Convert(v Value, to Type) (Value, error) {
	from := v.Type()
	if from == to {
		return v, nil
	}
	if from == TypeNull {
		return Null, nil
	}
	switch {
	case from.IsNumeric() && to == TypeDouble:
		return DoubleValue(v.Float()), nil
	case from.IsNumeric() && to == TypeInt64:
		if from == TypeDouble {
			return Int64Value(int64(v.Double())), nil
		}
		return Int64Value(v.Int()), nil
	case from.IsNumeric() && to == TypeInt32:
		var i int64
		if from == TypeDouble {
			i = int64(v.Double())
		} else {
			i = v.Int()
		}
		if i > math.MaxInt32 || i < math.MinInt32 {
			return Null, badConversion(from, to)
		}
		return Int32Value(int32(i)), nil
	case from == TypeString && to == TypeDateTime:
		parsed, err := ParseDateTime(v.Str())
		if err != nil {
			return Null, badConversion(from, to)
		}
		return parsed, nil
	case from == TypeString && to == TypeGuid:
		parsed, err := ParseGuid(v.Str())
		if err != nil {
			return Null, badConversion(from, to)
		}
		return parsed, nil
	default:
		return Null, badConversion(from, to)
	}
}
