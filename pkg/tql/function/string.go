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
	"strings"

	"github.com/quilldb/quill/pkg/edm"
)

// String predicates are case-sensitive and return false when any argument is
// null; string-valued functions propagate null instead.

func init() {
	str := edm.TypeString
	i32 := edm.TypeInt32
	boolean := edm.TypeBoolean

	register("startswith", []edm.Type{str, str}, 0, boolean, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.BooleanValue(false), nil
		}
		return edm.BooleanValue(strings.HasPrefix(args[0].Str(), args[1].Str())), nil
	})
	register("endswith", []edm.Type{str, str}, 0, boolean, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.BooleanValue(false), nil
		}
		return edm.BooleanValue(strings.HasSuffix(args[0].Str(), args[1].Str())), nil
	})
	register("contains", []edm.Type{str, str}, 0, boolean, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.BooleanValue(false), nil
		}
		return edm.BooleanValue(strings.Contains(args[0].Str(), args[1].Str())), nil
	})
	// substringof reverses contains: the needle comes first.
	register("substringof", []edm.Type{str, str}, 0, boolean, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.BooleanValue(false), nil
		}
		return edm.BooleanValue(strings.Contains(args[1].Str(), args[0].Str())), nil
	})

	register("tolower", []edm.Type{str}, 0, str, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.StringValue(strings.ToLower(args[0].Str())), nil
	})
	register("toupper", []edm.Type{str}, 0, str, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.StringValue(strings.ToUpper(args[0].Str())), nil
	})
	register("trim", []edm.Type{str}, 0, str, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.StringValue(strings.TrimSpace(args[0].Str())), nil
	})
	register("concat", []edm.Type{str, str}, 0, str, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.StringValue(args[0].Str() + args[1].Str()), nil
	})
	register("substring", []edm.Type{str, i32, i32}, 1, str, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		runes := []rune(args[0].Str())
		start := clampIndex(args[1].Int(), len(runes))
		end := len(runes)
		if len(args) == 3 {
			end = clampIndex(args[1].Int()+args[2].Int(), len(runes))
			if end < start {
				end = start
			}
		}
		return edm.StringValue(string(runes[start:end])), nil
	})
	register("length", []edm.Type{str}, 0, i32, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.Int32Value(int32(len([]rune(args[0].Str())))), nil
	})
	register("indexof", []edm.Type{str, str}, 0, i32, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		byteIdx := strings.Index(args[0].Str(), args[1].Str())
		if byteIdx < 0 {
			return edm.Int32Value(-1), nil
		}
		// report the index in runes so unicode strings behave like ASCII ones
		return edm.Int32Value(int32(len([]rune(args[0].Str()[:byteIdx])))), nil
	})
	register("replace", []edm.Type{str, str, str}, 0, str, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.StringValue(strings.ReplaceAll(args[0].Str(), args[1].Str(), args[2].Str())), nil
	})
}

func anyNull(args []edm.Value) bool {
	for _, a := range args {
		if a.IsNull() {
			return true
		}
	}
	return false
}

func clampIndex(i int64, length int) int {
	if i < 0 {
		return 0
	}
	if i > int64(length) {
		return length
	}
	return int(i)
}
