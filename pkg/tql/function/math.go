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

	"github.com/quilldb/quill/pkg/edm"
)

func init() {
	registerRounding("round", math.Round)
	registerRounding("floor", math.Floor)
	registerRounding("ceiling", math.Ceil)
}

func registerRounding(name string, fn func(float64) float64) {
	register(name, []edm.Type{edm.TypeDouble}, 0, edm.TypeDouble, func(args []edm.Value) (edm.Value, error) {
		if anyNull(args) {
			return edm.Null, nil
		}
		return edm.DoubleValue(fn(args[0].Float())), nil
	})
}
