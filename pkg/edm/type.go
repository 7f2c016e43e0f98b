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

// Package edm defines the entity-data-model scalar types, the tagged value
// union carried by entity properties and filter literals, and the
// comparison, conversion and promotion rules between them.
package edm

// Type is an EDM scalar type tag.
type Type int

// Possible values are Null, String, Int32, Int64, Double, Boolean, DateTime, Guid, Binary.
const (
	TypeNull Type = iota
	TypeString
	TypeInt32
	TypeInt64
	TypeDouble
	TypeBoolean
	TypeDateTime
	TypeGuid
	TypeBinary
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Edm.Null"
	case TypeString:
		return "Edm.String"
	case TypeInt32:
		return "Edm.Int32"
	case TypeInt64:
		return "Edm.Int64"
	case TypeDouble:
		return "Edm.Double"
	case TypeBoolean:
		return "Edm.Boolean"
	case TypeDateTime:
		return "Edm.DateTime"
	case TypeGuid:
		return "Edm.Guid"
	case TypeBinary:
		return "Edm.Binary"
	default:
		return "Edm.Unknown"
	}
}

// IsNumeric reports whether t participates in numeric promotion.
func (t Type) IsNumeric() bool {
	return t == TypeInt32 || t == TypeInt64 || t == TypeDouble
}

// Promote returns the widest numeric type between two numeric types,
// following Int32 < Int64 < Double.
func Promote(a, b Type) Type {
	if a == TypeDouble || b == TypeDouble {
		return TypeDouble
	}
	if a == TypeInt64 || b == TypeInt64 {
		return TypeInt64
	}
	return TypeInt32
}
