// Copyright 2025 Famex
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package famparam

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type mapResolver map[int64]*Entity

func (r mapResolver) ResolveEntity(id int64) (*Entity, bool) {
	e, ok := r[id]
	return e, ok
}

func TestNormalizer_Normalize(t *testing.T) {
	resolver := mapResolver{
		101: {ID: 101, Name: "Дуб", Kind: EntityKindMaterial},
		102: {ID: 102, Name: "door.png", Kind: EntityKindImage},
		103: {ID: 103, Name: "", Kind: "symbol"},
		104: {ID: 104, Name: "Nested Family", Kind: "family"},
	}

	tests := []struct {
		name     string
		param    *Parameter
		expected string
	}{
		{
			name:     "double rounds half up to two places",
			param:    &Parameter{StorageType: StorageDouble, Value: 12.345},
			expected: "12.35",
		},
		{
			name:     "double trims trailing zeros",
			param:    &Parameter{StorageType: StorageDouble, Value: 2100.0},
			expected: "2100",
		},
		{
			name:     "double below one place keeps one place",
			param:    &Parameter{StorageType: StorageDouble, Value: 0.5},
			expected: "0.5",
		},
		{
			name:     "double accepts decimal values",
			param:    &Parameter{StorageType: StorageDouble, Value: decimal.RequireFromString("120.457")},
			expected: "120.46",
		},
		{
			name:     "double without value",
			param:    &Parameter{StorageType: StorageDouble},
			expected: NoneValue,
		},
		{
			name:     "integer renders base 10",
			param:    &Parameter{StorageType: StorageInteger, Value: int64(42)},
			expected: "42",
		},
		{
			name:     "integer without value",
			param:    &Parameter{StorageType: StorageInteger},
			expected: NoneValue,
		},
		{
			name:     "yes_no one renders the fixed literal",
			param:    &Parameter{StorageType: StorageInteger, DataType: DataTypeYesNo, Value: int64(1)},
			expected: DefaultBooleanLiteral,
		},
		{
			name:     "yes_no zero renders the same literal",
			param:    &Parameter{StorageType: StorageInteger, DataType: DataTypeYesNo, Value: int64(0)},
			expected: DefaultBooleanLiteral,
		},
		{
			name:     "yes_no without value renders the same literal",
			param:    &Parameter{StorageType: StorageInteger, DataType: DataTypeYesNo},
			expected: DefaultBooleanLiteral,
		},
		{
			name:     "string passes through",
			param:    &Parameter{StorageType: StorageString, Value: "Ключ-01"},
			expected: "Ключ-01",
		},
		{
			name:     "string empty stays empty",
			param:    &Parameter{StorageType: StorageString, Value: ""},
			expected: "",
		},
		{
			name:     "string without value",
			param:    &Parameter{StorageType: StorageString},
			expected: NoneValue,
		},
		{
			name:     "value string wins over typed value",
			param:    &Parameter{StorageType: StorageDouble, Value: 12.345, ValueString: "2.53 м²"},
			expected: "2.53 м²",
		},
		{
			name:     "element ref to a material",
			param:    &Parameter{StorageType: StorageElementRef, Value: int64(101)},
			expected: "Дуб",
		},
		{
			name:     "element ref to an image",
			param:    &Parameter{StorageType: StorageElementRef, Value: int64(102)},
			expected: "door.png",
		},
		{
			name:     "element ref to a nameless entity",
			param:    &Parameter{StorageType: StorageElementRef, Value: int64(103)},
			expected: UnknownValue,
		},
		{
			name:     "element ref to a named non-resource entity",
			param:    &Parameter{StorageType: StorageElementRef, Value: int64(104)},
			expected: "Nested Family",
		},
		{
			name:     "element ref without value",
			param:    &Parameter{StorageType: StorageElementRef},
			expected: NoneValue,
		},
		{
			name:     "element ref non-positive id",
			param:    &Parameter{StorageType: StorageElementRef, Value: int64(-1)},
			expected: NoneValue,
		},
		{
			name:     "element ref to a missing entity",
			param:    &Parameter{StorageType: StorageElementRef, Value: int64(999)},
			expected: NoneValue,
		},
		{
			name:     "unrecognized storage type",
			param:    &Parameter{StorageType: "blob", Value: []byte{0x1}},
			expected: UnknownValue,
		},
	}

	n := NewNormalizer(resolver)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.param))
		})
	}
}

func TestNormalizer_Normalize_castErrors(t *testing.T) {
	n := NewNormalizer(nil)

	res := n.Normalize(&Parameter{StorageType: StorageDouble, Value: "not a number"})
	assert.True(t, len(res) > 7 && res[:7] == "Error: ", "got %q", res)

	res = n.Normalize(&Parameter{StorageType: StorageInteger, Value: []string{"1"}})
	assert.True(t, len(res) > 7 && res[:7] == "Error: ", "got %q", res)
}

func TestNormalizer_Normalize_overrides(t *testing.T) {
	n := NewNormalizer(nil).
		SetDecimalPlaces(1).
		SetBooleanLiteral("Yes/No")

	assert.Equal(t, "12.3", n.Normalize(&Parameter{StorageType: StorageDouble, Value: 12.345}))
	assert.Equal(t, "Yes/No", n.Normalize(&Parameter{StorageType: StorageInteger, DataType: DataTypeYesNo, Value: int64(1)}))
}

func TestNormalizer_Normalize_nilResolver(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Equal(t, NoneValue, n.Normalize(&Parameter{StorageType: StorageElementRef, Value: int64(101)}))
}
