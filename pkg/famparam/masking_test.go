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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMasker_Mask(t *testing.T) {
	vm, warnings, err := NewValueMasker(
		[]*MaskRule{
			{Name: "Серийный номер", Kind: MDefault},
			{Name: "Пароль", Kind: MPassword},
			{Name: "Артикул", Kind: MHash},
		},
		[]byte("salt"),
	)
	require.NoError(t, err)
	require.Empty(t, warnings)

	// default kind masks every rune
	assert.Equal(t, "*********", vm.Mask("Серийный номер", "SN-123456"))
	// unmatched names pass through
	assert.Equal(t, "12.35", vm.Mask("Width", "12.35"))
	// sentinels pass through even for matched names
	assert.Equal(t, NoneValue, vm.Mask("Серийный номер", NoneValue))
	assert.Equal(t, UnknownValue, vm.Mask("Серийный номер", UnknownValue))
	assert.Equal(t, "Error: boom", vm.Mask("Серийный номер", "Error: boom"))
}

func TestValueMasker_Mask_hash(t *testing.T) {
	vm, warnings, err := NewValueMasker(
		[]*MaskRule{{Name: "Артикул", Kind: MHash}},
		[]byte("salt"),
	)
	require.NoError(t, err)
	require.Empty(t, warnings)

	first := vm.Mask("Артикул", "A-100")
	second := vm.Mask("Артикул", "A-100")
	other := vm.Mask("Артикул", "A-200")

	// deterministic 64-bit hex digest
	assert.Len(t, first, 16)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)

	salted, _, err := NewValueMasker(
		[]*MaskRule{{Name: "Артикул", Kind: MHash}},
		[]byte("another salt"),
	)
	require.NoError(t, err)
	assert.NotEqual(t, first, salted.Mask("Артикул", "A-100"))
}

func TestNewValueMasker_unknownKind(t *testing.T) {
	vm, warnings, err := NewValueMasker(
		[]*MaskRule{{Name: "Серийный номер", Kind: "rot13"}},
		nil,
	)
	require.NoError(t, err)
	assert.Nil(t, vm)
	require.Len(t, warnings, 1)
	assert.True(t, warnings.IsFatal())
}

func TestValidationWarning_MakeHash(t *testing.T) {
	w1 := NewValidationWarning().
		SetMsg("unknown masking kind").
		AddMeta("ParameterName", "Серийный номер").
		AddMeta("Kind", "rot13")
	w2 := NewValidationWarning().
		SetMsg("unknown masking kind").
		AddMeta("Kind", "rot13").
		AddMeta("ParameterName", "Серийный номер")

	w1.MakeHash()
	w2.MakeHash()

	// meta insertion order does not change the hash
	assert.Equal(t, w1.Hash, w2.Hash)
	assert.Len(t, w1.Hash, 32)
}
