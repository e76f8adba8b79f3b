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

package famdoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famexio/famex/pkg/famparam"
)

func TestDecode(t *testing.T) {
	data := `{
	  "name": "Дверь",
	  "isFamily": true,
	  "category": "Doors",
	  "parameters": [
	    {"name": "Width", "group": "PG_GEOMETRY", "storageType": "double", "value": 12.345},
	    {"name": "Материал", "group": "PG_MATERIALS", "storageType": "element_ref", "value": 101}
	  ],
	  "entities": [
	    {"id": 101, "name": "Дуб", "kind": "material"}
	  ]
	}`

	doc, err := Decode(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "Дверь", doc.Name)
	assert.True(t, doc.IsFamily)
	assert.Equal(t, "Doors", doc.Category)
	require.Len(t, doc.Parameters, 2)
	assert.Equal(t, famparam.StorageDouble, doc.Parameters[0].StorageType)

	entity, ok := doc.ResolveEntity(101)
	require.True(t, ok)
	assert.Equal(t, "Дуб", entity.Name)

	_, ok = doc.ResolveEntity(999)
	assert.False(t, ok)
}

func TestDecode_errors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"name": `))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"isFamily": true}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestEncodeDecode(t *testing.T) {
	doc := New("Дверь", true,
		[]*famparam.Parameter{
			{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 12.345},
		},
		[]*famparam.Entity{
			{ID: 101, Name: "Дуб", Kind: famparam.EntityKindMaterial},
		},
	)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, doc.Encode(buf))

	decoded, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Name, decoded.Name)
	assert.Equal(t, doc.IsFamily, decoded.IsFamily)
	require.Len(t, decoded.Parameters, 1)
	assert.Equal(t, "Width", decoded.Parameters[0].Name)

	entity, ok := decoded.ResolveEntity(101)
	require.True(t, ok)
	assert.Equal(t, famparam.EntityKindMaterial, entity.Kind)
}

func TestSample(t *testing.T) {
	doc := Sample("TestFamily")

	assert.Equal(t, "TestFamily", doc.Name)
	assert.True(t, doc.IsFamily)
	assert.NotEmpty(t, doc.Parameters)
	assert.NotEmpty(t, doc.Entities)

	// the sample exercises every storage type and the filtering paths
	var hasFormula, hasValueString, hasYesNo, hasExcluded bool
	types := make(map[string]bool)
	for _, p := range doc.Parameters {
		types[p.StorageType] = true
		if p.HasFormula() {
			hasFormula = true
		}
		if p.ValueString != "" {
			hasValueString = true
		}
		if p.DataType == famparam.DataTypeYesNo {
			hasYesNo = true
		}
		if p.Name == "URL" {
			hasExcluded = true
		}
	}
	assert.True(t, types[famparam.StorageDouble])
	assert.True(t, types[famparam.StorageInteger])
	assert.True(t, types[famparam.StorageString])
	assert.True(t, types[famparam.StorageElementRef])
	assert.True(t, hasFormula)
	assert.True(t, hasValueString)
	assert.True(t, hasYesNo)
	assert.True(t, hasExcluded)

	// element_ref values resolve against the sample entity table
	for _, p := range doc.Parameters {
		if p.StorageType != famparam.StorageElementRef || p.Value == nil {
			continue
		}
		_, ok := doc.ResolveEntity(p.Value.(int64))
		assert.True(t, ok, "unresolvable entity ref in parameter %s", p.Name)
	}

	roundTrip := bytes.NewBuffer(nil)
	require.NoError(t, doc.Encode(roundTrip))
	_, err := Decode(roundTrip)
	require.NoError(t, err)
}
