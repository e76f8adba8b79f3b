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
	"github.com/go-faker/faker/v4"

	"github.com/famexio/famex/pkg/famparam"
)

// Sample generates a demo family document with faker-populated values. Used
// by the sample command and as a test fixture source.
func Sample(name string) *Document {
	if name == "" {
		name = "SampleFamily"
	}

	manufacturer := faker.Name()
	materialName := faker.Word()
	imageName := faker.Word()
	keynote := faker.Word()
	url := faker.URL()

	entities := []*famparam.Entity{
		{ID: 101, Name: materialName, Kind: famparam.EntityKindMaterial},
		{ID: 102, Name: imageName, Kind: famparam.EntityKindImage},
		{ID: 103, Name: "", Kind: "symbol"},
	}

	params := []*famparam.Parameter{
		{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 120.457, IsInstance: false},
		{Name: "Height", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 2100.0, IsInstance: false},
		{Name: "Depth", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Formula: "Width / 2", IsInstance: false},
		{Name: "Площадь", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, ValueString: "2.53 м²", IsInstance: true},
		{Name: "Материал", Group: "PG_MATERIALS", StorageType: famparam.StorageElementRef, Value: int64(101), IsInstance: false},
		{Name: "Картинка", Group: "PG_GRAPHICS", StorageType: famparam.StorageElementRef, Value: int64(102), IsInstance: false},
		{Name: "Видимость", Group: "PG_VISIBILITY", StorageType: famparam.StorageInteger, DataType: famparam.DataTypeYesNo, Value: int64(1), IsInstance: true},
		{Name: "Количество", Group: "PG_DATA", StorageType: famparam.StorageInteger, Value: int64(4), IsInstance: true},
		{Name: "Ключевая пометка", Group: "PG_IDENTITY_DATA", StorageType: famparam.StorageString, Value: keynote, IsInstance: false},
		{Name: "Изготовитель", Group: "PG_IDENTITY_DATA", StorageType: famparam.StorageString, Value: manufacturer, IsInstance: false},
		{Name: "URL", Group: "PG_IDENTITY_DATA", StorageType: famparam.StorageString, Value: url, IsInstance: false},
		{Name: "Примечание", Group: "PG_UNSORTED", StorageType: famparam.StorageString, IsInstance: true},
	}

	return New(name, true, params, entities)
}
