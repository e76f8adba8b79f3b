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

// Storage types of a family parameter value. Anything else is treated as
// unrecognized and normalizes to the "Unknown" sentinel.
const (
	StorageDouble     = "double"
	StorageInteger    = "integer"
	StorageString     = "string"
	StorageElementRef = "element_ref"
)

// DataTypeYesNo marks an integer parameter as boolean-like (yes/no semantic
// type). Such parameters render as a fixed localized literal.
const DataTypeYesNo = "yes_no"

// Entity kinds that expose a declared (user-assigned) name.
const (
	EntityKindMaterial = "material"
	EntityKindImage    = "image"
)

// Parameter is a family parameter definition together with its current raw
// value as delivered by the document source.
type Parameter struct {
	// Name - parameter display name. Exact-match key for the exclusion list
	Name string `mapstructure:"name" json:"name" yaml:"name"`
	// Group - raw group identifier the host clusters the parameter under (e.g. PG_GEOMETRY)
	Group string `mapstructure:"group" json:"group" yaml:"group"`
	// StorageType - underlying primitive kind of the value (double, integer, string, element_ref)
	StorageType string `mapstructure:"storage_type" json:"storageType" yaml:"storage_type"`
	// DataType - semantic type of the value. yes_no marks boolean-like integers
	DataType string `mapstructure:"data_type" json:"dataType,omitempty" yaml:"data_type,omitempty"`
	// Formula - formula expression for computed parameters. Non-empty means the
	// parameter has no independent value and is skipped by the collector
	Formula string `mapstructure:"formula" json:"formula,omitempty" yaml:"formula,omitempty"`
	// IsInstance - true for instance-bound parameters, false for type-bound
	IsInstance bool `mapstructure:"is_instance" json:"isInstance" yaml:"is_instance"`
	// Value - raw typed value. nil means the parameter has no value assigned
	Value any `mapstructure:"value" json:"value,omitempty" yaml:"value,omitempty"`
	// ValueString - host-preformatted display string respecting the document
	// units and settings. Used verbatim when non-empty
	ValueString string `mapstructure:"value_string" json:"valueString,omitempty" yaml:"value_string,omitempty"`
}

// HasFormula reports whether the parameter value is formula-derived.
func (p *Parameter) HasFormula() bool {
	return p.Formula != ""
}

// Entity is a document element referenced by an element_ref parameter.
type Entity struct {
	ID   int64  `mapstructure:"id" json:"id" yaml:"id"`
	Name string `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Kind string `mapstructure:"kind" json:"kind,omitempty" yaml:"kind,omitempty"`
}

// HasDeclaredName reports whether the entity kind carries a user-assigned
// resource name (materials and image assets).
func (e *Entity) HasDeclaredName() bool {
	return e.Kind == EntityKindMaterial || e.Kind == EntityKindImage
}

// EntityResolver resolves element ids referenced by parameter values to
// document entities. Implemented by the document layer.
type EntityResolver interface {
	// ResolveEntity - returns the entity with the given id, or ok=false when
	// the id does not exist in the document
	ResolveEntity(id int64) (entity *Entity, ok bool)
}
