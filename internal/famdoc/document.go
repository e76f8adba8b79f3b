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
	"encoding/json"
	"fmt"
	"io"

	"github.com/famexio/famex/pkg/famparam"
)

// Document is a family document snapshot as delivered by a document source:
// the parameter definitions with their current values plus the entities
// referenced by element_ref parameters. It implements famparam.EntityResolver
// over its own entity table.
type Document struct {
	Name       string                `json:"name" yaml:"name"`
	IsFamily   bool                  `json:"isFamily" yaml:"is_family"`
	Category   string                `json:"category,omitempty" yaml:"category,omitempty"`
	Parameters []*famparam.Parameter `json:"parameters" yaml:"parameters"`
	Entities   []*famparam.Entity    `json:"entities,omitempty" yaml:"entities,omitempty"`

	entityByID map[int64]*famparam.Entity
}

// New builds a document and indexes its entity table.
func New(name string, isFamily bool, params []*famparam.Parameter, entities []*famparam.Entity) *Document {
	d := &Document{
		Name:       name,
		IsFamily:   isFamily,
		Parameters: params,
		Entities:   entities,
	}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.entityByID = make(map[int64]*famparam.Entity, len(d.Entities))
	for _, e := range d.Entities {
		d.entityByID[e.ID] = e
	}
}

// ResolveEntity implements famparam.EntityResolver.
func (d *Document) ResolveEntity(id int64) (*famparam.Entity, bool) {
	e, ok := d.entityByID[id]
	return e, ok
}

// Decode reads a JSON exchange document. Decode errors are fatal for the run,
// there is no partial-document recovery.
func Decode(r io.Reader) (*Document, error) {
	d := &Document{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("unable to decode family document: %w", err)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("family document has no name")
	}
	d.reindex()
	return d, nil
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("unable to encode family document: %w", err)
	}
	return nil
}
