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
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	// DefaultBooleanLiteral - fixed literal rendered for every yes_no integer
	// parameter regardless of the stored 0/1
	DefaultBooleanLiteral = "Да/Нет"

	DefaultDecimalPlaces = 2
)

// Normalizer converts a raw typed parameter value into its canonical display
// string. It never fails: resolution errors
// are absorbed into an "Error: ..." value so a single bad parameter cannot
// abort the batch.
type Normalizer struct {
	resolver       EntityResolver
	decimalPlaces  int32
	booleanLiteral string
}

func NewNormalizer(resolver EntityResolver) *Normalizer {
	return &Normalizer{
		resolver:       resolver,
		decimalPlaces:  DefaultDecimalPlaces,
		booleanLiteral: DefaultBooleanLiteral,
	}
}

// SetDecimalPlaces - override the rounding precision for double values.
func (n *Normalizer) SetDecimalPlaces(places int32) *Normalizer {
	n.decimalPlaces = places
	return n
}

// SetBooleanLiteral - override the fixed yes_no literal for localization.
func (n *Normalizer) SetBooleanLiteral(literal string) *Normalizer {
	n.booleanLiteral = literal
	return n
}

// Normalize returns the canonical display string for the parameter value.
//
// Resolution order: a host-preformatted value string wins verbatim, then the
// storage type decides the rendering. Absent numeric/integer/string values
// yield "None", unrecognized storage types yield "Unknown".
func (n *Normalizer) Normalize(p *Parameter) (res string) {
	defer func() {
		if r := recover(); r != nil {
			res = fmt.Sprintf("Error: %v", r)
		}
	}()

	if p.ValueString != "" {
		return p.ValueString
	}

	switch p.StorageType {
	case StorageDouble:
		return n.normalizeDouble(p.Value)
	case StorageInteger:
		return n.normalizeInteger(p)
	case StorageString:
		return n.normalizeString(p.Value)
	case StorageElementRef:
		return n.normalizeElementRef(p.Value)
	default:
		return UnknownValue
	}
}

func (n *Normalizer) normalizeDouble(value any) string {
	if value == nil {
		return NoneValue
	}
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return NoneValue
		}
		d = *v
	default:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return fmt.Sprintf("Error: %s", err)
		}
		d = decimal.NewFromFloat(f)
	}
	return d.Round(n.decimalPlaces).String()
}

func (n *Normalizer) normalizeInteger(p *Parameter) string {
	// yes_no integers render as the fixed literal independent of the stored
	// 0/1. Pinned behavior of the original exporter
	if p.DataType == DataTypeYesNo {
		return n.booleanLiteral
	}
	if p.Value == nil {
		return NoneValue
	}
	i, err := cast.ToInt64E(p.Value)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	return strconv.FormatInt(i, 10)
}

func (n *Normalizer) normalizeString(value any) string {
	if value == nil {
		return NoneValue
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	return s
}

func (n *Normalizer) normalizeElementRef(value any) string {
	if value == nil {
		return NoneValue
	}
	id, err := cast.ToInt64E(value)
	if err != nil {
		return fmt.Sprintf("Error: %s", err)
	}
	if id <= 0 {
		return NoneValue
	}
	if n.resolver == nil {
		return NoneValue
	}
	entity, ok := n.resolver.ResolveEntity(id)
	if !ok {
		return NoneValue
	}
	if entity.HasDeclaredName() {
		return entity.Name
	}
	if entity.Name == "" {
		return UnknownValue
	}
	return entity.Name
}
