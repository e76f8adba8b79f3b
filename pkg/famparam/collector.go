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

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultExcludedNames - parameter names hard-excluded from every report
// regardless of group or type. Exact, case- and accent-sensitive match.
var DefaultExcludedNames = []string{
	"URL",
	"Изготовитель",
	"Стоимость",
	"Комментарии к типоразмеру",
	"Описание",
}

// Collector filters the document parameter sequence and produces report
// records: formula-derived parameters, denylisted names and parameters
// matched by the optional skip_when condition are dropped, everything else is
// normalized into a ParameterRecord. The collector itself is a pure filter,
// the only reads go through the normalizer's entity resolver.
type Collector struct {
	excluded   map[string]struct{}
	skipWhen   *vm.Program
	normalizer *Normalizer
	masker     *ValueMasker

	descriptionPlaceholder string
	imagePlaceholder       string
}

type CollectorConfig struct {
	// ExcludedNames - denylist override. nil keeps DefaultExcludedNames,
	// an empty non-nil slice disables the denylist
	ExcludedNames []string
	// SkipWhen - optional expr condition over the parameter fields (name,
	// group, storage_type, data_type, is_instance, has_formula). Parameters
	// it evaluates to true for are skipped
	SkipWhen string
	// Masking - optional per-parameter value masking rules
	Masking []*MaskRule
	// HashSalt - salt for the hash masking kind
	HashSalt string

	DescriptionPlaceholder string
	ImagePlaceholder       string
}

func NewCollector(cfg *CollectorConfig, normalizer *Normalizer) (*Collector, ValidationWarnings, error) {
	if cfg == nil {
		cfg = &CollectorConfig{}
	}

	names := cfg.ExcludedNames
	if names == nil {
		names = DefaultExcludedNames
	}
	excluded := make(map[string]struct{}, len(names))
	for _, name := range names {
		excluded[name] = struct{}{}
	}

	var warnings ValidationWarnings
	var skipWhen *vm.Program
	if cfg.SkipWhen != "" {
		var err error
		skipWhen, err = expr.Compile(cfg.SkipWhen, expr.Env(skipWhenEnv(&Parameter{})), expr.AsBool())
		if err != nil {
			warnings = append(warnings,
				NewValidationWarning().
					SetSeverity(ErrorValidationSeverity).
					AddMeta("SkipWhen", cfg.SkipWhen).
					AddMeta("Error", err.Error()).
					SetMsg("unable to compile skip_when condition"),
			)
			return nil, warnings, nil
		}
	}

	var masker *ValueMasker
	if len(cfg.Masking) > 0 {
		var maskWarns ValidationWarnings
		var err error
		masker, maskWarns, err = NewValueMasker(cfg.Masking, []byte(cfg.HashSalt))
		warnings = append(warnings, maskWarns...)
		if err != nil {
			return nil, warnings, fmt.Errorf("unable to set up value masking: %w", err)
		}
		if warnings.IsFatal() {
			return nil, warnings, nil
		}
	}

	descriptionPlaceholder := cfg.DescriptionPlaceholder
	if descriptionPlaceholder == "" {
		descriptionPlaceholder = DefaultDescriptionPlaceholder
	}
	imagePlaceholder := cfg.ImagePlaceholder
	if imagePlaceholder == "" {
		imagePlaceholder = DefaultImagePlaceholder
	}

	return &Collector{
		excluded:               excluded,
		skipWhen:               skipWhen,
		normalizer:             normalizer,
		masker:                 masker,
		descriptionPlaceholder: descriptionPlaceholder,
		imagePlaceholder:       imagePlaceholder,
	}, warnings, nil
}

// IsExcluded reports whether the parameter name is on the denylist.
func (c *Collector) IsExcluded(name string) bool {
	_, ok := c.excluded[name]
	return ok
}

// Collect filters the parameter sequence and returns the unordered record
// list. Output length is always <= input length.
func (c *Collector) Collect(params []*Parameter) ([]*ParameterRecord, error) {
	res := make([]*ParameterRecord, 0, len(params))
	for _, p := range params {
		if p.HasFormula() {
			continue
		}
		if c.IsExcluded(p.Name) {
			continue
		}
		if c.skipWhen != nil {
			skip, err := expr.Run(c.skipWhen, skipWhenEnv(p))
			if err != nil {
				return nil, fmt.Errorf("unable to evaluate skip_when condition for %q: %w", p.Name, err)
			}
			if skip.(bool) {
				continue
			}
		}

		value := c.normalizer.Normalize(p)
		if c.masker != nil {
			value = c.masker.Mask(p.Name, value)
		}

		res = append(res, &ParameterRecord{
			Name:             p.Name,
			Value:            value,
			DescriptionField: c.descriptionPlaceholder,
			ImageField:       c.imagePlaceholder,
			Group:            p.Group,
			IsInstance:       p.IsInstance,
		})
	}
	return res, nil
}

func skipWhenEnv(p *Parameter) map[string]any {
	return map[string]any{
		"name":         p.Name,
		"group":        p.Group,
		"storage_type": p.StorageType,
		"data_type":    p.DataType,
		"is_instance":  p.IsInstance,
		"has_formula":  p.HasFormula(),
	}
}
