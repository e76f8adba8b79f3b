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
	"encoding/hex"
	"strings"

	"github.com/dchest/siphash"
	"github.com/ggwhite/go-masker"
	"golang.org/x/crypto/sha3"
)

// Masking kinds. All but MHash map to go-masker functions, MHash replaces the
// value with a salted siphash-64 hex digest.
const (
	MPassword   string = "password"
	MName       string = "name"
	MAddress    string = "addr"
	MEmail      string = "email"
	MMobile     string = "mobile"
	MTelephone  string = "tel"
	MID         string = "id"
	MCreditCard string = "credit_card"
	MURL        string = "url"
	MHash       string = "hash"
	MDefault    string = "default"
)

// MaskRule binds a masking kind to a parameter name. Values of matched
// parameters are masked after normalization, just before serialization.
type MaskRule struct {
	// Name - exact parameter name the rule applies to
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	// Kind - masking kind (default, password, name, addr, email, mobile,
	// tel, id, credit_card, url, hash)
	Kind string `mapstructure:"kind" yaml:"kind" json:"kind"`
}

type maskingFunction func(val string) string

// ValueMasker applies configured masking rules to normalized display values.
type ValueMasker struct {
	rules map[string]maskingFunction
}

func NewValueMasker(rules []*MaskRule, hashSalt []byte) (*ValueMasker, ValidationWarnings, error) {
	var m = &masker.Masker{}
	var warnings ValidationWarnings

	funcs := make(map[string]maskingFunction, len(rules))
	for _, rule := range rules {
		var mf maskingFunction
		switch rule.Kind {
		case MPassword:
			mf = m.Password
		case MName:
			mf = m.Name
		case MAddress:
			mf = m.Address
		case MEmail:
			mf = m.Email
		case MMobile:
			mf = m.Mobile
		case MID:
			mf = m.ID
		case MTelephone:
			mf = m.Telephone
		case MCreditCard:
			mf = m.CreditCard
		case MURL:
			mf = m.URL
		case MHash:
			mf = newHashMasker(hashSalt)
		case MDefault, "":
			mf = defaultMasker
		default:
			warnings = append(warnings,
				NewValidationWarning().
					SetSeverity(ErrorValidationSeverity).
					AddMeta("ParameterName", rule.Name).
					AddMeta("Kind", rule.Kind).
					SetMsg("unknown masking kind"),
			)
			continue
		}
		funcs[rule.Name] = mf
	}
	if warnings.IsFatal() {
		return nil, warnings, nil
	}

	return &ValueMasker{rules: funcs}, warnings, nil
}

// Mask returns the masked value for the parameter, or the value unchanged
// when no rule matches its name. Sentinel values pass through unmasked.
func (vm *ValueMasker) Mask(name, value string) string {
	mf, ok := vm.rules[name]
	if !ok {
		return value
	}
	if value == NoneValue || value == UnknownValue || strings.HasPrefix(value, "Error: ") {
		return value
	}
	return mf(value)
}

func defaultMasker(val string) string {
	return strings.Repeat("*", len([]rune(val)))
}

// newHashMasker builds a deterministic hash masker: the salt is stretched
// through sha3-224 into a 16-byte siphash key, the masked value is the hex
// encoded 64-bit digest.
func newHashMasker(salt []byte) maskingFunction {
	key := sha3.New224().Sum(salt)[:16]
	return func(val string) string {
		h := siphash.New(key)
		// siphash never fails on write
		_, _ = h.Write([]byte(val))
		return hex.EncodeToString(h.Sum(nil))
	}
}
