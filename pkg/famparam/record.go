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

// Sentinel values the normalizer emits instead of a real display string.
const (
	NoneValue    = "None"
	UnknownValue = "Unknown"
)

// Default placeholder literals for the manual post-editing columns.
const (
	DefaultDescriptionPlaceholder = "Добавить описание"
	DefaultImagePlaceholder       = "Добавить картинку"
)

// ParameterRecord is one exported report row. Name and Value are always
// non-empty strings: the normalizer substitutes the None/Unknown/Error
// sentinels when the underlying value is absent or unresolvable.
type ParameterRecord struct {
	Name             string
	Value            string
	DescriptionField string
	ImageField       string
	Group            string
	IsInstance       bool
}
