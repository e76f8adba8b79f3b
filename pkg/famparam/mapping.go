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
	_ "embed"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

//go:embed group_mapping.json
var defaultGroupMappingData []byte

// GroupMapping translates raw group codes to display labels. The key order of
// the source JSON object is semantic: the 0-based position of a code defines
// its sort rank, codes absent from the mapping share one sentinel rank after
// every mapped code. Duplicate keys keep the first occurrence.
type GroupMapping struct {
	labels map[string]string
	ranks  map[string]int
	order  []string
}

// LoadGroupMapping parses a JSON object of code -> label pairs preserving the
// document key order.
func LoadGroupMapping(data []byte) (*GroupMapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("group mapping is not valid json")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("group mapping must be a json object")
	}

	m := &GroupMapping{
		labels: make(map[string]string),
		ranks:  make(map[string]int),
	}
	var parseErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			parseErr = fmt.Errorf("group mapping value for %q must be a string", key.String())
			return false
		}
		code := key.String()
		if _, ok := m.labels[code]; ok {
			// first-seen key wins
			return true
		}
		m.labels[code] = value.String()
		m.ranks[code] = len(m.order)
		m.order = append(m.order, code)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return m, nil
}

// DefaultGroupMapping returns the bundled mapping.
func DefaultGroupMapping() *GroupMapping {
	m, err := LoadGroupMapping(defaultGroupMappingData)
	if err != nil {
		// the embedded resource is validated by tests
		panic(fmt.Sprintf("bundled group mapping is broken: %s", err))
	}
	return m
}

// Label returns the display label for the code.
func (m *GroupMapping) Label(code string) (string, bool) {
	label, ok := m.labels[code]
	return label, ok
}

// Rank returns the sort rank of the code: its position in the mapping key
// order, or len(mapping) for unmapped codes so they sort last.
func (m *GroupMapping) Rank(code string) int {
	if rank, ok := m.ranks[code]; ok {
		return rank
	}
	return len(m.order)
}

// Codes returns the mapped codes in rank order.
func (m *GroupMapping) Codes() []string {
	res := make([]string, len(m.order))
	copy(res, m.order)
	return res
}

func (m *GroupMapping) Len() int {
	return len(m.order)
}

// AppendGroup adds a code -> label pair to raw mapping JSON preserving the
// existing key order. The new code ranks last. Existing codes are relabeled
// in place.
func AppendGroup(data []byte, code, label string) ([]byte, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if _, err := LoadGroupMapping(data); err != nil {
		return nil, err
	}
	res, err := sjson.SetBytesOptions(
		data, code, label, &sjson.Options{Optimistic: true},
	)
	if err != nil {
		return nil, fmt.Errorf("unable to append group mapping entry: %w", err)
	}
	return res, nil
}
