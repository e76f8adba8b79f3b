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
	"cmp"
	"slices"
)

// SortRecords orders records by (rank(group), name): the mapping key order
// defines the group rank, unmapped groups share one rank after every mapped
// group, ties break on case-sensitive lexicographic name. The input slice is
// not mutated, a new ordered slice is returned. The sort is stable.
func SortRecords(records []*ParameterRecord, mapping *GroupMapping) []*ParameterRecord {
	res := make([]*ParameterRecord, len(records))
	copy(res, records)
	slices.SortStableFunc(res, func(a, b *ParameterRecord) int {
		if c := cmp.Compare(mapping.Rank(a.Group), mapping.Rank(b.Group)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return res
}
