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

package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFileName(t *testing.T) {
	ts := time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC)

	name, err := RenderFileName("", "Дверь", ts)
	require.NoError(t, err)
	assert.Equal(t, "Дверь_FamilyParameters_2025-08-25_14-30-05.csv", name)
}

func TestRenderFileName_customTemplate(t *testing.T) {
	ts := time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC)

	// sprig functions are available for document name sanitizing
	name, err := RenderFileName(
		`{{ .Document | replace " " "_" | lower }}-{{ .Timestamp }}.csv`,
		"Outer Door", ts,
	)
	require.NoError(t, err)
	assert.Equal(t, "outer_door-2025-08-25_14-30-05.csv", name)
}

func TestRenderFileName_errors(t *testing.T) {
	ts := time.Now()

	_, err := RenderFileName("{{ .Document", "Дверь", ts)
	assert.Error(t, err)

	_, err = RenderFileName(`{{ "" }}`, "Дверь", ts)
	assert.Error(t, err)
}
