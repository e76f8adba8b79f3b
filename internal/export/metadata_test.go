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
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/famexio/famex/internal/storages/memory"
	"github.com/famexio/famex/internal/utils/testutils"
)

func TestWriteAndGetMetadata(t *testing.T) {
	ctx := context.Background()
	st := memory.New("run")

	md := &Metadata{
		ReportId:       "r1",
		Document:       "Дверь",
		FileName:       "Дверь_FamilyParameters_2025-08-25_14-30-05.csv",
		Rows:           5,
		TranslatedRows: 4,
		Groups:         map[string]int{"PG_GEOMETRY": 3, "PG_TEXT": 2},
		StartedAt:      time.Date(2025, 8, 25, 14, 30, 5, 0, time.UTC),
		CompletedAt:    time.Date(2025, 8, 25, 14, 30, 6, 0, time.UTC),
		OriginalSize:   420,
		CompressedSize: 420,
		Checksum:       "00000000deadbeef",
	}
	require.NoError(t, WriteMetadata(ctx, st, md))

	loaded, err := GetMetadata(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, md, loaded)
}

func TestWriteMetadata_storageError(t *testing.T) {
	ctx := context.Background()

	st := &testutils.StorageMock{}
	st.On("PutObject", mock.Anything, MetadataJsonFileName, mock.Anything).
		Return(errors.New("no space left"))

	err := WriteMetadata(ctx, st, &Metadata{ReportId: "r1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to store report metadata")
	st.AssertExpectations(t)
}

func TestGetMetadata_storageError(t *testing.T) {
	ctx := context.Background()

	st := &testutils.StorageMock{}
	st.On("GetObject", mock.Anything, MetadataJsonFileName).
		Return(io.NopCloser(nil), errors.New("access denied"))

	_, err := GetMetadata(ctx, st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get metadata from storage")
	st.AssertExpectations(t)
}
