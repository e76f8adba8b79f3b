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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/famexio/famex/internal/storages"
)

const MetadataJsonFileName = "metadata.json"

// Metadata describes one report run. It is written next to the report file
// as metadata.json and is the source of truth for the report management
// commands. A run directory without a parsable metadata.json counts as
// unknown-or-failed.
type Metadata struct {
	ReportId       string         `yaml:"reportId" json:"reportId"`
	Document       string         `yaml:"document" json:"document"`
	FileName       string         `yaml:"fileName" json:"fileName"`
	Rows           int            `yaml:"rows" json:"rows"`
	TranslatedRows int            `yaml:"translatedRows" json:"translatedRows"`
	Groups         map[string]int `yaml:"groups" json:"groups,omitempty"`
	StartedAt      time.Time      `yaml:"startedAt" json:"startedAt"`
	CompletedAt    time.Time      `yaml:"completedAt" json:"completedAt"`
	OriginalSize   int64          `yaml:"originalSize" json:"originalSize"`
	CompressedSize int64          `yaml:"compressedSize" json:"compressedSize"`
	Checksum       string         `yaml:"checksum" json:"checksum"`
	Compressed     bool           `yaml:"compressed" json:"compressed"`
	ExcludedNames  []string       `yaml:"excludedNames" json:"excludedNames,omitempty"`
	MaskRuleCount  int            `yaml:"maskRuleCount" json:"maskRuleCount,omitempty"`
}

// WriteMetadata stores the metadata object into the report run directory.
func WriteMetadata(ctx context.Context, st storages.Storager, md *Metadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal report metadata: %w", err)
	}
	if err := st.PutObject(ctx, MetadataJsonFileName, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unable to store report metadata: %w", err)
	}
	return nil
}

// GetMetadata reads metadata.json from the report run directory.
func GetMetadata(ctx context.Context, st storages.Storager) (*Metadata, error) {
	mf, err := st.GetObject(ctx, MetadataJsonFileName)
	if err != nil {
		return nil, fmt.Errorf("get metadata from storage: %w", err)
	}
	defer func() {
		if err := mf.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close metadata file")
		}
	}()

	metadata := &Metadata{}
	if err = json.NewDecoder(mf).Decode(metadata); err != nil {
		return nil, fmt.Errorf("unable to read metadata: %w", err)
	}
	return metadata, nil
}
