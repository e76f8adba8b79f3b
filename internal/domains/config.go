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

package domains

import (
	"sync"

	"github.com/famexio/famex/internal/source/catalog"
	"github.com/famexio/famex/internal/source/file"
	"github.com/famexio/famex/internal/storages/directory"
	"github.com/famexio/famex/internal/storages/s3"
	"github.com/famexio/famex/pkg/famparam"
)

var (
	Cfg  *Config
	once sync.Once
)

const (
	defaultStorageType    = "directory"
	defaultSourceType     = "file"
	defaultValidateFormat = "text"
)

func NewConfig() *Config {
	once.Do(
		func() {
			Cfg = &Config{
				Storage: StorageConfig{
					Type:      defaultStorageType,
					S3:        s3.NewConfig(),
					Directory: directory.NewConfig(),
				},
				Source: SourceConfig{
					Type:     defaultSourceType,
					File:     file.NewConfig(),
					Postgres: catalog.NewConfig(),
				},
				Export: Export{
					DecimalPlaces: famparam.DefaultDecimalPlaces,
					Translate:     true,
				},
				Validate: Validate{
					Format: defaultValidateFormat,
				},
			}
		},
	)
	return Cfg
}

type Config struct {
	Log      LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Storage  StorageConfig `mapstructure:"storage" yaml:"storage" json:"storage"`
	Source   SourceConfig  `mapstructure:"source" yaml:"source" json:"source"`
	Export   Export        `mapstructure:"export" yaml:"export" json:"export"`
	Validate Validate      `mapstructure:"validate" yaml:"validate" json:"validate"`
}

type LogConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format,omitempty"`
	Level  string `mapstructure:"level" yaml:"level" json:"level,omitempty"`
}

type StorageConfig struct {
	Type      string            `mapstructure:"type" yaml:"type" json:"type,omitempty"`
	S3        *s3.Config        `mapstructure:"s3" json:"s3,omitempty" yaml:"s3"`
	Directory *directory.Config `mapstructure:"directory" json:"directory,omitempty" yaml:"directory"`
}

type SourceConfig struct {
	Type     string          `mapstructure:"type" yaml:"type" json:"type,omitempty"`
	File     *file.Config    `mapstructure:"file" yaml:"file" json:"file,omitempty"`
	Postgres *catalog.Config `mapstructure:"postgres" yaml:"postgres" json:"postgres,omitempty"`
}

type Export struct {
	// MappingFile - path to a group mapping JSON overriding the bundled one.
	// The key order of the file defines the group sort ranks
	MappingFile string `mapstructure:"mapping_file" yaml:"mapping_file" json:"mapping_file,omitempty"`
	// ExcludedNames - parameter name denylist override
	ExcludedNames []string `mapstructure:"excluded_names" yaml:"excluded_names" json:"excluded_names,omitempty"`
	// SkipWhen - expr condition, matched parameters are skipped
	SkipWhen string `mapstructure:"skip_when" yaml:"skip_when" json:"skip_when,omitempty"`
	// DescriptionPlaceholder and ImagePlaceholder - literals for the manual
	// post-editing columns
	DescriptionPlaceholder string `mapstructure:"description_placeholder" yaml:"description_placeholder" json:"description_placeholder,omitempty"`
	ImagePlaceholder       string `mapstructure:"image_placeholder" yaml:"image_placeholder" json:"image_placeholder,omitempty"`
	// BooleanLiteral - fixed literal rendered for yes_no parameters
	BooleanLiteral string `mapstructure:"boolean_literal" yaml:"boolean_literal" json:"boolean_literal,omitempty"`
	// DecimalPlaces - rounding precision for double values
	DecimalPlaces int32 `mapstructure:"decimal_places" yaml:"decimal_places" json:"decimal_places,omitempty"`
	// FilenameTemplate - report file name template. Receives .Document and
	// .Timestamp, rendered with sprig functions
	FilenameTemplate string `mapstructure:"filename_template" yaml:"filename_template" json:"filename_template,omitempty"`
	// Compress - gzip the report file
	Compress bool `mapstructure:"compress" yaml:"compress" json:"compress,omitempty"`
	// Translate - run the group label translation pass after the write pass
	Translate bool `mapstructure:"translate" yaml:"translate" json:"translate,omitempty"`
	// Masking - per-parameter value masking rules
	Masking []*famparam.MaskRule `mapstructure:"masking" yaml:"masking" json:"masking,omitempty"`
	// HashSalt - salt for the hash masking kind
	HashSalt string `mapstructure:"hash_salt" yaml:"hash_salt" json:"hash_salt,omitempty"`
}

type Validate struct {
	Format           string   `mapstructure:"format" yaml:"format" json:"format,omitempty"`
	ResolvedWarnings []string `mapstructure:"resolved_warnings" yaml:"resolved_warnings" json:"resolved_warnings,omitempty"`
}
