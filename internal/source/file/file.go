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

package file

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/famexio/famex/internal/famdoc"
)

type Config struct {
	// Path - JSON exchange document exported host-side
	Path string `mapstructure:"path" yaml:"path" json:"path,omitempty"`
}

func NewConfig() *Config {
	return &Config{}
}

// Source reads a family document from a JSON exchange file on disk.
type Source struct {
	cfg *Config
}

func NewSource(cfg *Config) (*Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("source.file.path cannot be empty")
	}
	return &Source{cfg: cfg}, nil
}

func (s *Source) LoadDocument(ctx context.Context, ref string) (*famdoc.Document, error) {
	if ref != "" && ref != s.cfg.Path {
		log.Debug().
			Str("Ref", ref).
			Str("Path", s.cfg.Path).
			Msg("file source ignores document ref")
	}
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open document file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing document file")
		}
	}()

	doc, err := famdoc.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode document file %s: %w", s.cfg.Path, err)
	}
	return doc, nil
}

func (s *Source) Close(ctx context.Context) error {
	return nil
}
