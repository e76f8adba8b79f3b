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

package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/source"
	"github.com/famexio/famex/internal/source/catalog"
	"github.com/famexio/famex/internal/source/file"
)

// GetSource builds the document source from config. SOURCE_TYPE env
// overrides the configured type.
func GetSource(ctx context.Context, srcCfg *domains.SourceConfig) (source.DocumentSource, error) {
	sourceType := srcCfg.Type
	if envCfg := os.Getenv("SOURCE_TYPE"); envCfg != "" {
		sourceType = envCfg
	}
	switch sourceType {
	case "file":
		return file.NewSource(srcCfg.File)
	case "postgres":
		return catalog.NewSource(ctx, srcCfg.Postgres)
	}
	return nil, fmt.Errorf("unknown source type %q", sourceType)
}
