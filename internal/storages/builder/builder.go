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
	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/storages/directory"
	"github.com/famexio/famex/internal/storages/s3"
)

// GetStorage builds the report store from config. STORAGE_TYPE env overrides
// the configured type.
func GetStorage(ctx context.Context, stCfg *domains.StorageConfig, logCfg *domains.LogConfig) (
	storages.Storager, error,
) {
	storageType := stCfg.Type
	if envCfg := os.Getenv("STORAGE_TYPE"); envCfg != "" {
		storageType = envCfg
	}
	switch storageType {
	case "directory":
		return directory.NewStorage(stCfg.Directory)
	case "s3":
		return s3.NewStorage(ctx, stCfg.S3, logCfg.Level)
	}
	return nil, fmt.Errorf("unknown storage type %q", storageType)
}
