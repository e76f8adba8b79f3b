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

package source

import (
	"context"

	"github.com/famexio/famex/internal/famdoc"
)

// DocumentSource is the capability interface the exporter consumes family
// documents through. Implementations are read-only against the host data.
type DocumentSource interface {
	// LoadDocument - load the document identified by ref. For the file
	// source ref is ignored (the path comes from config), for the catalog
	// source ref is the document name
	LoadDocument(ctx context.Context, ref string) (*famdoc.Document, error)
	// Close - release the underlying resources (connections, handles)
	Close(ctx context.Context) error
}
