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

package catalog

const documentQuery = `
SELECT id, name, is_family, category
FROM documents
WHERE name = $1
`

const parametersQuery = `
SELECT name,
       group_code,
       storage_type,
       data_type,
       formula,
       is_instance,
       value_double,
       value_int,
       value_string,
       value_ref,
       value_display
FROM parameters
WHERE document_id = $1
ORDER BY id
`

const entitiesQuery = `
SELECT entity_id, name, kind
FROM entities
WHERE document_id = $1
ORDER BY entity_id
`
