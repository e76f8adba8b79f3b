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
	"fmt"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

const (
	// DefaultFilenameTemplate - canonical report file name pattern
	DefaultFilenameTemplate = "{{ .Document }}_FamilyParameters_{{ .Timestamp }}.csv"
	// TimestampLayout - yyyy-MM-dd_HH-mm-ss
	TimestampLayout = "2006-01-02_15-04-05"

	CompressedFileExtension = ".gz"
)

type filenameContext struct {
	Document  string
	Timestamp string
}

// RenderFileName renders the report file name from the template. Sprig
// functions are available so templates can sanitize document names.
func RenderFileName(tmpl, document string, ts time.Time) (string, error) {
	if tmpl == "" {
		tmpl = DefaultFilenameTemplate
	}
	t, err := template.New("report_filename").Funcs(sprig.FuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("unable to parse filename template: %w", err)
	}
	buf := bytes.NewBuffer(nil)
	err = t.Execute(buf, &filenameContext{
		Document:  document,
		Timestamp: ts.Format(TimestampLayout),
	})
	if err != nil {
		return "", fmt.Errorf("unable to render filename template: %w", err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("filename template rendered an empty name")
	}
	return buf.String(), nil
}
