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

package famparam

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReportHeader - fixed CSV header of every report.
var ReportHeader = []string{"Group", "Name", "Value", "DescriptionField", "ImageField", "IsInstance"}

const (
	csvTrueValue  = "True"
	csvFalseValue = "False"
)

// WriteReport serializes the ordered records as UTF-8 RFC-4180 CSV: the fixed
// header row, then one row per record with the raw group code in the first
// field. Returns the number of data rows written.
func WriteReport(w io.Writer, records []*ParameterRecord) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return 0, fmt.Errorf("unable to write report header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Group,
			r.Name,
			r.Value,
			r.DescriptionField,
			r.ImageField,
			formatBool(r.IsInstance),
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("unable to write report row for %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("unable to flush report: %w", err)
	}
	return len(records), nil
}

// TranslateReport is the second pass over an already written report: it
// re-reads the CSV, skips the header and replaces the group code in the first
// field with the mapped label when the mapping knows the code. Rows with
// unmapped codes pass through unchanged. Returns the number of translated
// rows.
//
// Both passes go through a real CSV codec, so quoted fields survive
// translation intact.
func TranslateReport(r io.Reader, w io.Writer, mapping *GroupMapping) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cw := csv.NewWriter(w)

	var translated int
	for line := 0; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("unable to read report line %d: %w", line+1, err)
		}
		if line > 0 && len(row) > 0 {
			if label, ok := mapping.Label(row[0]); ok {
				row[0] = label
				translated++
			}
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("unable to write report line %d: %w", line+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("unable to flush translated report: %w", err)
	}
	return translated, nil
}

func formatBool(v bool) string {
	if v {
		return csvTrueValue
	}
	return csvFalseValue
}
