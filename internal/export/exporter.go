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
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spaolacci/murmur3"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/famdoc"
	"github.com/famexio/famex/internal/source"
	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/utils/ioutils"
	"github.com/famexio/famex/pkg/famparam"
)

// ErrNotFamilyDocument - precondition failure: the loaded document is not a
// family document. No report is produced.
var ErrNotFamilyDocument = errors.New("document is not a family document")

// Export runs the full report pipeline against one family document:
// enumerate, filter, normalize, sort, serialize CSV, translate group labels,
// store the report with its metadata. The pipeline itself is strictly
// sequential.
type Export struct {
	cfg         *domains.Config
	st          storages.Storager
	src         source.DocumentSource
	documentRef string
	mapping     *famparam.GroupMapping
}

func NewExport(cfg *domains.Config, st storages.Storager, src source.DocumentSource, documentRef string) *Export {
	return &Export{
		cfg:         cfg,
		st:          st,
		src:         src,
		documentRef: documentRef,
	}
}

// LoadMapping loads the group mapping from the configured file, falling back
// to the bundled mapping. A configured but unreadable mapping file is fatal:
// exporting unmapped and unsorted data would hide a packaging defect.
func LoadMapping(mappingFile string) (*famparam.GroupMapping, error) {
	if mappingFile == "" {
		return famparam.DefaultGroupMapping(), nil
	}
	data, err := os.ReadFile(mappingFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read group mapping file: %w", err)
	}
	mapping, err := famparam.LoadGroupMapping(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse group mapping file %s: %w", mappingFile, err)
	}
	return mapping, nil
}

func (e *Export) Run(ctx context.Context) error {
	startedAt := time.Now()

	mapping, err := LoadMapping(e.cfg.Export.MappingFile)
	if err != nil {
		return err
	}
	e.mapping = mapping

	doc, err := e.src.LoadDocument(ctx, e.documentRef)
	if err != nil {
		return fmt.Errorf("unable to load document: %w", err)
	}
	if !doc.IsFamily {
		return fmt.Errorf("%w: %s", ErrNotFamilyDocument, doc.Name)
	}

	records, err := e.collect(doc)
	if err != nil {
		return err
	}
	records = famparam.SortRecords(records, mapping)

	buf := bytes.NewBuffer(nil)
	rows, err := famparam.WriteReport(buf, records)
	if err != nil {
		return err
	}

	fileName, err := RenderFileName(e.cfg.Export.FilenameTemplate, doc.Name, startedAt)
	if err != nil {
		return err
	}
	if e.cfg.Export.Compress {
		fileName += CompressedFileExtension
	}

	// the save destination is the terminal step: a cancellation observed
	// before it aborts the run with no partial output
	if err := ctx.Err(); err != nil {
		return err
	}

	originalSize, compressedSize, err := e.putReport(ctx, fileName, buf.Bytes())
	if err != nil {
		return fmt.Errorf("unable to store report %s: %w", fileName, err)
	}

	md := &Metadata{
		ReportId:       uuid.NewString(),
		Document:       doc.Name,
		FileName:       fileName,
		Rows:           rows,
		Groups:         groupHistogram(records),
		StartedAt:      startedAt,
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Checksum:       checksum(buf.Bytes()),
		Compressed:     e.cfg.Export.Compress,
		ExcludedNames:  e.cfg.Export.ExcludedNames,
		MaskRuleCount:  len(e.cfg.Export.Masking),
	}

	if e.cfg.Export.Translate {
		translated, err := TranslateStoredReport(ctx, e.st, md, mapping)
		if err != nil {
			return fmt.Errorf("unable to translate report %s: %w", fileName, err)
		}
		md.TranslatedRows = translated
	}

	md.CompletedAt = time.Now()
	if err := WriteMetadata(ctx, e.st, md); err != nil {
		return err
	}

	log.Info().
		Str("ReportId", md.ReportId).
		Str("Document", doc.Name).
		Str("FileName", fileName).
		Int("Rows", rows).
		Int("TranslatedRows", md.TranslatedRows).
		Msg("report stored")
	return nil
}

func (e *Export) collect(doc *famdoc.Document) ([]*famparam.ParameterRecord, error) {
	normalizer := famparam.NewNormalizer(doc)
	if e.cfg.Export.DecimalPlaces > 0 {
		normalizer.SetDecimalPlaces(e.cfg.Export.DecimalPlaces)
	}
	if e.cfg.Export.BooleanLiteral != "" {
		normalizer.SetBooleanLiteral(e.cfg.Export.BooleanLiteral)
	}

	collector, warnings, err := famparam.NewCollector(
		&famparam.CollectorConfig{
			ExcludedNames:          e.cfg.Export.ExcludedNames,
			SkipWhen:               e.cfg.Export.SkipWhen,
			Masking:                e.cfg.Export.Masking,
			HashSalt:               e.cfg.Export.HashSalt,
			DescriptionPlaceholder: e.cfg.Export.DescriptionPlaceholder,
			ImagePlaceholder:       e.cfg.Export.ImagePlaceholder,
		},
		normalizer,
	)
	for _, w := range warnings {
		w.MakeHash()
		log.Warn().
			Str("Severity", w.Severity).
			Any("Meta", w.Meta).
			Str("Hash", w.Hash).
			Msg(w.Msg)
	}
	if err != nil {
		return nil, err
	}
	if warnings.IsFatal() {
		return nil, fmt.Errorf("export configuration has fatal validation warnings")
	}

	return collector.Collect(doc.Parameters)
}

// putReport stores the serialized CSV, compressing it when configured.
// Returns the original and stored (possibly compressed) sizes.
func (e *Export) putReport(ctx context.Context, fileName string, data []byte) (int64, int64, error) {
	originalSize := int64(len(data))
	if !e.cfg.Export.Compress {
		if err := e.st.PutObject(ctx, fileName, bytes.NewReader(data)); err != nil {
			return 0, 0, err
		}
		return originalSize, originalSize, nil
	}

	compressed := bytes.NewBuffer(nil)
	gz := ioutils.NewGzipWriter(nopWriteCloser{compressed}, true)
	if _, err := gz.Write(data); err != nil {
		return 0, 0, fmt.Errorf("unable to compress report: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, 0, fmt.Errorf("unable to finish report compression: %w", err)
	}
	compressedSize := int64(compressed.Len())
	if err := e.st.PutObject(ctx, fileName, compressed); err != nil {
		return 0, 0, err
	}
	return originalSize, compressedSize, nil
}

func groupHistogram(records []*famparam.ParameterRecord) map[string]int {
	res := make(map[string]int)
	for _, r := range records {
		res[r.Group]++
	}
	return res
}

func checksum(data []byte) string {
	sum := murmur3.Sum64(data)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (8 * (7 - i)))
	}
	return hex.EncodeToString(buf)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
