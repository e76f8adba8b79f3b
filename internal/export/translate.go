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
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/utils/ioutils"
	"github.com/famexio/famex/pkg/famparam"
)

// TranslateStoredReport runs the translate pass against a stored report: the
// file is re-read from the store, group codes in the first field are replaced
// with mapped labels and the file is rewritten in place. Compressed reports
// are decompressed and recompressed transparently. Returns the number of
// translated rows.
func TranslateStoredReport(
	ctx context.Context, st storages.Storager, md *Metadata, mapping *famparam.GroupMapping,
) (int, error) {
	obj, err := st.GetObject(ctx, md.FileName)
	if err != nil {
		return 0, fmt.Errorf("unable to read report %s: %w", md.FileName, err)
	}
	stored := ioutils.NewReader(obj)

	var reader io.ReadCloser = stored
	if md.Compressed {
		reader, err = ioutils.NewGzipReader(stored, true)
		if err != nil {
			return 0, err
		}
	}

	translatedBuf := bytes.NewBuffer(nil)
	translated, err := famparam.TranslateReport(reader, translatedBuf, mapping)
	if closeErr := reader.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("error closing report file")
	}
	if err != nil {
		return 0, err
	}
	log.Debug().
		Str("FileName", md.FileName).
		Int64("StoredBytesRead", stored.GetCount()).
		Int("TranslatedRows", translated).
		Msg("report translate pass finished")

	data := translatedBuf.Bytes()
	md.OriginalSize = int64(len(data))
	md.Checksum = checksum(data)

	body := translatedBuf
	if md.Compressed {
		compressed := bytes.NewBuffer(nil)
		gz := ioutils.NewGzipWriter(nopWriteCloser{compressed}, true)
		if _, err := gz.Write(data); err != nil {
			return 0, fmt.Errorf("unable to compress translated report: %w", err)
		}
		if err := gz.Close(); err != nil {
			return 0, fmt.Errorf("unable to finish translated report compression: %w", err)
		}
		body = compressed
	}
	md.CompressedSize = int64(body.Len())

	if err := st.PutObject(ctx, md.FileName, body); err != nil {
		return 0, fmt.Errorf("unable to rewrite report %s: %w", md.FileName, err)
	}
	return translated, nil
}
