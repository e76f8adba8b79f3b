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
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/famdoc"
	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/storages/memory"
	"github.com/famexio/famex/internal/utils/ioutils"
	"github.com/famexio/famex/pkg/famparam"
)

type stubSource struct {
	doc *famdoc.Document
}

func (s *stubSource) LoadDocument(_ context.Context, _ string) (*famdoc.Document, error) {
	return s.doc, nil
}

func (s *stubSource) Close(_ context.Context) error {
	return nil
}

func testConfig() *domains.Config {
	return &domains.Config{
		Export: domains.Export{
			Translate: true,
		},
	}
}

func readStoredObject(t *testing.T, st storages.Storager, fileName string, compressed bool) string {
	t.Helper()
	obj, err := st.GetObject(context.Background(), fileName)
	require.NoError(t, err)
	defer obj.Close()

	var r io.Reader = obj
	if compressed {
		gz, err := ioutils.NewGzipReader(obj, true)
		require.NoError(t, err)
		defer gz.Close()
		r = gz
	}
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestExport_Run(t *testing.T) {
	doc := famdoc.New("Дверь", true,
		[]*famparam.Parameter{
			{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 12.345},
			{Name: "URL", Group: "PG_TEXT", StorageType: famparam.StorageString, Value: "https://example.com"},
		},
		nil,
	)

	st := memory.New("run")
	exp := NewExport(testConfig(), st, &stubSource{doc: doc}, "")

	require.NoError(t, exp.Run(context.Background()))

	md, err := GetMetadata(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, "Дверь", md.Document)
	assert.Equal(t, 1, md.Rows)
	assert.Equal(t, 1, md.TranslatedRows)
	assert.NotEmpty(t, md.ReportId)
	assert.NotEmpty(t, md.Checksum)
	assert.False(t, md.Compressed)
	assert.Equal(t, md.OriginalSize, md.CompressedSize)
	assert.Equal(t, map[string]int{"PG_GEOMETRY": 1}, md.Groups)
	assert.Contains(t, md.FileName, "Дверь_FamilyParameters_")

	content := readStoredObject(t, st, md.FileName, false)
	assert.Equal(t,
		"Group,Name,Value,DescriptionField,ImageField,IsInstance\n"+
			"Геометрия,Width,12.35,Добавить описание,Добавить картинку,False\n",
		content,
	)
	assert.Equal(t, int64(len(content)), md.OriginalSize)
	assert.Equal(t, checksum([]byte(content)), md.Checksum)
}

func TestExport_Run_noTranslate(t *testing.T) {
	doc := famdoc.New("Дверь", true,
		[]*famparam.Parameter{
			{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 12.345},
		},
		nil,
	)

	cfg := testConfig()
	cfg.Export.Translate = false
	st := memory.New("run")
	exp := NewExport(cfg, st, &stubSource{doc: doc}, "")

	require.NoError(t, exp.Run(context.Background()))

	md, err := GetMetadata(context.Background(), st)
	require.NoError(t, err)
	assert.Zero(t, md.TranslatedRows)

	content := readStoredObject(t, st, md.FileName, false)
	assert.Equal(t,
		"Group,Name,Value,DescriptionField,ImageField,IsInstance\n"+
			"PG_GEOMETRY,Width,12.35,Добавить описание,Добавить картинку,False\n",
		content,
	)
}

func TestExport_Run_compressed(t *testing.T) {
	doc := famdoc.New("Дверь", true,
		[]*famparam.Parameter{
			{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 12.345},
		},
		nil,
	)

	cfg := testConfig()
	cfg.Export.Compress = true
	st := memory.New("run")
	exp := NewExport(cfg, st, &stubSource{doc: doc}, "")

	require.NoError(t, exp.Run(context.Background()))

	md, err := GetMetadata(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, md.Compressed)
	assert.Contains(t, md.FileName, ".csv.gz")

	content := readStoredObject(t, st, md.FileName, true)
	assert.Equal(t,
		"Group,Name,Value,DescriptionField,ImageField,IsInstance\n"+
			"Геометрия,Width,12.35,Добавить описание,Добавить картинку,False\n",
		content,
	)
	assert.Equal(t, int64(len(content)), md.OriginalSize)
}

func TestExport_Run_sortsByRankAndName(t *testing.T) {
	doc := famdoc.New("Дверь", true,
		[]*famparam.Parameter{
			{Name: "Примечание", Group: "PG_UNSORTED", StorageType: famparam.StorageString, Value: "x"},
			{Name: "Комментарий", Group: "PG_TEXT", StorageType: famparam.StorageString, Value: "y"},
			{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 1.0},
			{Name: "Height", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 2.0},
		},
		nil,
	)

	cfg := testConfig()
	cfg.Export.Translate = false
	st := memory.New("run")
	exp := NewExport(cfg, st, &stubSource{doc: doc}, "")

	require.NoError(t, exp.Run(context.Background()))

	md, err := GetMetadata(context.Background(), st)
	require.NoError(t, err)
	content := readStoredObject(t, st, md.FileName, false)
	assert.Equal(t,
		"Group,Name,Value,DescriptionField,ImageField,IsInstance\n"+
			"PG_GEOMETRY,Height,2,Добавить описание,Добавить картинку,False\n"+
			"PG_GEOMETRY,Width,1,Добавить описание,Добавить картинку,False\n"+
			"PG_TEXT,Комментарий,y,Добавить описание,Добавить картинку,False\n"+
			"PG_UNSORTED,Примечание,x,Добавить описание,Добавить картинку,False\n",
		content,
	)
}

func TestExport_Run_notFamily(t *testing.T) {
	doc := famdoc.New("Проект", false, nil, nil)

	st := memory.New("run")
	exp := NewExport(testConfig(), st, &stubSource{doc: doc}, "")

	err := exp.Run(context.Background())
	require.ErrorIs(t, err, ErrNotFamilyDocument)

	exists, err := st.Exists(context.Background(), MetadataJsonFileName)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExport_Run_cancelledBeforeWrite(t *testing.T) {
	doc := famdoc.New("Дверь", true,
		[]*famparam.Parameter{
			{Name: "Width", Group: "PG_GEOMETRY", StorageType: famparam.StorageDouble, Value: 1.0},
		},
		nil,
	)

	st := memory.New("run")
	exp := NewExport(testConfig(), st, &stubSource{doc: doc}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exp.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// no partial output
	files, _, err := st.ListDir(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestExport_Run_fatalSkipWhen(t *testing.T) {
	doc := famdoc.New("Дверь", true, nil, nil)

	cfg := testConfig()
	cfg.Export.SkipWhen = `group ==`
	st := memory.New("run")
	exp := NewExport(cfg, st, &stubSource{doc: doc}, "")

	err := exp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal validation warnings")
}

func TestExport_Run_missingMappingFile(t *testing.T) {
	doc := famdoc.New("Дверь", true, nil, nil)

	cfg := testConfig()
	cfg.Export.MappingFile = "/nonexistent/mapping.json"
	st := memory.New("run")
	exp := NewExport(cfg, st, &stubSource{doc: doc}, "")

	err := exp.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group mapping")
}

func TestTranslateStoredReport(t *testing.T) {
	mapping, err := famparam.LoadGroupMapping([]byte(`{"PG_TEXT": "Текст"}`))
	require.NoError(t, err)

	st := memory.New("run")
	content := "Group,Name,Value,DescriptionField,ImageField,IsInstance\n" +
		"PG_TEXT,Комментарий,note,Добавить описание,Добавить картинку,True\n"
	require.NoError(t, st.PutObject(context.Background(), "report.csv", strings.NewReader(content)))

	md := &Metadata{FileName: "report.csv", Rows: 1}
	translated, err := TranslateStoredReport(context.Background(), st, md, mapping)
	require.NoError(t, err)
	assert.Equal(t, 1, translated)

	res := readStoredObject(t, st, "report.csv", false)
	assert.Equal(t,
		"Group,Name,Value,DescriptionField,ImageField,IsInstance\n"+
			"Текст,Комментарий,note,Добавить описание,Добавить картинку,True\n",
		res,
	)
	assert.Equal(t, int64(len(res)), md.OriginalSize)
	assert.Equal(t, checksum([]byte(res)), md.Checksum)
}
