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

package list_reports

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/export/reportstatus"
	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/storages/builder"
	"github.com/famexio/famex/internal/utils/logger"
)

var (
	Cmd = &cobra.Command{
		Use:   "list-reports",
		Short: "list all family parameter reports in the storage",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Err(err).Msg("")
			}

			if err := listReports(); err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
	Config = domains.NewConfig()
)

func SizePretty(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func listReports() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st, err := builder.GetStorage(ctx, &Config.Storage, &Config.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	_, dirs, err := st.ListDir(ctx)
	if err != nil {
		return err
	}

	var data [][]string

	for _, report := range dirs {
		runId := report.Dirname()
		if err = renderListItem(ctx, report, &data); err != nil {
			log.Warn().
				Err(err).
				Str("RunId", runId).
				Msg("unable to render list report item")
		}
	}

	slices.SortFunc(data, func(a, b []string) int {
		if a[0] > b[0] {
			return -1
		}
		return 1
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"run id", "date", "document", "file", "rows", "size", "translated", "status"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

func renderListItem(ctx context.Context, st storages.Storager, data *[][]string) error {
	runId := st.Dirname()

	status, metadata, err := reportstatus.GetReportStatusAndMetadata(ctx, st)
	if err != nil {
		return fmt.Errorf("failed to get status and metadata: %w", err)
	}

	var creationDate, document, fileName, rows, size, translated string
	translated = "false"
	if status == reportstatus.DoneStatusName {
		creationDate = metadata.CompletedAt.Format(time.RFC3339)
		document = metadata.Document
		fileName = metadata.FileName
		rows = strconv.Itoa(metadata.Rows)
		size = SizePretty(metadata.CompressedSize)
		if metadata.TranslatedRows > 0 {
			translated = "true"
		}
	}

	*data = append(
		*data, []string{
			runId, creationDate, document, fileName, rows, size, translated, status,
		},
	)
	return nil
}
