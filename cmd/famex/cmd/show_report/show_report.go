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

package show_report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"slices"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/famexio/famex/internal/domains"
	exportInternals "github.com/famexio/famex/internal/export"
	"github.com/famexio/famex/internal/storages/builder"
	"github.com/famexio/famex/internal/utils/logger"
)

const (
	latestReportName = "latest"
)

const (
	TextFormat = "text"
	JsonFormat = "json"
	YamlFormat = "yaml"
)

var (
	Config = domains.NewConfig()
	format string
)

var (
	Cmd = &cobra.Command{
		Use:   "show-report [flags] runId|latest",
		Args:  cobra.ExactArgs(1),
		Short: "shows metadata info about the report run",
		Run: func(cmd *cobra.Command, args []string) {
			var runId string

			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("error setting up logger")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			st, err := builder.GetStorage(ctx, &Config.Storage, &Config.Log)
			if err != nil {
				log.Fatal().Err(err).Msg("error building storage")
			}

			if args[0] == latestReportName {
				var runIds []string

				_, dirs, err := st.ListDir(ctx)
				if err != nil {
					log.Fatal().Err(err).Msg("cannot walk through directory")
				}
				for _, dir := range dirs {
					exists, err := dir.Exists(ctx, exportInternals.MetadataJsonFileName)
					if err != nil {
						log.Fatal().Err(err).Msg("cannot check file existence")
					}
					if exists {
						runIds = append(runIds, dir.Dirname())
					}
				}
				if len(runIds) == 0 {
					log.Fatal().Msg("no reports were found in the storage")
				}

				slices.SortFunc(runIds, func(a, b string) int {
					if a > b {
						return -1
					}
					return 1
				})
				runId = runIds[0]
			} else {
				runId = args[0]
				exists, err := st.Exists(ctx, path.Join(runId, exportInternals.MetadataJsonFileName))
				if err != nil {
					log.Fatal().Err(err).Msg("cannot check file existence")
				}
				if !exists {
					log.Fatal().Msgf("report run %s was not found", runId)
				}
			}

			md, err := exportInternals.GetMetadata(ctx, st.SubStorage(runId, true))
			if err != nil {
				log.Fatal().Err(err).Msg("unable to read report metadata")
			}

			if err := render(md, format); err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
)

func render(md *exportInternals.Metadata, format string) error {
	switch format {
	case JsonFormat:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(md)
	case YamlFormat:
		return yaml.NewEncoder(os.Stdout).Encode(md)
	case TextFormat:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"property", "value"})
		table.AppendBulk([][]string{
			{"report id", md.ReportId},
			{"document", md.Document},
			{"file", md.FileName},
			{"rows", fmt.Sprintf("%d", md.Rows)},
			{"translated rows", fmt.Sprintf("%d", md.TranslatedRows)},
			{"started at", md.StartedAt.Format(time.RFC3339)},
			{"completed at", md.CompletedAt.Format(time.RFC3339)},
			{"original size", fmt.Sprintf("%d", md.OriginalSize)},
			{"compressed size", fmt.Sprintf("%d", md.CompressedSize)},
			{"checksum", md.Checksum},
			{"compressed", fmt.Sprintf("%t", md.Compressed)},
		})
		table.Render()
		return nil
	}
	return fmt.Errorf("unknown format %s", format)
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", TextFormat, "output format [text|yaml|json]")
}
