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

package list_groups

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/famexio/famex/internal/domains"
	exportInternals "github.com/famexio/famex/internal/export"
	"github.com/famexio/famex/internal/utils/logger"
)

const (
	TextFormat = "text"
	JsonFormat = "json"
)

var (
	Cmd = &cobra.Command{
		Use:   "list-groups",
		Short: "list the group mapping codes with their labels and sort ranks",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if err := listGroups(); err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
	Config = domains.NewConfig()
	format string
)

type groupItem struct {
	Rank  int    `json:"rank"`
	Code  string `json:"code"`
	Label string `json:"label"`
}

func listGroups() error {
	mapping, err := exportInternals.LoadMapping(Config.Export.MappingFile)
	if err != nil {
		return err
	}

	var items []groupItem
	for _, code := range mapping.Codes() {
		label, _ := mapping.Label(code)
		items = append(items, groupItem{
			Rank:  mapping.Rank(code),
			Code:  code,
			Label: label,
		})
	}

	switch format {
	case JsonFormat:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case TextFormat:
		var data [][]string
		for _, item := range items {
			data = append(data, []string{
				strconv.Itoa(item.Rank), item.Code, item.Label,
			})
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"rank", "code", "label"})
		table.AppendBulk(data)
		table.Render()
		return nil
	}
	return fmt.Errorf("unknown format %s", format)
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", TextFormat, "output format [text|json]")
}
