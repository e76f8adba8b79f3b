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
	"errors"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/famexio/famex/internal/domains"
	exportInternals "github.com/famexio/famex/internal/export"
	sourceBuilder "github.com/famexio/famex/internal/source/builder"
	"github.com/famexio/famex/internal/storages/builder"
	"github.com/famexio/famex/internal/utils/logger"
)

var (
	Cmd = &cobra.Command{
		Use:   "export",
		Short: "export the family document parameters into a CSV report",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			// SIGINT before the terminal write step is a first-class
			// cancellation, not an error
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			st, err := builder.GetStorage(ctx, &Config.Storage, &Config.Log)
			if err != nil {
				log.Fatal().Err(err).Msg("fatal")
			}
			st = st.SubStorage(strconv.FormatInt(time.Now().UnixMilli(), 10), true)

			src, err := sourceBuilder.GetSource(ctx, &Config.Source)
			if err != nil {
				log.Fatal().Err(err).Msg("fatal")
			}
			defer func() {
				if err := src.Close(ctx); err != nil {
					log.Warn().Err(err).Msg("error closing document source")
				}
			}()

			exp := exportInternals.NewExport(Config, st, src, documentRef)

			if err := exp.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					log.Warn().Msg("export cancelled before the report was written")
					return
				}
				log.Fatal().Err(err).Msg("cannot export family parameters")
			}
		},
	}
	Config      = domains.NewConfig()
	documentRef string
)

func init() {
	Cmd.Flags().StringP("file", "f", "", "path to the JSON exchange document (file source)")
	Cmd.Flags().StringVarP(&documentRef, "document", "d", "", "document name to load (postgres source)")
	Cmd.Flags().BoolP("compress", "z", false, "gzip the report file")
	Cmd.Flags().BoolP("no-translate", "", false, "skip the group label translation pass")

	for flagName, configName := range map[string]string{
		"file":     "source.file.path",
		"compress": "export.compress",
	} {
		flag := Cmd.Flags().Lookup(flagName)
		if err := viper.BindPFlag(configName, flag); err != nil {
			log.Fatal().Err(err).Msg("fatal")
		}
	}

	Cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if noTranslate, err := cmd.Flags().GetBool("no-translate"); err == nil && noTranslate {
			Config.Export.Translate = false
		}
	}
}
