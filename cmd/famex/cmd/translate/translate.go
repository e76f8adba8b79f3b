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

package translate

import (
	"context"
	"path"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/famexio/famex/internal/domains"
	exportInternals "github.com/famexio/famex/internal/export"
	"github.com/famexio/famex/internal/storages/builder"
	"github.com/famexio/famex/internal/utils/logger"
)

var (
	Cmd = &cobra.Command{
		Use:   "translate runId",
		Args:  cobra.ExactArgs(1),
		Short: "re-run the group label translation pass on a stored report",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if err := run(args[0]); err != nil {
				log.Fatal().Err(err).Msg("cannot translate report")
			}
		},
	}
	Config = domains.NewConfig()
)

func run(runId string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := builder.GetStorage(ctx, &Config.Storage, &Config.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	exists, err := st.Exists(ctx, path.Join(runId, exportInternals.MetadataJsonFileName))
	if err != nil {
		return err
	}
	if !exists {
		log.Fatal().Msgf("report run %s was not found", runId)
	}
	st = st.SubStorage(runId, true)

	mapping, err := exportInternals.LoadMapping(Config.Export.MappingFile)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load group mapping")
	}

	md, err := exportInternals.GetMetadata(ctx, st)
	if err != nil {
		return err
	}

	translated, err := exportInternals.TranslateStoredReport(ctx, st, md, mapping)
	if err != nil {
		return err
	}
	md.TranslatedRows = translated
	md.CompletedAt = time.Now()

	if err := exportInternals.WriteMetadata(ctx, st, md); err != nil {
		return err
	}

	log.Info().
		Str("RunId", runId).
		Str("FileName", md.FileName).
		Int("TranslatedRows", translated).
		Msg("report translated")
	return nil
}
