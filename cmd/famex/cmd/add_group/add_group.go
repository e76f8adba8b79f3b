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

package add_group

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/utils/logger"
	"github.com/famexio/famex/pkg/famparam"
)

var (
	Cmd = &cobra.Command{
		Use:   "add-group code label",
		Args:  cobra.ExactArgs(2),
		Short: "append a group code with its label to the group mapping file",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if err := addGroup(args[0], args[1]); err != nil {
				log.Fatal().Err(err).Msg("cannot add group mapping entry")
			}
		},
	}
	Config = domains.NewConfig()
)

func addGroup(code, label string) error {
	mappingFile := Config.Export.MappingFile
	if mappingFile == "" {
		return fmt.Errorf("export.mapping_file must be set: the bundled mapping cannot be edited")
	}

	data, err := os.ReadFile(mappingFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to read group mapping file: %w", err)
	}

	res, err := famparam.AppendGroup(data, code, label)
	if err != nil {
		return err
	}

	if err := os.WriteFile(mappingFile, res, 0644); err != nil {
		return fmt.Errorf("unable to write group mapping file: %w", err)
	}

	mapping, err := famparam.LoadGroupMapping(res)
	if err != nil {
		return err
	}
	log.Info().
		Str("Code", code).
		Str("Label", label).
		Int("Rank", mapping.Rank(code)).
		Str("MappingFile", mappingFile).
		Msg("group mapping entry stored")
	return nil
}
