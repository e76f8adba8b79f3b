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

package sample

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/famdoc"
	"github.com/famexio/famex/internal/utils/logger"
)

var (
	Cmd = &cobra.Command{
		Use:   "sample",
		Short: "generate a sample family exchange document for testing the pipeline",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if err := run(); err != nil {
				log.Fatal().Err(err).Msg("cannot generate sample document")
			}
		},
	}
	Config = domains.NewConfig()

	documentName string
	output       string
)

func run() error {
	doc := famdoc.Sample(documentName)

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("unable to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing output file")
			}
		}()
		w = f
	}

	if err := doc.Encode(w); err != nil {
		return fmt.Errorf("unable to serialize sample document: %w", err)
	}

	if output != "" {
		log.Info().
			Str("Document", doc.Name).
			Str("Output", output).
			Int("Parameters", len(doc.Parameters)).
			Msg("sample document written")
	}
	return nil
}

func init() {
	Cmd.Flags().StringVarP(&documentName, "name", "n", "", "sample document name")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "output file path, stdout when empty")
}
