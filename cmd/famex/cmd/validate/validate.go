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

package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/famexio/famex/internal/domains"
	exportInternals "github.com/famexio/famex/internal/export"
	"github.com/famexio/famex/internal/famdoc"
	sourceBuilder "github.com/famexio/famex/internal/source/builder"
	"github.com/famexio/famex/internal/utils/logger"
	stringsUtils "github.com/famexio/famex/internal/utils/strings"
	"github.com/famexio/famex/pkg/famparam"
)

const (
	TextFormat = "text"
	JsonFormat = "json"
)

const msgColumnWidth = 52

var (
	Cmd = &cobra.Command{
		Use:   "validate",
		Short: "validate the export configuration against a family document",
		Run: func(cmd *cobra.Command, args []string) {
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if err := run(); err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
	Config      = domains.NewConfig()
	documentRef string
)

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := sourceBuilder.GetSource(ctx, &Config.Source)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	defer func() {
		if err := src.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("error closing document source")
		}
	}()

	doc, err := src.LoadDocument(ctx, documentRef)
	if err != nil {
		return fmt.Errorf("unable to load document: %w", err)
	}

	mapping, err := exportInternals.LoadMapping(Config.Export.MappingFile)
	if err != nil {
		return err
	}

	warnings := validateExport(doc, mapping, &Config.Export)
	warnings = filterResolved(warnings, Config.Validate.ResolvedWarnings)

	if len(warnings) > 0 {
		if err := render(warnings, Config.Validate.Format); err != nil {
			return err
		}
	}

	if warnings.IsFatal() {
		return fmt.Errorf("the export configuration has fatal validation warnings")
	}
	if len(warnings) == 0 {
		log.Info().Msg("the export configuration is valid")
	}
	return nil
}

// validateExport checks the export configuration against the loaded document:
// a non-family document and a broken skip_when condition are fatal, unmapped
// groups and denylist or mask rule entries that match nothing are advisory.
func validateExport(
	doc *famdoc.Document, mapping *famparam.GroupMapping, cfg *domains.Export,
) famparam.ValidationWarnings {
	var warnings famparam.ValidationWarnings

	if !doc.IsFamily {
		warnings = append(warnings,
			famparam.NewValidationWarning().
				SetSeverity(famparam.ErrorValidationSeverity).
				AddMeta("Document", doc.Name).
				SetMsg("document is not a family document"),
		)
	}

	normalizer := famparam.NewNormalizer(doc)
	_, collectorWarns, err := famparam.NewCollector(
		&famparam.CollectorConfig{
			ExcludedNames: cfg.ExcludedNames,
			SkipWhen:      cfg.SkipWhen,
			Masking:       cfg.Masking,
			HashSalt:      cfg.HashSalt,
		},
		normalizer,
	)
	if err != nil {
		warnings = append(warnings,
			famparam.NewValidationWarning().
				SetSeverity(famparam.ErrorValidationSeverity).
				AddMeta("Error", err.Error()).
				SetMsg("unable to set up the parameter collector"),
		)
	}
	warnings = append(warnings, collectorWarns...)

	names := make(map[string]struct{}, len(doc.Parameters))
	for _, p := range doc.Parameters {
		names[p.Name] = struct{}{}
		if _, ok := mapping.Label(p.Group); !ok {
			warnings = append(warnings,
				famparam.NewValidationWarning().
					AddMeta("ParameterName", p.Name).
					AddMeta("Group", p.Group).
					SetMsg("parameter group is not in the group mapping: it will sort last with an untranslated label"),
			)
		}
	}

	for _, name := range cfg.ExcludedNames {
		if _, ok := names[name]; !ok {
			warnings = append(warnings,
				famparam.NewValidationWarning().
					SetSeverity(famparam.InfoValidationSeverity).
					AddMeta("ExcludedName", name).
					SetMsg("denylist entry matches no document parameter"),
			)
		}
	}

	for _, rule := range cfg.Masking {
		if _, ok := names[rule.Name]; !ok {
			warnings = append(warnings,
				famparam.NewValidationWarning().
					AddMeta("ParameterName", rule.Name).
					AddMeta("MaskKind", rule.Kind).
					SetMsg("mask rule matches no document parameter"),
			)
		}
	}

	return warnings
}

// filterResolved drops warnings whose hash was acknowledged in the
// validate.resolved_warnings config list. Fatal warnings cannot be resolved
// away.
func filterResolved(warnings famparam.ValidationWarnings, resolved []string) famparam.ValidationWarnings {
	res := make(famparam.ValidationWarnings, 0, len(warnings))
	for _, w := range warnings {
		w.MakeHash()
		if w.Severity != famparam.ErrorValidationSeverity && slices.Contains(resolved, w.Hash) {
			log.Debug().
				Str("Hash", w.Hash).
				Msg("validation warning resolved by config")
			continue
		}
		res = append(res, w)
	}
	return res
}

func render(warnings famparam.ValidationWarnings, format string) error {
	switch format {
	case JsonFormat:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(warnings)
	case TextFormat:
		var data [][]string
		for _, w := range warnings {
			meta, err := json.Marshal(w.Meta)
			if err != nil {
				return fmt.Errorf("unable to serialize warning meta: %w", err)
			}
			data = append(data, []string{
				w.Severity,
				stringsUtils.WrapString(w.Msg, msgColumnWidth),
				stringsUtils.WrapString(string(meta), msgColumnWidth),
				w.Hash,
			})
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"severity", "message", "meta", "hash"})
		table.SetRowLine(true)
		table.AppendBulk(data)
		table.Render()
		return nil
	}
	return fmt.Errorf("unknown format %s", format)
}

func init() {
	Cmd.Flags().StringVarP(&documentRef, "document", "d", "", "document name to load (postgres source)")
	Cmd.Flags().StringVarP(&Config.Validate.Format, "format", "f", Config.Validate.Format, "output format [text|json]")
}
