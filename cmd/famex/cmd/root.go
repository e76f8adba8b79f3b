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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/famexio/famex/cmd/famex/cmd/add_group"
	"github.com/famexio/famex/cmd/famex/cmd/delete"
	"github.com/famexio/famex/cmd/famex/cmd/export"
	"github.com/famexio/famex/cmd/famex/cmd/list_groups"
	"github.com/famexio/famex/cmd/famex/cmd/list_reports"
	"github.com/famexio/famex/cmd/famex/cmd/sample"
	"github.com/famexio/famex/cmd/famex/cmd/show_report"
	"github.com/famexio/famex/cmd/famex/cmd/translate"
	"github.com/famexio/famex/cmd/famex/cmd/validate"
	famDomains "github.com/famexio/famex/internal/domains"
)

var (
	Version    string
	Commit     string
	CommitDate string

	RootCmd = &cobra.Command{
		Use:   "famex",
		Short: "Famex exports family parameter reports from BIM family documents to CSV",
		Long: "A batch export tool for family parameter reports. It reads parameter " +
			"definitions and values from a family document source (JSON exchange file or " +
			"Postgres family catalog), filters computed and denylisted parameters, normalizes " +
			"typed values to display strings, orders rows by group rank and writes a CSV " +
			"report with translated group labels. Reports are kept in a directory or S3 " +
			"storage together with run metadata",
	}
	cfgFile string
	Config  = famDomains.NewConfig()
)

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				Commit = setting.Value
			}
			if setting.Key == "vcs.time" {
				CommitDate = setting.Value
			}
		}
	}
	if Version != "" {
		RootCmd.Version = fmt.Sprintf("%s %s %s", Version, Commit, CommitDate)
	} else {
		RootCmd.Version = fmt.Sprintf("%s %s", Commit, CommitDate)
	}

	cobra.OnInitialize(initConfig)
	// Removing short help flag from default
	RootCmd.PersistentFlags().BoolP("help", "", false, "help for famex")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file ")
	RootCmd.PersistentFlags().StringP("log-format", "", "text", "logging format [text|json]")
	RootCmd.PersistentFlags().StringP("log-level", "", zerolog.LevelInfoValue,
		fmt.Sprintf(
			"logging level %s|%s|%s",
			zerolog.LevelDebugValue,
			zerolog.LevelInfoValue,
			zerolog.LevelWarnValue,
		),
	)

	RootCmd.AddCommand(export.Cmd)
	RootCmd.AddCommand(list_reports.Cmd)
	RootCmd.AddCommand(show_report.Cmd)
	RootCmd.AddCommand(delete.Cmd)
	RootCmd.AddCommand(translate.Cmd)
	RootCmd.AddCommand(list_groups.Cmd)
	RootCmd.AddCommand(add_group.Cmd)
	RootCmd.AddCommand(validate.Cmd)
	RootCmd.AddCommand(sample.Cmd)

	if err := viper.BindPFlag("log.format", RootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		log.Fatal().Err(err).Msg("")
	}

	if err := viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		log.Fatal().Err(err).Msg("")
	}

	RootCmd.InitDefaultCompletionCmd()
	RootCmd.InitDefaultHelpCmd()
	RootCmd.InitDefaultVersionFlag()

	for _, c := range RootCmd.Commands() {
		if c.Name() == "completion" || c.Name() == "help" {
			c.DisableFlagParsing = true
			for _, subc := range c.Commands() {
				subc.DisableFlagParsing = true
			}
		}
	}

}

// defaultConfigFile - os.UserConfigDir()/famex/config.yml, used when --config
// is omitted.
func defaultConfigFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "famex", "config.yml")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal().Err(err).Msg("error reading from config file")
		}
	} else if defaultCfg := defaultConfigFile(); defaultCfg != "" {
		if _, err := os.Stat(defaultCfg); err == nil {
			cfgFile = defaultCfg
			viper.SetConfigFile(defaultCfg)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatal().Err(err).Msg("error reading from default config file")
			}
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	decoderCfg := func(cfg *mapstructure.DecoderConfig) {
		cfg.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}

	if err := viper.Unmarshal(Config, decoderCfg); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
