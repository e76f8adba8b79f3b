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

package delete

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	gostr "github.com/xhit/go-str2duration/v2"

	"github.com/famexio/famex/internal/domains"
	"github.com/famexio/famex/internal/export/reportstatus"
	"github.com/famexio/famex/internal/storages"
	"github.com/famexio/famex/internal/storages/builder"
	"github.com/famexio/famex/internal/utils/logger"
)

var (
	pruneFailed  bool
	dryRun       bool
	retainRecent int
	beforeDate   string
	retainFor    string
)

// Report - one report run directory with its derived status.
type Report struct {
	RunId    string
	Status   string
	Date     time.Time
	Document string
}

type StorageResponse struct {
	Valid           []*Report
	UnknownOrFailed []*Report
}

var (
	Cmd = &cobra.Command{
		Use:   "delete",
		Short: "delete report runs from the storage by run ID or retention policy",
		Run: func(cmd *cobra.Command, args []string) {
			var runId string
			if err := logger.SetLogLevel(Config.Log.Level, Config.Log.Format); err != nil {
				log.Fatal().Err(err).Msg("")
			}

			if len(args) > 0 {
				runId = args[0]
			}

			if err := run(runId); err != nil {
				log.Fatal().Err(err).Msg("")
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

	if retainFor != "" {
		if err := retainForReports(ctx, st, retainFor); err != nil {
			log.Fatal().Err(err).Msg("error --retain-for duration")
		}
	} else if retainRecent != -1 {
		if err := retainRecentNReports(ctx, st); err != nil {
			log.Fatal().
				Err(err).
				Msgf("error retaining the most recent %d reports", retainRecent)
		}
	} else if pruneFailed {
		if err := pruneFailedReports(ctx, st); err != nil {
			log.Fatal().Err(err).Msg("error pruning failed reports")
		}
	} else if beforeDate != "" {
		if err := deleteBeforeDate(ctx, st, beforeDate); err != nil {
			log.Fatal().Err(err).Msg("error deleting reports older than date")
		}
	} else if runId != "" {
		if err := deleteReport(ctx, st, runId); err != nil {
			log.Fatal().Err(err).Msg("error deleting report")
		}
	} else {
		log.Fatal().Msg("either --prune-failed, --before-date, --retain-for, --retain-recent or runId should be provided")
	}

	return nil
}

func deleteReport(ctx context.Context, st storages.Storager, runId string) error {
	_, dirs, err := st.ListDir(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	if !slices.ContainsFunc(dirs, func(sst storages.Storager) bool {
		return runId == sst.Dirname()
	}) {
		return fmt.Errorf("report run with id %s was not found", runId)
	}

	if err = st.DeleteAll(ctx, runId); err != nil {
		return fmt.Errorf("storage error: %s", err)
	}

	return nil
}

func pruneFailedReports(ctx context.Context, st storages.Storager) error {
	sr, err := getSortedReportsWithStatuses(ctx, st)
	if err != nil {
		return fmt.Errorf("could not get sorted reports: %s", err)
	}
	for _, d := range sr.UnknownOrFailed {
		if err = deleteReportById(ctx, st, d, dryRun); err != nil {
			return fmt.Errorf("could not delete report %s: %s", d.RunId, err)
		}
	}
	return nil
}

func deleteBeforeDate(ctx context.Context, st storages.Storager, dateStr string) error {
	dt, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return fmt.Errorf("could not parse --before-date date: %s", err)
	}
	e := log.Info().
		Bool("DryRun", dryRun).
		Time("BeforeDate", dt)
	if log.Logger.GetLevel() == zerolog.DebugLevel {
		e.Time("BeforeDateUtc", dt.UTC())
	}
	e.Msg("deleting reports older than")

	sr, err := getSortedReportsWithStatuses(ctx, st)
	if err != nil {
		return fmt.Errorf("could not get sorted reports: %s", err)
	}
	for _, d := range sr.Valid {
		if d.Date.Before(dt) {
			if err = deleteReportById(ctx, st, d, dryRun); err != nil {
				return fmt.Errorf("could not delete report %s: %s", d.RunId, err)
			}
		}
	}
	return nil
}

func retainForReports(ctx context.Context, st storages.Storager, retainFor string) error {
	dur, err := gostr.ParseDuration(retainFor)
	if err != nil {
		log.Fatal().Err(err).Msg("error --retain-for duration")
	}
	fromDate := time.Now().Add(-dur)
	log.Info().
		Bool("DryRun", dryRun).
		Str("Duration", gostr.String(dur)).
		Time("ToDate", time.Now()).
		Time("FromDate", fromDate).
		Msg("deleting reports older than")

	sr, err := getSortedReportsWithStatuses(ctx, st)
	if err != nil {
		return fmt.Errorf("could not get sorted reports: %s", err)
	}
	for _, d := range sr.Valid {
		if time.Since(d.Date) < dur {
			continue
		}
		if err = deleteReportById(ctx, st, d, dryRun); err != nil {
			return fmt.Errorf("could not delete report %s: %s", d.RunId, err)
		}
	}
	return nil
}

func retainRecentNReports(ctx context.Context, st storages.Storager) error {
	sr, err := getSortedReportsWithStatuses(ctx, st)
	if err != nil {
		return fmt.Errorf("could not get sorted reports: %s", err)
	}

	log.Info().
		Int("Kept", retainRecent).
		Bool("DryRun", dryRun).
		Msg("retaining the most recent N reports")

	for idx, d := range sr.Valid {
		if idx < retainRecent {
			continue
		}
		if err = deleteReportById(ctx, st, d, dryRun); err != nil {
			return fmt.Errorf("could not delete report %s: %s", d.RunId, err)
		}
	}
	return nil
}

func getSortedReportsWithStatuses(ctx context.Context, st storages.Storager) (*StorageResponse, error) {
	var valid, unknownOrFailed []*Report
	_, runs, err := st.ListDir(ctx)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		status, md, err := reportstatus.GetReportStatusAndMetadata(ctx, run)
		if err != nil {
			log.Warn().
				Str("RunId", run.Dirname()).
				Err(err).
				Msg("unable to get report status")
		}
		d := Report{
			RunId:  run.Dirname(),
			Status: status,
		}
		if status == reportstatus.DoneStatusName {
			d.Date = md.StartedAt
			d.Document = md.Document
		}
		switch status {
		case reportstatus.DoneStatusName:
			valid = append(valid, &d)
		case reportstatus.UnknownOrFailedStatusName:
			unknownOrFailed = append(unknownOrFailed, &d)
		}
	}

	slices.SortFunc(valid, func(a, b *Report) int {
		return cmp.Compare(b.RunId, a.RunId)
	})

	slices.SortFunc(unknownOrFailed, func(a, b *Report) int {
		return cmp.Compare(b.RunId, a.RunId)
	})

	return &StorageResponse{
		Valid:           valid,
		UnknownOrFailed: unknownOrFailed,
	}, nil
}

func deleteReportById(ctx context.Context, st storages.Storager, d *Report, dryRun bool) error {
	if d.RunId == "" {
		panic("empty report run id")
	}
	e := log.Info().
		Str("RunId", d.RunId)
	if !d.Date.IsZero() {
		e.Str("Date", d.Date.String())
	}
	if log.Logger.GetLevel() == zerolog.DebugLevel {
		e.Str("DateUTC", d.Date.UTC().String())
	}
	if d.Document != "" {
		e.Str("Document", d.Document)
	}
	msg := "deleting report"
	if dryRun {
		msg = "deleting report (dry-run)"
	}
	e.Msg(msg)

	if dryRun {
		return nil
	}
	if err := st.DeleteAll(ctx, d.RunId); err != nil {
		return err
	}
	return nil
}

func init() {
	Cmd.Flags().IntVar(&retainRecent,
		"retain-recent",
		-1,
		"retain the most recent N completed reports",
	)
	Cmd.Flags().BoolVar(&pruneFailed,
		"prune-failed",
		false,
		"prune report runs without parsable metadata",
	)
	Cmd.Flags().StringVar(&beforeDate,
		"before-date",
		"",
		"delete reports older than the specified date in RFC3339Nano format: 2021-01-01T00:00:00.0Z",
	)
	Cmd.Flags().StringVar(&retainFor,
		"retain-for",
		"",
		"retain reports newer than the provided duration (for instance 1d6h30m)",
	)
	Cmd.Flags().BoolVar(&dryRun,
		"dry-run",
		false,
		"do not delete anything, only log what would be deleted",
	)
}
