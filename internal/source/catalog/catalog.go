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

package catalog

import (
	"context"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/famexio/famex/internal/famdoc"
	"github.com/famexio/famex/pkg/famparam"
)

type Config struct {
	// URI - postgres connection string of the family catalog
	URI string `mapstructure:"uri" yaml:"uri" json:"uri,omitempty"`
}

func NewConfig() *Config {
	return &Config{}
}

// Source loads family documents from a Postgres family catalog. Read-only:
// the queries never touch catalog state. NUMERIC parameter values are scanned
// as shopspring decimals so the normalizer keeps the stored precision.
type Source struct {
	pool *pgxpool.Pool
}

func NewSource(ctx context.Context, cfg *Config) (*Source, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("source.postgres.uri cannot be empty")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("unable to parse catalog uri: %w", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to catalog: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping catalog: %w", err)
	}
	return &Source{pool: pool}, nil
}

func (s *Source) LoadDocument(ctx context.Context, ref string) (*famdoc.Document, error) {
	if ref == "" {
		return nil, fmt.Errorf("catalog source requires a document name")
	}

	var (
		docID    int64
		name     string
		isFamily bool
		category *string
	)
	row := s.pool.QueryRow(ctx, documentQuery, ref)
	if err := row.Scan(&docID, &name, &isFamily, &category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %q was not found in the catalog", ref)
		}
		return nil, errors.Wrap(err, "unable to query catalog document")
	}

	var (
		params   []*famparam.Parameter
		entities []*famparam.Entity
	)
	// parameters and entities live in independent tables, load them
	// concurrently from the pool
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		params, err = s.loadParameters(gctx, docID)
		return err
	})
	eg.Go(func() error {
		var err error
		entities, err = s.loadEntities(gctx, docID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	doc := famdoc.New(name, isFamily, params, entities)
	if category != nil {
		doc.Category = *category
	}
	return doc, nil
}

func (s *Source) loadParameters(ctx context.Context, docID int64) ([]*famparam.Parameter, error) {
	rows, err := s.pool.Query(ctx, parametersQuery, docID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query catalog parameters")
	}
	defer rows.Close()

	var res []*famparam.Parameter
	for rows.Next() {
		var (
			p            famparam.Parameter
			dataType     *string
			formula      *string
			valueDouble  *decimal.Decimal
			valueInt     *int64
			valueString  *string
			valueRef     *int64
			valueDisplay *string
		)
		err := rows.Scan(
			&p.Name, &p.Group, &p.StorageType, &dataType, &formula,
			&p.IsInstance, &valueDouble, &valueInt, &valueString, &valueRef,
			&valueDisplay,
		)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan catalog parameter row")
		}
		if dataType != nil {
			p.DataType = *dataType
		}
		if formula != nil {
			p.Formula = *formula
		}
		if valueDisplay != nil {
			p.ValueString = *valueDisplay
		}
		switch p.StorageType {
		case famparam.StorageDouble:
			if valueDouble != nil {
				p.Value = *valueDouble
			}
		case famparam.StorageInteger:
			if valueInt != nil {
				p.Value = *valueInt
			}
		case famparam.StorageString:
			if valueString != nil {
				p.Value = *valueString
			}
		case famparam.StorageElementRef:
			if valueRef != nil {
				p.Value = *valueRef
			}
		}
		res = append(res, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating catalog parameter rows")
	}
	return res, nil
}

func (s *Source) loadEntities(ctx context.Context, docID int64) ([]*famparam.Entity, error) {
	rows, err := s.pool.Query(ctx, entitiesQuery, docID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query catalog entities")
	}
	defer rows.Close()

	var res []*famparam.Entity
	for rows.Next() {
		var (
			e    famparam.Entity
			name *string
			kind *string
		)
		if err := rows.Scan(&e.ID, &name, &kind); err != nil {
			return nil, errors.Wrap(err, "unable to scan catalog entity row")
		}
		if name != nil {
			e.Name = *name
		}
		if kind != nil {
			e.Kind = *kind
		}
		res = append(res, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating catalog entity rows")
	}
	return res, nil
}

func (s *Source) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}
