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
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/famexio/famex/pkg/famparam"
)

const (
	testContainerPort        = "5432"
	testContainerDatabase    = "testdb"
	testContainerUser        = "testuser"
	testContainerPassword    = "testpassword"
	testContainerImage       = "postgres:17"
	testContainerExposedPort = "5432/tcp"
)

func TestNewSource_emptyURI(t *testing.T) {
	_, err := NewSource(context.Background(), &Config{})
	assert.Error(t, err)
}

func TestSource_LoadDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping catalog integration test in short mode")
	}
	ctx := context.Background()

	connStr, cleanup, err := runPostgresContainer(ctx)
	require.NoError(t, err)
	defer cleanup()

	con, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)
	defer con.Close(ctx) // nolint: errcheck
	require.NoError(t, initCatalog(ctx, con))

	src, err := NewSource(ctx, &Config{URI: connStr})
	require.NoError(t, err)
	defer src.Close(ctx) // nolint: errcheck

	doc, err := src.LoadDocument(ctx, "Дверь")
	require.NoError(t, err)

	assert.Equal(t, "Дверь", doc.Name)
	assert.True(t, doc.IsFamily)
	assert.Equal(t, "Doors", doc.Category)
	require.Len(t, doc.Parameters, 5)

	byName := make(map[string]*famparam.Parameter)
	for _, p := range doc.Parameters {
		byName[p.Name] = p
	}

	n := famparam.NewNormalizer(doc)
	assert.Equal(t, "12.35", n.Normalize(byName["Width"]))
	assert.Equal(t, famparam.DefaultBooleanLiteral, n.Normalize(byName["Видимость"]))
	assert.Equal(t, "Дуб", n.Normalize(byName["Материал"]))
	assert.Equal(t, "2.53 м²", n.Normalize(byName["Площадь"]))
	assert.True(t, byName["Depth"].HasFormula())

	entity, ok := doc.ResolveEntity(101)
	require.True(t, ok)
	assert.Equal(t, famparam.EntityKindMaterial, entity.Kind)
}

func TestSource_LoadDocument_notFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping catalog integration test in short mode")
	}
	ctx := context.Background()

	connStr, cleanup, err := runPostgresContainer(ctx)
	require.NoError(t, err)
	defer cleanup()

	con, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)
	defer con.Close(ctx) // nolint: errcheck
	require.NoError(t, initCatalog(ctx, con))

	src, err := NewSource(ctx, &Config{URI: connStr})
	require.NoError(t, err)
	defer src.Close(ctx) // nolint: errcheck

	_, err = src.LoadDocument(ctx, "Окно")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was not found")

	_, err = src.LoadDocument(ctx, "")
	assert.Error(t, err)
}

func initCatalog(ctx context.Context, con *pgx.Conn) error {
	ddl := []string{
		`CREATE TABLE documents (
			id        BIGSERIAL PRIMARY KEY,
			name      TEXT NOT NULL UNIQUE,
			is_family BOOLEAN NOT NULL,
			category  TEXT
		)`,
		`CREATE TABLE parameters (
			id           BIGSERIAL PRIMARY KEY,
			document_id  BIGINT NOT NULL REFERENCES documents (id),
			name         TEXT NOT NULL,
			group_code   TEXT NOT NULL,
			storage_type TEXT NOT NULL,
			data_type    TEXT,
			formula      TEXT,
			is_instance  BOOLEAN NOT NULL DEFAULT FALSE,
			value_double NUMERIC,
			value_int    BIGINT,
			value_string TEXT,
			value_ref    BIGINT,
			value_display TEXT
		)`,
		`CREATE TABLE entities (
			document_id BIGINT NOT NULL REFERENCES documents (id),
			entity_id   BIGINT NOT NULL,
			name        TEXT,
			kind        TEXT
		)`,
		`INSERT INTO documents (name, is_family, category) VALUES ('Дверь', TRUE, 'Doors')`,
		`INSERT INTO parameters
			(document_id, name, group_code, storage_type, data_type, formula, is_instance,
			 value_double, value_int, value_string, value_ref, value_display)
		 VALUES
			(1, 'Width', 'PG_GEOMETRY', 'double', NULL, NULL, FALSE, 12.345, NULL, NULL, NULL, NULL),
			(1, 'Depth', 'PG_GEOMETRY', 'double', NULL, 'Width / 2', FALSE, NULL, NULL, NULL, NULL, NULL),
			(1, 'Площадь', 'PG_GEOMETRY', 'double', NULL, NULL, TRUE, NULL, NULL, NULL, NULL, '2.53 м²'),
			(1, 'Видимость', 'PG_VISIBILITY', 'integer', 'yes_no', NULL, TRUE, NULL, 1, NULL, NULL, NULL),
			(1, 'Материал', 'PG_MATERIALS', 'element_ref', NULL, NULL, FALSE, NULL, NULL, NULL, 101, NULL)`,
		`INSERT INTO entities (document_id, entity_id, name, kind) VALUES
			(1, 101, 'Дуб', 'material'),
			(1, 102, 'door.png', 'image')`,
	}
	for _, stmt := range ddl {
		if _, err := con.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("unable to init catalog schema: %w", err)
		}
	}
	return nil
}

func runPostgresContainer(ctx context.Context) (string, func(), error) {
	req := testcontainers.ContainerRequest{
		Image:        testContainerImage,
		ExposedPorts: []string{testContainerExposedPort},
		Env: map[string]string{
			"POSTGRES_USER":     testContainerUser,
			"POSTGRES_PASSWORD": testContainerPassword,
			"POSTGRES_DB":       testContainerDatabase,
		},
		WaitingFor: wait.ForSQL(testContainerExposedPort, "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s?sslmode=disable",
				testContainerUser, testContainerPassword, host, port.Port(), testContainerDatabase,
			)
		}),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := postgresContainer.MappedPort(ctx, testContainerPort)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		testContainerUser, testContainerPassword, host, port.Port(), testContainerDatabase,
	)

	return connStr, func() {
		_ = postgresContainer.Terminate(ctx)
	}, nil
}
