//go:build integration

/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tomoncle/exemplar/condition"
	"github.com/tomoncle/exemplar/database"
	"github.com/uptrace/bun"
)

func setupPostgres(t *testing.T) *bun.DB {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("exemplar_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = database.TypePostgres
	cfg.ConnectionConfig.Host = host
	cfg.ConnectionConfig.Port = port.Int()
	cfg.ConnectionConfig.Username = "test"
	cfg.ConnectionConfig.Password = "test"
	cfg.ConnectionConfig.DBName = "exemplar_test"
	cfg.ConnectionConfig.SSLMode = "disable"

	factory := database.NewDatabaseFactory()
	_, err = factory.CreateFromConfig(cfg)
	require.NoError(t, err)
	require.NoError(t, factory.InitializeDatabase(ctx, false))
	t.Cleanup(func() { _ = factory.Close() })

	db := factory.GetDB()
	require.NoError(t, database.EnsureTables(ctx, db, &user{}))
	return db
}

func TestPostgres_SaveMergeAndBulkOverwrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupPostgres(t)
	ctx := context.Background()

	err := WithSession(ctx, db, func(s *Session) error {
		repo := NewRepository[user](s)

		alice, err := repo.Save(ctx, newUser("", "Alice"), "op1")
		require.NoError(t, err)
		require.False(t, alice.IsNew())

		patch := newUser(alice.ID.V, "")
		patch.Email.Put("a@b.com")
		merged, err := repo.Save(ctx, patch, "op2")
		require.NoError(t, err)
		assert.Equal(t, "Alice", merged.Name.V)
		assert.Equal(t, "a@b.com", merged.Email.V)
		assert.Equal(t, "op1", merged.CreatedBy.V)

		require.NoError(t, repo.BulkSave(ctx, []*user{newUser(alice.ID.V, "Alicia"), withAge(newUser("u2", "Bob"), 17)}, "op3"))

		stored, err := repo.Find(ctx, Equal(newUser(alice.ID.V, "")))
		require.NoError(t, err)
		assert.Equal(t, "Alicia", stored.Name.V)
		assert.False(t, stored.Email.IsSet())
		assert.Equal(t, "op1", stored.CreatedBy.V)

		minors, err := repo.FindAllWhere(ctx, condition.New("age", condition.GreaterThan, 18, true))
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, ids(minors))

		require.NoError(t, repo.Delete(ctx, newUser("u2", "")))
		assert.ErrorIs(t, repo.Delete(ctx, newUser("u2", "")), ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
