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

package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
connection:
  type: PostgreSQL
  host: db.internal
  port: 5432
  username: app
  dbname: records
  slow_query_time: 500ms
logging:
  level: debug
  format: json
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeFile(t, "db.yaml", sampleYAML)

	cfg, err := LoadConfig(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	cc := cfg.ConnectionConfig
	assert.Equal(t, TypePostgres, cc.Type)
	assert.Equal(t, "db.internal", cc.Host)
	assert.Equal(t, 5432, cc.Port)
	assert.Equal(t, "records", cc.DBName)
	assert.Equal(t, 500*time.Millisecond, cc.SlowQueryTime)
	// defaults survive fields the file does not mention
	assert.Equal(t, 100, cc.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeFile(t, "db.yaml", sampleYAML)
	envFile := writeFile(t, "test.env", "DB_PASSWORD=from-dotenv\nDB_SLOW_QUERY_TIME=3\n")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("LOG_LEVEL", "warn")
	t.Cleanup(func() { _ = os.Unsetenv("DB_SLOW_QUERY_TIME") })

	cfg, err := LoadConfig(path, envFile)
	require.NoError(t, err)

	assert.Equal(t, "override.internal", cfg.ConnectionConfig.Host)
	// variables already present win over the .env file
	assert.Equal(t, "from-env", cfg.ConnectionConfig.Password)
	assert.Equal(t, 3*time.Second, cfg.ConnectionConfig.SlowQueryTime)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestApplyEnvMySQLVariables(t *testing.T) {
	t.Setenv("MYSQL_URI", "mysql.internal:3307")
	t.Setenv("MYSQL_USER", "svc")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_DATABASE", "shop")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Validate())

	cc := cfg.ConnectionConfig
	assert.Equal(t, TypeMySQL, cc.Type)
	assert.Equal(t, "mysql.internal", cc.Host)
	assert.Equal(t, 3307, cc.Port)
	assert.Equal(t, "svc", cc.Username)
	assert.Equal(t, "shop", cc.DBName)
	assert.Equal(t, "preferred", cc.TLS)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "oracle"
	cfg.ConnectionConfig.DBName = "x"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database type")

	cfg.ConnectionConfig.Type = "sqlite3"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, TypeSQLite, cfg.ConnectionConfig.Type)

	cfg.ConnectionConfig.Type = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "host cannot be empty")

	cfg.ConnectionConfig.DBName = ""
	assert.ErrorContains(t, cfg.Validate(), "name cannot be empty")
}

func TestDSN(t *testing.T) {
	cc := DefaultConnectionConfig()
	cc.Host, cc.Port, cc.Username, cc.Password, cc.DBName = "h", 3306, "u", "p@ss", "d"
	cc.TLS = "true"

	dsn := MySQLDSN(cc)
	assert.True(t, strings.HasPrefix(dsn, "u:p@ss@tcp(h:3306)/d?"), dsn)
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tls=true")

	pg := PostgresDSN(cc)
	assert.Equal(t, "postgres://u:p%40ss@h:3306/d?connect_timeout=10&sslmode=disable", pg)

	cc.DBName = ":memory:"
	assert.Equal(t, "file::memory:?cache=shared", SQLiteDSN(cc))
	cc.DBName = "local"
	assert.Equal(t, "file:local.db", SQLiteDSN(cc))
}
