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
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tomoncle/exemplar/utils"
	"gopkg.in/yaml.v3"
)

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped; with
// no arguments ".env" is tried.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the YAML file at path (when
// path is not empty), then .env files, then environment variables.
func LoadConfig(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides configuration values from environment variables.
// MYSQL_URI, MYSQL_USER, MYSQL_PASSWORD and MYSQL_DATABASE select mysql.
func (c *Config) ApplyEnv() {
	cc := &c.ConnectionConfig
	cc.Type = utils.EnvDefaultString("DB_TYPE", cc.Type)
	cc.Host = utils.EnvDefaultString("DB_HOST", cc.Host)
	cc.Port = utils.EnvDefaultInt("DB_PORT", cc.Port)
	cc.Username = utils.EnvDefaultString("DB_USERNAME", cc.Username)
	cc.Password = utils.EnvDefaultString("DB_PASSWORD", cc.Password)
	cc.DBName = utils.EnvDefaultString("DB_NAME", cc.DBName)
	cc.SSLMode = utils.EnvDefaultString("DB_SSLMODE", cc.SSLMode)
	cc.TLS = utils.EnvDefaultString("DB_TLS", cc.TLS)
	cc.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cc.EnableQueryLog)
	cc.SlowQueryTime = utils.EnvDefaultDuration("DB_SLOW_QUERY_TIME", cc.SlowQueryTime)
	cc.AutoCreate = utils.EnvDefaultBool("DB_AUTO_CREATE", cc.AutoCreate)

	if uri := utils.EnvDefaultString("MYSQL_URI", ""); uri != "" {
		cc.Type = TypeMySQL
		cc.Host = uri
		if host, port, err := net.SplitHostPort(uri); err == nil {
			cc.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				cc.Port = p
			}
		}
		if cc.TLS == "" {
			cc.TLS = "preferred"
		}
	}
	cc.Username = utils.EnvDefaultString("MYSQL_USER", cc.Username)
	cc.Password = utils.EnvDefaultString("MYSQL_PASSWORD", cc.Password)
	cc.DBName = utils.EnvDefaultString("MYSQL_DATABASE", cc.DBName)

	c.Logging.Level = utils.EnvDefaultString("LOG_LEVEL", c.Logging.Level)
}

// Validate normalizes the database type and checks required settings.
func (c *Config) Validate() error {
	cc := &c.ConnectionConfig
	switch t := strings.ToLower(strings.TrimSpace(cc.Type)); t {
	case "postgresql":
		cc.Type = TypePostgres
	case "sqlite3":
		cc.Type = TypeSQLite
	default:
		cc.Type = t
	}
	if !slices.Contains(SupportedTypes, cc.Type) {
		return fmt.Errorf("unsupported database type: %q, supported types: %v", cc.Type, SupportedTypes)
	}
	if cc.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if cc.Type != TypeSQLite && cc.Host == "" {
		return fmt.Errorf("database host cannot be empty for %s", cc.Type)
	}
	return nil
}

// ConfigLoader implements AbstractDatabaseConfigProvider.
func (c *Config) ConfigLoader() *Config {
	return c
}
