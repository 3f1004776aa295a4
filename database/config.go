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
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var configValidator = validator.New()

// LoadConfig reads a YAML/JSON/TOML configuration file on top of
// DefaultConfig, applies DB_* environment overrides and validates the result.
// An empty path skips the file.
//
//	connection:
//	  type: postgres
//	  host: 127.0.0.1
//	  port: 5432
//	  dbname: app
//	  slow_query_time: 500ms
//	bootstrap:
//	  auto_create_tables: true
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides configuration values from DB_* environment variables.
// Durations use Go syntax, e.g. DB_CONN_MAX_LIFETIME=30m.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process("", &cfg.ConnectionConfig); err != nil {
		return fmt.Errorf("failed to load connection config from env: %w", err)
	}
	if err := envconfig.Process("", &cfg.BootstrapConfig); err != nil {
		return fmt.Errorf("failed to load bootstrap config from env: %w", err)
	}
	return nil
}

// ValidateConfig checks that the connection settings are usable.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("database configuration cannot be empty")
	}
	err := configValidator.Struct(cfg.ConnectionConfig)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid database configuration: %s", strings.Join(msgs, ", "))
}
