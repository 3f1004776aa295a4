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
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager defines the operations for managing a database
// connection, creating registered tables, and reporting health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Reconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	CreateTables(ctx context.Context) error
	GetStats() *DBStats
	SetLogger(logger Logger)
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// ConnectionConfig describes how to connect to a database and tune its pool.
// Every field can be overridden from DB_* environment variables.
type ConnectionConfig struct {
	Type                string        `mapstructure:"type" envconfig:"DB_TYPE" validate:"required,oneof=mysql postgres postgresql sqlite sqlite3"`
	// Driver selects the PostgreSQL driver: pgx (default) or pq.
	Driver              string        `mapstructure:"driver" envconfig:"DB_DRIVER" validate:"omitempty,oneof=pgx pq"`
	Host                string        `mapstructure:"host" envconfig:"DB_HOST"`
	Port                int           `mapstructure:"port" envconfig:"DB_PORT" validate:"gte=0,lte=65535"`
	Username            string        `mapstructure:"username" envconfig:"DB_USERNAME"`
	Password            string        `mapstructure:"password" envconfig:"DB_PASSWORD"`
	DBName              string        `mapstructure:"dbname" envconfig:"DB_NAME" validate:"required"`
	SSLMode             string        `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	MaxOpenConns        int           `mapstructure:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	ConnMaxLifetime     time.Duration `mapstructure:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime     time.Duration `mapstructure:"conn_max_idle_time" envconfig:"DB_CONN_MAX_IDLE_TIME"`
	ConnectTimeout      time.Duration `mapstructure:"connect_timeout" envconfig:"DB_CONNECT_TIMEOUT"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout" envconfig:"DB_READ_TIMEOUT"`
	WriteTimeout        time.Duration `mapstructure:"write_timeout" envconfig:"DB_WRITE_TIMEOUT"`
	EnableReconnect     bool          `mapstructure:"enable_reconnect" envconfig:"DB_ENABLE_RECONNECT"`
	ReconnectInterval   time.Duration `mapstructure:"reconnect_interval" envconfig:"DB_RECONNECT_INTERVAL"`
	MaxReconnectTries   int           `mapstructure:"max_reconnect_tries" envconfig:"DB_MAX_RECONNECT_TRIES"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval" envconfig:"DB_HEALTH_CHECK_INTERVAL"`
	EnableQueryLog      bool          `mapstructure:"enable_query_log" envconfig:"DB_ENABLE_QUERY_LOG"`
	SlowQueryTime       time.Duration `mapstructure:"slow_query_time" envconfig:"DB_SLOW_QUERY_TIME"`
	TraceErrors         bool          `mapstructure:"trace_errors" envconfig:"DB_TRACE_ERRORS"`
	Charset             string        `mapstructure:"charset" envconfig:"DB_CHARSET"` // MySQL:utf8mb4
}

// BootstrapConfig controls what happens right after connecting.
type BootstrapConfig struct {
	// AutoCreateTables creates the tables of registered models if missing.
	AutoCreateTables bool `mapstructure:"auto_create_tables" envconfig:"DB_AUTO_CREATE_TABLES"`
}

// Config aggregates connection and bootstrap settings.
type Config struct {
	ConnectionConfig ConnectionConfig `mapstructure:"connection"`
	BootstrapConfig  BootstrapConfig  `mapstructure:"bootstrap"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Driver:              "pgx",
		MaxIdleConns:        10,
		MaxOpenConns:        100,
		ConnMaxLifetime:     time.Hour,
		ConnMaxIdleTime:     time.Minute * 30,
		ConnectTimeout:      time.Second * 10,
		ReadTimeout:         time.Second * 30,
		WriteTimeout:        time.Second * 30,
		EnableReconnect:     true,
		ReconnectInterval:   time.Second * 5,
		MaxReconnectTries:   3,
		HealthCheckInterval: time.Minute * 5,
		EnableQueryLog:      false,
		SlowQueryTime:       time.Second * 2,
		Charset:             "utf8mb4",
	}
}

// DefaultConfig returns a Config with DefaultConnectionConfig settings.
func DefaultConfig() *Config {
	return &Config{ConnectionConfig: *DefaultConnectionConfig()}
}
