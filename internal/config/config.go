// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package config

import (
	"time"
)

// DefaultDemoRecordLimit is the free-tier per-collection record ceiling
// applied when no explicit limit is configured.
const DefaultDemoRecordLimit = 50

// DefaultRemoteWriteTimeout bounds every remote create/update/delete.
const DefaultRemoteWriteTimeout = 15 * time.Second

// DefaultShutdownTimeout bounds the graceful drain of in-flight requests on
// server shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// StructuredConfig is the top-level configuration container for the CRM
// record-store service. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the demo record ceiling.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for both record stores: the local SQLite
	// partition store and the remote document database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Auth holds settings for the hosted authentication provider.
	Auth Auth `envPrefix:"AUTH_"`

	// Server holds network address settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after environment
	// variables and flags. Populated via the CONFIG environment variable
	// or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// DemoRecordLimit is the free-tier per-collection record ceiling.
	// Creating a record beyond it fails with a quota error. Values <= 0
	// fall back to [DefaultDemoRecordLimit].
	// Env: APP_DEMO_RECORD_LIMIT
	DemoRecordLimit int `env:"DEMO_RECORD_LIMIT"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for both record stores.
type Storage struct {
	// Local holds the SQLite partition-store settings.
	Local LocalDB `envPrefix:"LOCAL_"`

	// Remote holds the hosted document-database settings.
	Remote RemoteStore `envPrefix:"REMOTE_"`
}

// LocalDB holds connection settings for the local SQLite database backing
// the free-tier partition store.
type LocalDB struct {
	// DSN is the SQLite file path (e.g. "crm-demo.db").
	// Env: STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// RemoteStore holds client settings for the hosted document database.
type RemoteStore struct {
	// BaseURL is the root of the document database's REST surface.
	// Env: STORAGE_REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// WriteTimeout is the fixed deadline raced against every remote write.
	// Values <= 0 fall back to [DefaultRemoteWriteTimeout].
	// Env: STORAGE_REMOTE_WRITE_TIMEOUT
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`
}

// Auth holds client settings for the hosted authentication provider.
type Auth struct {
	// BaseURL is the root of the auth provider's token endpoints.
	// Env: AUTH_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// APIKey identifies this application to the auth provider.
	// Env: AUTH_API_KEY
	APIKey string `env:"API_KEY"`
}

// Server holds network settings for the inbound HTTP transport.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// ShutdownTimeout bounds the graceful drain of in-flight requests on
	// shutdown. Values <= 0 fall back to [DefaultShutdownTimeout].
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}
