// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, envVars map[string]string) {
	t.Helper()
	for k, v := range envVars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_DEMO_RECORD_LIMIT": "25",
		"APP_VERSION":           "1.4.0",

		"SERVER_ADDRESS":          "localhost:8080",
		"SERVER_SHUTDOWN_TIMEOUT": "10s",

		// Storage has nested prefixes: STORAGE_ + LOCAL_ / REMOTE_
		"STORAGE_LOCAL_DSN":            "crm-demo.db",
		"STORAGE_REMOTE_BASE_URL":      "https://docs.example.com",
		"STORAGE_REMOTE_WRITE_TIMEOUT": "15s",

		"AUTH_BASE_URL": "https://auth.example.com",
		"AUTH_API_KEY":  "key-123",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, 25, cfg.App.DemoRecordLimit)
	assert.Equal(t, "1.4.0", cfg.App.Version)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "crm-demo.db", cfg.Storage.Local.DSN)
	assert.Equal(t, "https://docs.example.com", cfg.Storage.Remote.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Storage.Remote.WriteTimeout)

	assert.Equal(t, "https://auth.example.com", cfg.Auth.BaseURL)
	assert.Equal(t, "key-123", cfg.Auth.APIKey)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"SERVER_ADDRESS": "localhost:8080",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Zero(t, cfg.App.DemoRecordLimit)
	assert.Empty(t, cfg.Storage.Local.DSN)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultDemoRecordLimit, cfg.App.DemoRecordLimit)
	assert.Equal(t, DefaultRemoteWriteTimeout, cfg.Storage.Remote.WriteTimeout)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
}

func TestApplyDefaults_ExplicitValuesKept(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.App.DemoRecordLimit = 2
	cfg.Storage.Remote.WriteTimeout = 5 * time.Second
	cfg.applyDefaults()

	assert.Equal(t, 2, cfg.App.DemoRecordLimit)
	assert.Equal(t, 5*time.Second, cfg.Storage.Remote.WriteTimeout)
}

func TestValidate(t *testing.T) {
	valid := &StructuredConfig{
		Storage: Storage{
			Local:  LocalDB{DSN: "crm-demo.db"},
			Remote: RemoteStore{BaseURL: "https://docs.example.com"},
		},
		Auth:   Auth{BaseURL: "https://auth.example.com"},
		Server: Server{HTTPAddress: "localhost:8080"},
	}
	require.NoError(t, valid.validate())

	inMemory := *valid
	inMemory.Storage.Local.DSN = ":memory:"
	assert.ErrorIs(t, inMemory.validate(), ErrInvalidStorageConfigs)

	noAuth := *valid
	noAuth.Auth.BaseURL = ""
	assert.ErrorIs(t, noAuth.validate(), ErrInvalidAuthConfigs)

	noServer := *valid
	noServer.Server.HTTPAddress = ""
	assert.ErrorIs(t, noServer.validate(), ErrInvalidServerConfigs)
}
