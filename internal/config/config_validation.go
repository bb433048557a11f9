// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package config

import "strings"

// applyDefaults fills settings that have documented fallbacks and were left
// unset by every configuration source.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.DemoRecordLimit <= 0 {
		cfg.App.DemoRecordLimit = DefaultDemoRecordLimit
	}
	if cfg.Storage.Remote.WriteTimeout <= 0 {
		cfg.Storage.Remote.WriteTimeout = DefaultRemoteWriteTimeout
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.Local.DSN == "" || strings.Contains(cfg.Storage.Local.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Remote.BaseURL == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Auth.BaseURL == "" {
		return ErrInvalidAuthConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
