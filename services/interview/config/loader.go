// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the interview service configuration: defaults,
// then an optional YAML file, then MOCKHIRE_* environment overrides for
// the settings that differ per deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration.
//
// Inputs:
//
//	path - YAML file path. Empty skips the file layer; a named file that
//	       does not exist is an error.
//
// Outputs:
//
//	*ServiceConfig - Validated configuration.
//	error - Non-nil for unreadable YAML, bad override values, or a
//	config that fails struct validation.
func Load(path string) (*ServiceConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides layers MOCKHIRE_* variables over the loaded values.
func applyEnvOverrides(cfg *ServiceConfig) error {
	if v := os.Getenv("MOCKHIRE_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("MOCKHIRE_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("MOCKHIRE_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("MOCKHIRE_GENERATION_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MOCKHIRE_GENERATION_ENABLED: %w", err)
		}
		cfg.Generation.Enabled = b
	}
	if v := os.Getenv("MOCKHIRE_GENERATION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MOCKHIRE_GENERATION_TIMEOUT: %w", err)
		}
		cfg.Generation.Timeout = Duration(d)
	}
	if v := os.Getenv("MOCKHIRE_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
		cfg.Telemetry.Enabled = true
	}
	if v := os.Getenv("MOCKHIRE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// APIKey resolves the generation API key from the configured variable.
func (g GenerationConfig) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}
