// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "90s" or "2m" as well as plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
		return nil
	case int:
		*d = Duration(v)
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type ServiceConfig struct {
	// Server: HTTP listener settings
	Server ServerConfig `yaml:"server"`

	// Storage: session and policy persistence
	Storage StorageConfig `yaml:"storage"`

	// Generation: AI question generation backend
	Generation GenerationConfig `yaml:"generation"`

	// Lock: per-session concurrency guard
	Lock LockConfig `yaml:"lock"`

	// Telemetry: tracing and metrics export
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Logging: structured log output
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	ListenAddr      string   `yaml:"listen_addr" validate:"required"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	// Backend can be "badger" or "memory".
	Backend    string   `yaml:"backend" validate:"oneof=badger memory"`
	Dir        string   `yaml:"dir" validate:"required_if=Backend badger"`
	GCInterval Duration `yaml:"gc_interval"`
}

type GenerationConfig struct {
	// Enabled toggles the AI tier. Disabled, sessions run entirely off
	// the question bank and the built-in set.
	Enabled bool `yaml:"enabled"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never goes in the config file.
	APIKeyEnv string `yaml:"api_key_env"`

	Timeout           Duration `yaml:"timeout" validate:"gt=0"`
	RequestsPerSecond float64  `yaml:"requests_per_second" validate:"gt=0"`
}

type LockConfig struct {
	TTL Duration `yaml:"ttl" validate:"gt=0"`
}

type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

type LoggingConfig struct {
	// Level can be "debug", "info", "warn", "error".
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	// Format can be "json" or "text".
	Format string `yaml:"format" validate:"oneof=json text"`
}

func DefaultConfig() ServiceConfig {
	return ServiceConfig{
		Server: ServerConfig{
			ListenAddr:      ":8085",
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Storage: StorageConfig{
			Backend:    "badger",
			Dir:        "/var/lib/mockhire/interview",
			GCInterval: Duration(10 * time.Minute),
		},
		Generation: GenerationConfig{
			Enabled:           true,
			APIKeyEnv:         "MOCKHIRE_OPENAI_API_KEY",
			Timeout:           Duration(8 * time.Second),
			RequestsPerSecond: 5,
		},
		Lock: LockConfig{
			TTL: Duration(2 * time.Minute),
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "mockhire-interview",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
