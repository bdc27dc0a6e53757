package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Planner.MaxExpansions != 2000 || cfg.Planner.MaxDepth != 50 {
			t.Errorf("Unexpected planner defaults: %+v", cfg.Planner)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Expected default log level info, got %q", cfg.Log.Level)
		}
	})

	t.Run("Empty path uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Telemetry.JobName != "hexplan_pusher" {
			t.Errorf("Unexpected default job name %q", cfg.Telemetry.JobName)
		}
	})

	t.Run("File values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := "planner:\n  max_expansions: 99\nlog:\n  level: debug\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Planner.MaxExpansions != 99 {
			t.Errorf("Expected 99 expansions, got %d", cfg.Planner.MaxExpansions)
		}
		// Unset keys keep their defaults.
		if cfg.Planner.MaxDepth != 50 {
			t.Errorf("Expected default max_depth 50, got %d", cfg.Planner.MaxDepth)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Expected debug, got %q", cfg.Log.Level)
		}
	})

	t.Run("Environment variables are interpolated", func(t *testing.T) {
		t.Setenv("HEXPLAN_TEST_TOKEN", "s3cret")
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := "telemetry:\n  influx_token: ${HEXPLAN_TEST_TOKEN}\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Telemetry.InfluxToken != "s3cret" {
			t.Errorf("Expected interpolated token, got %q", cfg.Telemetry.InfluxToken)
		}
	})

	t.Run("Malformed YAML is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("planner: [not a map"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("Expected a parse error")
		}
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		cfg := DefaultConfig()
		cfg.Planner.MaxExpansions = 123
		cfg.Telemetry.PushgatewayURL = "http://localhost:9091"

		if err := SaveConfig(cfg, path); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}
		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Planner.MaxExpansions != 123 {
			t.Errorf("Expected 123, got %d", loaded.Planner.MaxExpansions)
		}
		if loaded.Telemetry.PushgatewayURL != "http://localhost:9091" {
			t.Errorf("Unexpected pushgateway URL %q", loaded.Telemetry.PushgatewayURL)
		}
	})
}
