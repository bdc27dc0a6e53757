package validation

import (
	"testing"

	"upside-down-research.com/oss/hexplan/internal/config"
)

func TestValidateConfig(t *testing.T) {
	t.Run("Defaults are valid", func(t *testing.T) {
		result := ValidateConfig(config.DefaultConfig())
		if !result.IsValid() {
			t.Errorf("Default config should validate, got %v", result.Errors)
		}
	})

	t.Run("Zero expansion budget is an error", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Planner.MaxExpansions = 0
		result := ValidateConfig(cfg)
		if result.IsValid() {
			t.Error("Expected an error for a zero expansion budget")
		}
	})

	t.Run("Unknown log level is an error", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Log.Level = "loud"
		result := ValidateConfig(cfg)
		if result.IsValid() {
			t.Error("Expected an error for an unknown log level")
		}
	})

	t.Run("Malformed sink URL is an error", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Telemetry.PushgatewayURL = "localhost:9091" // no scheme
		result := ValidateConfig(cfg)
		if result.IsValid() {
			t.Error("Expected an error for a scheme-less pushgateway URL")
		}
	})

	t.Run("Influx sink without a token warns", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Telemetry.InfluxURL = "http://localhost:8086"
		cfg.Telemetry.InfluxOrg = "ops"
		cfg.Telemetry.InfluxBucket = "plans"
		result := ValidateConfig(cfg)
		if !result.IsValid() {
			t.Fatalf("Expected only warnings, got errors %v", result.Errors)
		}
		if len(result.Warnings) == 0 {
			t.Error("Expected a warning for the missing token")
		}
	})
}
