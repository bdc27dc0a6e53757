// Package validation checks a loaded configuration for mistakes that would
// otherwise surface mid-simulation: impossible search budgets, unreadable
// log levels, half-configured telemetry sinks.
package validation

import (
	"fmt"
	"net/url"

	"upside-down-research.com/oss/hexplan/internal/config"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
	Fix     string // Suggested fix
}

func (e ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Message)
	if e.Fix != "" {
		msg += fmt.Sprintf("\n  Fix: %s", e.Fix)
	}
	return msg
}

// ValidationResult holds validation results
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors
func (v *ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

// AddError adds a validation error
func (v *ValidationResult) AddError(field, message, fix string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
		Fix:     fix,
	})
}

// AddWarning adds a validation warning
func (v *ValidationResult) AddWarning(field, message, fix string) {
	v.Warnings = append(v.Warnings, ValidationError{
		Field:   field,
		Message: message,
		Fix:     fix,
	})
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}

	// Planner budgets
	if cfg.Planner.MaxExpansions < 1 {
		result.AddError("planner.max_expansions",
			"must be at least 1",
			"set planner.max_expansions to a positive number")
	}
	if cfg.Planner.MaxDepth < 0 {
		result.AddError("planner.max_depth",
			"must not be negative",
			"set planner.max_depth to 0 (unlimited) or a positive number")
	}
	if cfg.Planner.MaxExpansions > 1_000_000 {
		result.AddWarning("planner.max_expansions",
			fmt.Sprintf("budget of %d will stall a game loop", cfg.Planner.MaxExpansions),
			"keep per-turn budgets in the low thousands")
	}

	// Log level
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		result.AddError("log.level",
			fmt.Sprintf("unknown level '%s'", cfg.Log.Level),
			"use one of: debug, info, warn, error")
	}

	// Telemetry sinks: each is optional, but a half-configured sink is a
	// likely typo.
	if cfg.Telemetry.PushgatewayURL != "" {
		if !isHTTPURL(cfg.Telemetry.PushgatewayURL) {
			result.AddError("telemetry.pushgateway_url",
				fmt.Sprintf("'%s' is not an http(s) URL", cfg.Telemetry.PushgatewayURL),
				"use e.g. http://localhost:9091")
		}
		if cfg.Telemetry.JobName == "" {
			result.AddWarning("telemetry.job_name",
				"pushgateway configured without a job name",
				"set telemetry.job_name so pushes are attributable")
		}
	}
	if cfg.Telemetry.InfluxURL != "" {
		if !isHTTPURL(cfg.Telemetry.InfluxURL) {
			result.AddError("telemetry.influx_url",
				fmt.Sprintf("'%s' is not an http(s) URL", cfg.Telemetry.InfluxURL),
				"use e.g. http://localhost:8086")
		}
		if cfg.Telemetry.InfluxToken == "" {
			result.AddWarning("telemetry.influx_token",
				"InfluxDB sink configured without a token",
				"export INFLUX_TOKEN=... (the config interpolates ${INFLUX_TOKEN})")
		}
		if cfg.Telemetry.InfluxOrg == "" || cfg.Telemetry.InfluxBucket == "" {
			result.AddError("telemetry.influx_org",
				"InfluxDB sink needs both an org and a bucket",
				"set telemetry.influx_org and telemetry.influx_bucket")
		}
	} else if cfg.Telemetry.InfluxToken != "" {
		result.AddWarning("telemetry.influx_url",
			"influx_token is set but influx_url is empty; the sink stays disabled",
			"set telemetry.influx_url to enable it")
	}

	return result
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
