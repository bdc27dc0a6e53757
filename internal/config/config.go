// Package config loads the engine's runtime configuration: search budgets,
// telemetry endpoints and log level. Priority: CLI flags > environment
// variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Planner   PlannerConfig   `yaml:"planner"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// PlannerConfig bounds every search so cyclic action spaces terminate.
type PlannerConfig struct {
	MaxExpansions int `yaml:"max_expansions"`
	MaxDepth      int `yaml:"max_depth"`
}

// TelemetryConfig holds metric sink endpoints. Empty URLs disable the sink.
type TelemetryConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	JobName        string `yaml:"job_name"`
	InfluxURL      string `yaml:"influx_url"`
	InfluxToken    string `yaml:"influx_token"` // supports ${ENV_VAR} interpolation
	InfluxOrg      string `yaml:"influx_org"`
	InfluxBucket   string `yaml:"influx_bucket"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			MaxExpansions: 2000,
			MaxDepth:      50,
		},
		Telemetry: TelemetryConfig{
			JobName:      "hexplan_pusher",
			InfluxOrg:    "hexplan",
			InfluxBucket: "plans",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExampleConfig returns a commented example config
func ExampleConfig() string {
	return `# hexplan configuration file
# Priority: CLI flags > environment variables > config file > defaults

planner:
  # Maximum A* node expansions per planning call
  max_expansions: 2000

  # Maximum plan depth (actions per plan)
  max_depth: 50

telemetry:
  # Prometheus pushgateway; empty disables metric pushes
  pushgateway_url: ""
  job_name: hexplan_pusher

  # InfluxDB sink for per-plan points; empty URL disables it
  influx_url: ""
  influx_token: ${INFLUX_TOKEN}
  influx_org: hexplan
  influx_bucket: plans

log:
  # debug, info, warn, error
  level: info
`
}
