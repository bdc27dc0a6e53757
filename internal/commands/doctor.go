package commands

import (
	"fmt"

	"upside-down-research.com/oss/hexplan/internal/config"
	"upside-down-research.com/oss/hexplan/internal/validation"
)

// DoctorCommand runs configuration diagnostics
type DoctorCommand struct {
	Config string `name:"config" help:"Configuration file path" type:"path"`
}

// Run executes the doctor command
func (cmd *DoctorCommand) Run() error {
	fmt.Println("🏥 Running hexplan diagnostics...")
	fmt.Println()

	allOk := true

	cfg, err := config.LoadConfig(cmd.Config)
	if err != nil {
		fmt.Printf("❌ Config: %v\n", err)
		allOk = false
	} else {
		result := validation.ValidateConfig(cfg)
		if result.IsValid() {
			fmt.Println("✓ Configuration: valid")
		} else {
			fmt.Println("❌ Configuration: has errors")
			for _, e := range result.Errors {
				fmt.Printf("  • %s\n", e.Error())
			}
			allOk = false
		}
		if len(result.Warnings) > 0 {
			fmt.Println("⚠️  Configuration: has warnings")
			for _, w := range result.Warnings {
				fmt.Printf("  • %s: %s\n", w.Field, w.Message)
			}
		}

		fmt.Printf("✓ Planner budget: %d expansions, depth %d\n",
			cfg.Planner.MaxExpansions, cfg.Planner.MaxDepth)

		switch {
		case cfg.Telemetry.PushgatewayURL == "" && cfg.Telemetry.InfluxURL == "":
			fmt.Println("• Telemetry: disabled (no sinks configured)")
		default:
			if cfg.Telemetry.PushgatewayURL != "" {
				fmt.Printf("✓ Pushgateway sink: %s (job %s)\n",
					cfg.Telemetry.PushgatewayURL, cfg.Telemetry.JobName)
			}
			if cfg.Telemetry.InfluxURL != "" {
				fmt.Printf("✓ InfluxDB sink: %s (org %s, bucket %s)\n",
					cfg.Telemetry.InfluxURL, cfg.Telemetry.InfluxOrg, cfg.Telemetry.InfluxBucket)
			}
		}
	}

	fmt.Println()
	if !allOk {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("✓ All checks passed")
	return nil
}
