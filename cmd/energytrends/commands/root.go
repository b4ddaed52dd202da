package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/energytrends/pkg/config"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "energytrends",
	Short: "Energy Trends quarterly oil supply ETL",
	Long: `Energy Trends ETL CLI

GOV.UK Energy Trends section 3 (oil and oil products) 스프레드시트를
내려받아 Quarter 시트를 long 포맷 CSV로 변환하고 품질 검증합니다.

Usage:
  go run ./cmd/energytrends [command]

Examples:
  go run ./cmd/energytrends run
  go run ./cmd/energytrends run --file ET_3.1.xlsx
  go run ./cmd/energytrends check
  go run ./cmd/energytrends inspect ET_3.1.xlsx
  go run ./cmd/energytrends serve
  go run ./cmd/energytrends scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "pipeline profile YAML (overrides PIPELINE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads env config and applies the global flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return nil, fmt.Errorf("apply profile: %w", err)
		}
	}
	if env != "" {
		switch env {
		case "development", "staging", "production":
			cfg.Env = env
		default:
			return nil, fmt.Errorf("--env must be one of: development, staging, production")
		}
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}
