package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nsebot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for the trading agent.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  nsebot config init -o nsebot.yaml
  nsebot config validate -f nsebot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "nsebot.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nSet credentials in the environment, then run:")
	fmt.Printf("  nsebot run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Universe: %d symbols (%d per cycle)\n", len(cfg.Trading.Universe), cfg.Trading.SymbolsPerCycle)
	fmt.Printf("  Portfolio: %.2f (max daily loss %.1f%%, position size %.0f%%)\n",
		cfg.Risk.PortfolioValue, cfg.Risk.MaxDailyLossPct*100, cfg.Risk.PositionSizeFraction*100)
	fmt.Printf("  Ledger: %s\n", cfg.Journal.DBPath)
	return nil
}
