package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nsebot",
	Short: "An automated NSE equities trading agent",
	Long: `Nsebot is an automated equities trading agent for the NSE session.

It polls the brokerage for price history, derives signals from
moving-average crossovers, sizes and places orders behind a daily-loss
circuit breaker, journals every executed trade and alerts the operator
on state changes.

Commands:
  run      - Start the trading loop
  config   - Generate or validate configuration files
  journal  - Inspect the trade ledger
  version  - Print the version number`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
