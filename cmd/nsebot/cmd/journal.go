package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nsebot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the trade ledger",
	Long: `Query the trade ledger.

Subcommands:
  trades - List recent trades
  pnl    - Show realized P&L for a calendar date

Examples:
  nsebot journal trades -d data/trades.db -n 20
  nsebot journal pnl -d data/trades.db --date 2025-06-02`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List recent trades",
	RunE:  runJournalTrades,
}

var journalPnLCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show realized P&L for a calendar date",
	RunE:  runJournalPnL,
}

var (
	journalDBPath string
	journalLimit  int
	journalDate   string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalPnLCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to the ledger database (required)")
	journalCmd.MarkPersistentFlagRequired("db")

	journalTradesCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of trades to list")
	journalPnLCmd.Flags().StringVar(&journalDate, "date", "", "calendar date (YYYY-MM-DD, default today)")
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	led, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer led.Close()

	trades, err := led.RecentTrades(journalLimit)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	if len(trades) == 0 {
		fmt.Println("No trades recorded.")
		return nil
	}

	fmt.Printf("%-20s %-12s %-5s %8s %12s %12s %s\n",
		"TIME", "SYMBOL", "SIDE", "QTY", "PRICE", "PROFIT", "ORDER")
	for _, t := range trades {
		fmt.Printf("%-20s %-12s %-5s %8d %12s %12s %s\n",
			t.Timestamp.Format("2006-01-02 15:04:05"),
			t.Symbol, t.Action, t.Quantity, t.Price, t.Profit, t.OrderID)
	}
	return nil
}

func runJournalPnL(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if journalDate != "" {
		var err error
		day, err = time.Parse("2006-01-02", journalDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
	}

	led, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer led.Close()

	pnl, err := led.DailyRealizedPnL(day)
	if err != nil {
		return fmt.Errorf("daily pnl: %w", err)
	}

	trades, err := led.ListTradesOn(day)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	fmt.Printf("Realized P&L for %s: %s (%d trades)\n",
		day.Format("2006-01-02"), pnl, len(trades))
	return nil
}
