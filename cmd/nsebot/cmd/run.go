package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"nsebot/broker/dhan"
	"nsebot/config"
	"nsebot/engine"
	"nsebot/histcache"
	"nsebot/journal"
	"nsebot/market"
	"nsebot/notify"
	"nsebot/risk"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the trading loop",
	Long: `Start the trading loop using settings from a configuration file.

Broker and email credentials come from the environment (or a .env file):
  DHAN_CLIENT_ID, DHAN_ACCESS_TOKEN,
  NSEBOT_ALERT_EMAIL, NSEBOT_ALERT_PASSWORD

The loop runs until interrupted: one strategy cycle every five minutes
during market hours, hourly wake-ups outside them.

Example:
  nsebot run -f nsebot.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	if cfg.Broker.ClientID == "" || cfg.Broker.AccessToken == "" {
		return fmt.Errorf("broker credentials missing: set %s and %s", config.EnvClientID, config.EnvAccessToken)
	}

	logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	// Timestamped, level-tagged lines in the file, mirrored to stdout.
	slog.SetDefault(slog.New(slog.NewTextHandler(
		io.MultiWriter(logFile, os.Stdout), nil)))

	hours, err := market.NewHours(cfg.Trading.Timezone)
	if err != nil {
		return fmt.Errorf("market hours: %w", err)
	}

	ledger, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	gateway := dhan.New(cfg.Broker.BaseURL, cfg.Broker.ClientID, cfg.Broker.AccessToken)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Notify.Address != "" {
		notifier = notify.NewMailer(cfg.Notify.Host, cfg.Notify.Port, cfg.Notify.Address, cfg.Notify.Password)
	} else {
		slog.Warn("no alert email configured, alerts go to the log only")
	}

	portfolio := decimal.NewFromFloat(cfg.Risk.PortfolioValue)
	riskMgr := risk.NewManager(risk.Policy{
		MaxDailyLossPct:      decimal.NewFromFloat(cfg.Risk.MaxDailyLossPct),
		PositionSizeFraction: decimal.NewFromFloat(cfg.Risk.PositionSizeFraction),
		PortfolioValue:       portfolio,
	}, ledger)

	eng := engine.New(engine.Params{
		Gateway:  gateway,
		Data:     histcache.New(cfg.Cache.Dir, gateway),
		Ledger:   ledger,
		Risk:     riskMgr,
		Notifier: notifier,
		Selector: engine.FixedSelector{
			Universe: cfg.Trading.Universe,
			N:        cfg.Trading.SymbolsPerCycle,
		},
		Hours:     hours,
		Portfolio: portfolio,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("nsebot starting",
		"universe", len(cfg.Trading.Universe),
		"symbols_per_cycle", cfg.Trading.SymbolsPerCycle,
		"portfolio", cfg.Risk.PortfolioValue,
		"max_daily_loss_pct", cfg.Risk.MaxDailyLossPct)

	eng.Loop(ctx)

	slog.Info("nsebot shut down cleanly")
	return nil
}
