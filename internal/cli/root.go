package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/danmarmu/trading-journal-app/book"
	"github.com/danmarmu/trading-journal-app/config"
	"github.com/danmarmu/trading-journal-app/internal/logging"
	"github.com/danmarmu/trading-journal-app/store"
)

const version = "1.0.0"

// RootConfig holds the persistent flags shared by every command.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	StoreType  string
	LogLevel   string
}

// load resolves the configuration: config file and environment first,
// then any persistent flags that were given.
func (rc *RootConfig) load() (*config.Config, error) {
	cfg, err := config.LoadFromFile(rc.ConfigPath)
	if err != nil {
		return nil, err
	}
	if rc.StoreType != "" {
		if rc.DBPath == "" && cfg.Store.Path == config.DefaultPath(cfg.Store.Type) {
			cfg.Store.Path = config.DefaultPath(rc.StoreType)
		}
		cfg.Store.Type = rc.StoreType
	}
	if rc.DBPath != "" {
		cfg.Store.Path = rc.DBPath
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// session is an open journal for the duration of one command.
type session struct {
	*book.Book
	store  *store.Store
	logger *log.Logger
}

func (rc *RootConfig) open(cmd *cobra.Command) (*session, error) {
	cfg, err := rc.load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log, cmd.ErrOrStderr())

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	b, err := book.Open(ctx(cmd), st, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &session{Book: b, store: st, logger: logger}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "propjournal",
		Short: "Prop-firm trading journal and account reports",
		Long: `Propjournal keeps a trading journal for prop-firm accounts.

It provides tools for:
  - Tracking firms, accounts and their drawdown limits
  - Recording a daily compliance ledger per account
  - Writing daily trading plans
  - Reporting balances, drawdown cushions and withdrawals, optionally as of a past date
  - Firm and global totals with charts exported as CSV or XLSX
  - Warning when an account's drawdown cushion runs low`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "Journal data path (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.StoreType, "store", "", "Store backend: sqlite|file|badger (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.AddCommand(
		newFirmCmd(rc),
		newAccountCmd(rc),
		newComplianceCmd(rc),
		newJournalCmd(rc),
		newReportCmd(rc),
		newTotalsCmd(rc),
		newSeriesCmd(rc),
		newAlertCmd(rc),
		newDashboardCmd(rc),
		newBackupCmd(rc),
		newConfigCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propjournal version %s\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
