package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danmarmu/trading-journal-app/book"
	"github.com/danmarmu/trading-journal-app/model"
)

// journalFlags are the editable plan fields. Only flags given on the
// command line are applied.
type journalFlags struct {
	date, focus, hardStop, keyLevels, news string
	dailyMaxLoss, setups, maxTrades, risk  string
}

func (f *journalFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.date, "date", "", "plan date (YYYY-MM-DD)")
	fs.StringVar(&f.focus, "focus", "", "focus for the session")
	fs.StringVar(&f.hardStop, "hard-stop", "", "hard stop time")
	fs.StringVar(&f.keyLevels, "key-levels", "", "key levels")
	fs.StringVar(&f.news, "news", "", "news events")
	fs.StringVar(&f.dailyMaxLoss, "daily-max-loss", "", "daily max loss rule")
	fs.StringVar(&f.setups, "setups", "", "allowed setups")
	fs.StringVar(&f.maxTrades, "max-trades", "", "max trades")
	fs.StringVar(&f.risk, "max-risk", "", "max risk per trade")
}

func (f *journalFlags) validate(cmd *cobra.Command) error {
	if cmd.Flags().Changed("date") {
		return checkDate("date", f.date)
	}
	return nil
}

func (f *journalFlags) apply(cmd *cobra.Command, j *model.JournalEntry) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("date", &j.Date, f.date)
	set("focus", &j.Focus, f.focus)
	set("hard-stop", &j.HardStopTime, f.hardStop)
	set("key-levels", &j.KeyLevels, f.keyLevels)
	set("news", &j.NewsEvents, f.news)
	set("daily-max-loss", &j.TradingRules.DailyMaxLoss, f.dailyMaxLoss)
	set("setups", &j.TradingRules.AllowedSetups, f.setups)
	set("max-trades", &j.TradingRules.MaxTrades, f.maxTrades)
	set("max-risk", &j.TradingRules.MaxRiskPerTrade, f.risk)
}

func newJournalCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write daily trading plans",
		Long: `Write a trading plan per day: focus, key levels, news and the day's rules.

Examples:
  propjournal journal today --focus "ES opening range" --max-trades 3
  propjournal journal set <journal-id> --hard-stop "10:30 AM"
  propjournal journal ls --from 2024-01-01 --search vwap`,
	}

	cmd.AddCommand(
		newJournalTodayCmd(rc),
		newJournalSetCmd(rc),
		&cobra.Command{
			Use:   "rm <journal-id>",
			Short: "Remove a journal entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.DeleteJournal(ctx(cmd), args[0]); err != nil {
					return fmt.Errorf("remove journal: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed journal entry %s\n", args[0])
				return nil
			},
		},
		newJournalLsCmd(rc),
	)
	return cmd
}

func newJournalTodayCmd(rc *RootConfig) *cobra.Command {
	var f journalFlags

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Add a plan for today (or --date)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(cmd); err != nil {
				return err
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			j, err := s.AddJournal(ctx(cmd), model.Today(), func(j *model.JournalEntry) { f.apply(cmd, j) })
			if err != nil {
				return fmt.Errorf("add journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added journal entry %s for %s\n", j.ID, j.Date)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newJournalSetCmd(rc *RootConfig) *cobra.Command {
	var f journalFlags

	cmd := &cobra.Command{
		Use:   "set <journal-id>",
		Short: "Edit a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(cmd); err != nil {
				return err
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			j, err := s.UpdateJournal(ctx(cmd), args[0], func(j *model.JournalEntry) { f.apply(cmd, j) })
			if err != nil {
				return fmt.Errorf("update journal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated journal entry %s\n", j.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newJournalLsCmd(rc *RootConfig) *cobra.Command {
	var filter book.JournalFilter

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.From != "" {
				if err := checkDate("from", filter.From); err != nil {
					return err
				}
			}
			if filter.To != "" {
				if err := checkDate("to", filter.To); err != nil {
					return err
				}
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tHARD STOP\tFOCUS\tMAX TRADES\tSETUPS")
			for _, j := range s.Journals(filter) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					j.ID, j.Date, j.HardStopTime, j.Focus, j.TradingRules.MaxTrades, j.TradingRules.AllowedSetups)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.From, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.To, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.Query, "search", "", "case-insensitive text filter")
	return cmd
}
