package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danmarmu/trading-journal-app/model"
)

// complianceFlags are the editable entry fields. Only flags given on the
// command line are applied.
type complianceFlags struct {
	date, grade                 string
	startBal, endBal, manualDD  string
	withdrew                    bool
	withdrawal, withdrawalNotes string
	violations, notes           string

	dailyMaxLoss, trailing, positionSize, hours, stopRule bool
}

func (f *complianceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.date, "date", "", "entry date (YYYY-MM-DD)")
	fs.StringVar(&f.grade, "grade", "", "compliance grade A|B|C|D|F")
	fs.StringVar(&f.startBal, "start-bal", "", "starting balance")
	fs.StringVar(&f.endBal, "end-bal", "", "ending balance")
	fs.StringVar(&f.manualDD, "manual-dd", "", "drawdown remaining reported by the firm")
	fs.BoolVar(&f.withdrew, "withdrew", false, "funds were withdrawn this day")
	fs.StringVar(&f.withdrawal, "withdrawal", "", "withdrawal amount")
	fs.StringVar(&f.withdrawalNotes, "withdrawal-notes", "", "withdrawal notes")
	fs.StringVar(&f.violations, "violations", "", "rule violations")
	fs.StringVar(&f.notes, "notes", "", "notes")
	fs.BoolVar(&f.dailyMaxLoss, "daily-max-loss-ok", false, "stayed within the daily max loss")
	fs.BoolVar(&f.trailing, "trailing-ok", false, "stayed within the trailing drawdown")
	fs.BoolVar(&f.positionSize, "position-size-ok", false, "followed position size rules")
	fs.BoolVar(&f.hours, "hours-ok", false, "followed trading hours")
	fs.BoolVar(&f.stopRule, "stop-rule-ok", true, "followed the 11 AM stop rule")
}

func (f *complianceFlags) validate(cmd *cobra.Command) error {
	if cmd.Flags().Changed("date") {
		if err := checkDate("date", f.date); err != nil {
			return err
		}
	}
	if f.grade != "" && !model.Grade(f.grade).Valid() {
		return fmt.Errorf("unknown grade %q", f.grade)
	}
	return nil
}

func (f *complianceFlags) apply(cmd *cobra.Command, c *model.ComplianceEntry) {
	changed := cmd.Flags().Changed
	str := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	flag := func(name string, dst *bool, v bool) {
		if changed(name) {
			*dst = v
		}
	}

	str("date", &c.Date, f.date)
	str("start-bal", &c.StartingBalance, f.startBal)
	str("end-bal", &c.EndingBalance, f.endBal)
	str("manual-dd", &c.ManualDrawdownRemaining, f.manualDD)
	str("withdrawal", &c.WithdrawalAmount, f.withdrawal)
	str("withdrawal-notes", &c.WithdrawalNotes, f.withdrawalNotes)
	str("violations", &c.Violations, f.violations)
	str("notes", &c.Notes, f.notes)
	if changed("grade") {
		c.ComplianceGrade = model.Grade(f.grade)
	}

	flag("withdrew", &c.WithdrewFunds, f.withdrew)
	flag("daily-max-loss-ok", &c.StayedWithinDailyMaxLoss, f.dailyMaxLoss)
	flag("trailing-ok", &c.StayedWithinTrailingDrawdown, f.trailing)
	flag("position-size-ok", &c.FollowedPositionSize, f.positionSize)
	flag("hours-ok", &c.FollowedTradingHours, f.hours)
	flag("stop-rule-ok", &c.FollowedStopRule11, f.stopRule)
}

func newComplianceCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Record the daily compliance ledger of an account",
		Long: `Record one entry per trading day with balances, rule adherence and withdrawals.

The daily P/L is derived from the balances and any withdrawal.

Examples:
  propjournal compliance today <account-id> --start-bal 50000 --end-bal 49250 --grade B
  propjournal compliance set <entry-id> --withdrew --withdrawal 1000
  propjournal compliance ls <account-id>
  propjournal compliance clear <account-id>`,
	}

	cmd.AddCommand(
		newComplianceTodayCmd(rc),
		newComplianceSetCmd(rc),
		&cobra.Command{
			Use:   "rm <entry-id>",
			Short: "Remove a compliance entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.DeleteCompliance(ctx(cmd), args[0]); err != nil {
					return fmt.Errorf("remove entry: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed compliance entry %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <account-id>",
			Short: "Remove every compliance entry of an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				n, err := s.DeleteAllCompliance(ctx(cmd), args[0])
				if err != nil {
					return fmt.Errorf("clear entries: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", plural(n, "compliance entry", "compliance entries"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls <account-id>",
			Short: "List an account's entries, newest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tGRADE\tSTART\tEND\tP/L\tWITHDRAWAL\tMANUAL DD\tVIOLATIONS")
				for _, c := range s.Compliance(args[0]) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						c.ID, c.Date, c.ComplianceGrade, c.StartingBalance, c.EndingBalance,
						c.DailyPnL, c.WithdrawalAmount, c.ManualDrawdownRemaining, c.Violations)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}

func newComplianceTodayCmd(rc *RootConfig) *cobra.Command {
	var f complianceFlags

	cmd := &cobra.Command{
		Use:   "today <account-id>",
		Short: "Add an entry for today (or --date)",
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

			c, err := s.AddCompliance(ctx(cmd), args[0], model.Today(), func(c *model.ComplianceEntry) { f.apply(cmd, c) })
			if err != nil {
				return fmt.Errorf("add entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added compliance entry %s for %s (P/L %s)\n", c.ID, c.Date, c.DailyPnL)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newComplianceSetCmd(rc *RootConfig) *cobra.Command {
	var f complianceFlags

	cmd := &cobra.Command{
		Use:   "set <entry-id>",
		Short: "Edit a compliance entry",
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

			c, err := s.UpdateCompliance(ctx(cmd), args[0], func(c *model.ComplianceEntry) { f.apply(cmd, c) })
			if err != nil {
				return fmt.Errorf("update entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated compliance entry %s (P/L %s)\n", c.ID, c.DailyPnL)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
