package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danmarmu/trading-journal-app/aggregate"
	"github.com/danmarmu/trading-journal-app/alert"
	"github.com/danmarmu/trading-journal-app/export"
	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/numeric"
	"github.com/danmarmu/trading-journal-app/report"
)

func newReportCmd(rc *RootConfig) *cobra.Command {
	var (
		filter report.Filter
		asOf   string
		org    bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Account balances and drawdown cushions",
		Long: `Show each account's balance, high-water mark, withdrawals and the remaining
overall and trailing drawdown, optionally as of a past date.

Examples:
  propjournal report
  propjournal report --as-of 2024-03-31 --search apex
  propjournal report --account <account-id> --org`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("as-of") {
				if err := checkDate("as-of", asOf); err != nil {
					return err
				}
				filter.AsOf = ledger.UpTo(asOf)
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rows := report.Rows(s.Snapshot(), filter)
			out := cmd.OutOrStdout()
			if org {
				fmt.Fprintln(out, export.FormatRowsOrg(rows))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "FIRM\tACCOUNT\tAS OF\tBALANCE\tHIGH\tWITHDRAWN\tPROFIT\tOVERALL LEFT\tTRAILING LEFT\t")
			for _, r := range rows {
				asOf := r.AsOfDate
				if asOf == "" {
					asOf = "—"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					r.FirmName, r.AccountName, asOf,
					numeric.Money(r.CurrentBalance), numeric.Money(r.HighWaterMark),
					numeric.Money(r.TotalWithdrawals), numeric.Money(r.ProfitInclWithdrawals),
					numeric.Money(r.OverallRemaining), numeric.Money(r.TrailingRemaining))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, r := range rows {
				if r.MissingLimits {
					fmt.Fprintf(out, "tip: %s is missing its initial balance or a limit\n", r.AccountName)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.AccountID, "account", "", "only this account id")
	cmd.Flags().StringVar(&filter.Query, "search", "", "case-insensitive filter on firm, account, type and platform")
	cmd.Flags().StringVar(&asOf, "as-of", "", "report as of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&org, "org", false, "print org-mode headings")
	return cmd
}

func newTotalsCmd(rc *RootConfig) *cobra.Command {
	var (
		firmID  string
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Per-firm and global totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			t := aggregate.Aggregate(s.Snapshot(), firmID)
			if csvPath != "" {
				return writeFile(cmd, csvPath, func(w io.Writer) error { return export.WriteTotalsCSV(w, t) })
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "FIRM\tACCOUNTS\tBALANCE\tWITHDRAWN\tINITIAL\tPROFIT\t")
			line := func(name string, ft aggregate.FirmTotals) {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t\n", name, ft.Accounts,
					numeric.Money(ft.CurrentBalance), numeric.Money(ft.TotalWithdrawals),
					numeric.Money(ft.InitialBalance), numeric.Money(ft.ProfitInclWithdrawals))
			}
			for _, ft := range t.PerFirm {
				line(ft.FirmName, ft)
			}
			line("Global", t.Global)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&firmID, "firm", "", "only this firm id")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write CSV to this file instead")
	return cmd
}

func newSeriesCmd(rc *RootConfig) *cobra.Command {
	var (
		firmID  string
		overlay string
		metric  string
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Date-aligned totals for charting",
		Long: `Compute the totals chart: one value per date for the global total, each firm
or each account.

Examples:
  propjournal series --overlay firms --metric profitInclWithdrawals
  propjournal series --firm <firm-id> --overlay accounts --csv balances.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := aggregate.ParseOverlay(overlay)
			if err != nil {
				return err
			}
			m, err := aggregate.ParseMetric(metric)
			if err != nil {
				return err
			}

			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			chart, err := aggregate.BuildSeries(s.Snapshot(), firmID, o, m)
			if errors.Is(err, aggregate.ErrInsufficientData) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not enough data to chart yet: add compliance entries on at least 2 dates.")
				return nil
			}
			if err != nil {
				return err
			}
			if chart.Note != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "note:", chart.Note)
			}

			if csvPath != "" {
				return writeFile(cmd, csvPath, func(w io.Writer) error { return export.WriteSeriesCSV(w, chart) })
			}
			return export.WriteSeriesCSV(cmd.OutOrStdout(), chart)
		},
	}
	cmd.Flags().StringVar(&firmID, "firm", "", "only this firm id")
	cmd.Flags().StringVar(&overlay, "overlay", string(aggregate.OverlayGlobal), "global|firms|accounts")
	cmd.Flags().StringVar(&metric, "metric", string(aggregate.MetricBalance), "balance|profitInclWithdrawals|withdrawals")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write CSV to this file instead of stdout")
	return cmd
}

func newAlertCmd(rc *RootConfig) *cobra.Command {
	var firmID string

	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Accounts whose drawdown cushion is below 20% of the limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			warnings := alert.Evaluate(s.Snapshot(), firmID)
			if len(warnings) == 0 {
				fmt.Fprintln(out, "✓ No low drawdown warnings")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIRM\tACCOUNT\tDATE\tLIMIT\tREMAINING\tRATIO\tSOURCE")
			for _, w := range warnings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f%%\t%s\n",
					w.FirmName, w.AccountName, w.Date, numeric.Money(w.Limit), numeric.Money(w.Remaining), w.Ratio*100, w.Source)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&firmID, "firm", "", "only this firm id")
	return cmd
}

func newDashboardCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Journal summary as org-mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			db := s.Snapshot()
			text, err := export.FormatDashboardOrg(report.Summarize(db))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			if alert.HasLowDrawdownWarning(db) {
				fmt.Fprintln(cmd.OutOrStdout(), "\n- WARNING: an account is below 20% of its drawdown limit, run `propjournal alert`")
			}
			return nil
		},
	}
}

// writeFile creates path and fills it with write.
func writeFile(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
