package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danmarmu/trading-journal-app/book"
	"github.com/danmarmu/trading-journal-app/model"
)

// accountFlags are the editable account fields. Only flags given on the
// command line are applied.
type accountFlags struct {
	firm, name, typ, platform, start string
	initial, overall, trailing       string
}

func (f *accountFlags) register(cmd *cobra.Command, withFirm bool) {
	fs := cmd.Flags()
	if withFirm {
		fs.StringVar(&f.firm, "firm", "", "move the account to this firm id")
	}
	fs.StringVar(&f.name, "name", "", "account name")
	fs.StringVar(&f.typ, "type", "", "Evaluation|Sim Funded|Live|Personal")
	fs.StringVar(&f.platform, "platform", "", "trading platform")
	fs.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.initial, "initial", "", "initial balance")
	fs.StringVar(&f.overall, "overall-limit", "", "overall max loss limit")
	fs.StringVar(&f.trailing, "trailing-limit", "", "trailing drawdown limit")
}

func (f *accountFlags) validate() error {
	if f.typ != "" && !model.AccountType(f.typ).Valid() {
		return fmt.Errorf("unknown account type %q", f.typ)
	}
	if f.start != "" {
		return checkDate("start", f.start)
	}
	return nil
}

func (f *accountFlags) apply(cmd *cobra.Command, a *model.Account) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("firm", &a.FirmID, f.firm)
	set("name", &a.Name, f.name)
	set("platform", &a.Platform, f.platform)
	set("start", &a.StartDate, f.start)
	set("initial", &a.InitialBalance, f.initial)
	set("overall-limit", &a.OverallMaxLossLimit, f.overall)
	set("trailing-limit", &a.TrailingDrawdownLimit, f.trailing)
	if cmd.Flags().Changed("type") {
		a.AccountType = model.AccountType(f.typ)
	}
}

func newAccountCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage trading accounts",
		Long: `Add, edit, remove and list accounts.

Removing an account also removes its compliance entries.

Examples:
  propjournal account add <firm-id> --name "50K Combine" --initial 50000 --trailing-limit 2000
  propjournal account set <account-id> --type "Sim Funded"
  propjournal account ls --firm <firm-id>`,
	}

	cmd.AddCommand(
		newAccountAddCmd(rc),
		newAccountSetCmd(rc),
		&cobra.Command{
			Use:   "rm <account-id>",
			Short: "Remove an account and its compliance entries",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				n, err := s.DeleteAccount(ctx(cmd), args[0])
				if err != nil {
					return fmt.Errorf("remove account: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed account %s and %s\n", args[0], plural(n, "compliance entry", "compliance entries"))
				return nil
			},
		},
		newAccountLsCmd(rc),
	)
	return cmd
}

func newAccountAddCmd(rc *RootConfig) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "add <firm-id>",
		Short: "Add an account to a firm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			a, err := s.AddAccount(ctx(cmd), args[0], func(a *model.Account) { f.apply(cmd, a) })
			if err != nil {
				return fmt.Errorf("add account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added account %s (%s)\n", a.Name, a.ID)
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newAccountSetCmd(rc *RootConfig) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "set <account-id>",
		Short: "Edit an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			a, err := s.UpdateAccount(ctx(cmd), args[0], func(a *model.Account) { f.apply(cmd, a) })
			if err != nil {
				return fmt.Errorf("update account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated account %s (%s)\n", a.Name, a.ID)
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newAccountLsCmd(rc *RootConfig) *cobra.Command {
	var (
		filter book.AccountFilter
		typ    string
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List accounts sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			filter.Type = model.AccountType(typ)
			db := s.Snapshot()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFIRM\tNAME\tTYPE\tPLATFORM\tINITIAL\tOVERALL\tTRAILING")
			for _, a := range s.Accounts(filter) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					a.ID, db.FirmName(a.FirmID), a.Name, a.AccountType, a.Platform,
					a.InitialBalance, a.OverallMaxLossLimit, a.TrailingDrawdownLimit)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.FirmID, "firm", "", "only accounts of this firm id")
	cmd.Flags().StringVar(&typ, "type", "", "only accounts of this type")
	cmd.Flags().StringVar(&filter.Query, "search", "", "case-insensitive text filter")
	return cmd
}
