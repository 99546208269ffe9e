package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFirmCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firm",
		Short: "Manage prop firms",
		Long: `Add, rename, remove and list prop firms.

Removing a firm also removes its accounts and their compliance entries.

Examples:
  propjournal firm add Topstep
  propjournal firm rename <firm-id> "Topstep Futures"
  propjournal firm rm <firm-id>
  propjournal firm ls --search top`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a firm",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				f, err := s.AddFirm(ctx(cmd), strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("add firm: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added firm %s (%s)\n", f.Name, f.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <firm-id> <name>",
			Short: "Rename a firm",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.RenameFirm(ctx(cmd), args[0], strings.Join(args[1:], " ")); err != nil {
					return fmt.Errorf("rename firm: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed firm %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <firm-id>",
			Short: "Remove a firm with its accounts and their entries",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := rc.open(cmd)
				if err != nil {
					return err
				}
				defer s.Close()

				accounts, entries, err := s.DeleteFirm(ctx(cmd), args[0])
				if err != nil {
					return fmt.Errorf("remove firm: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed firm %s, %s and %s\n", args[0],
					plural(accounts, "account", "accounts"), plural(entries, "compliance entry", "compliance entries"))
				return nil
			},
		},
		newFirmLsCmd(rc),
	)
	return cmd
}

func newFirmLsCmd(rc *RootConfig) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List firms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			db := s.Snapshot()
			counts := map[string]int{}
			for _, a := range db.Accounts {
				counts[a.FirmID]++
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tACCOUNTS")
			for _, f := range s.Firms(search) {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", f.ID, f.Name, counts[f.ID])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	return cmd
}
