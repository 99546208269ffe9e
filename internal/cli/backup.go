package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danmarmu/trading-journal-app/export"
)

func newBackupCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export, import or reset the journal",
		Long: `Back up the whole journal as one JSON document, restore it, or start over.

Examples:
  propjournal backup export -o journal-backup.json
  propjournal backup import journal-backup.json
  propjournal backup xlsx -o journal.xlsx
  propjournal backup reset --yes`,
	}

	cmd.AddCommand(newBackupExportCmd(rc), newBackupImportCmd(rc), newBackupResetCmd(rc), newBackupXLSXCmd(rc))
	return cmd
}

func newBackupExportCmd(rc *RootConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the journal as indented JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			text, err := s.Export(ctx(cmd))
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			return writeFile(cmd, output, func(w io.Writer) error {
				_, err := io.WriteString(w, text)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newBackupImportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Import(ctx(cmd), string(data)); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			db := s.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s, %s, %s, %s\n",
				plural(len(db.Firms), "firm", "firms"),
				plural(len(db.Accounts), "account", "accounts"),
				plural(len(db.Compliance), "compliance entry", "compliance entries"),
				plural(len(db.Journals), "journal entry", "journal entries"))
			return nil
		},
	}
}

func newBackupResetCmd(rc *RootConfig) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every record; pass --yes to confirm")
			}
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Reset(ctx(cmd)); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Journal reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newBackupXLSXCmd(rc *RootConfig) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write account reports, firm totals and the global series to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			db := s.Snapshot()
			return writeFile(cmd, output, func(w io.Writer) error { return export.WriteWorkbook(w, db) })
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "propjournal.xlsx", "output file")
	return cmd
}
