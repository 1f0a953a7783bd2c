package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newInspectCommand(env Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "inspect [table]",
		Short: "List tables and preview the rows of one",
		Long: `Without an argument, inspect lists every table and asks which one to preview.
With a table name it prints that table's first rows directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), env)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			session, err := db.Acquire(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			out := cmd.OutOrStdout()
			name := ""
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			} else {
				tables, err := session.ListTables(cmd.Context())
				if err != nil {
					return err
				}
				if len(tables) == 0 {
					_, _ = fmt.Fprintln(out, "No tables found.")
					return nil
				}
				_, _ = fmt.Fprintln(out, renderTableList(tables))
				_, _ = fmt.Fprint(out, "Enter table name to inspect: ")
				name, err = readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if name == "" {
					return nil
				}
			}

			if limit <= 0 {
				limit = 10
			}
			result, err := session.Preview(cmd.Context(), name, limit)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "\nFirst %d rows of %s:\n%s\n", limit, name, result.Text())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of rows to show")
	return cmd
}

func renderTableList(names []string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Table"})
	for i, name := range names {
		t.AppendRow(table.Row{i + 1, name})
	}
	return t.Render()
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read table name: %w", err)
	}
	return strings.TrimSpace(line), nil
}
