package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the schema description given to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			schema, err := session.DescribeSchema(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), schema)
			return nil
		},
	}
}
