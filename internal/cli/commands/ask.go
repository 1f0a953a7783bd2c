package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand(env Env) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := openRuntime(cmd.Context(), env, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = runtime.Close() }()

			answer, err := runtime.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("processing question: %w", err)
			}
			out := cmd.OutOrStdout()
			if verbose {
				_, _ = fmt.Fprintf(out, "SQL: %s\n", answer.Synthesis.Text())
				_, _ = fmt.Fprintf(out, "Result:\n%s\n", answer.Result)
			}
			_, _ = fmt.Fprintf(out, "Response: %s\n", answer.Response)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the generated SQL and query result")
	return cmd
}
