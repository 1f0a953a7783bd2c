package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textsql/textsql/internal/cli/repl"
)

type replOptions struct {
	verbose     bool
	historyFile string
}

func bindREPLFlags(cmd *cobra.Command, opts *replOptions) {
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print the generated SQL and query result")
	cmd.Flags().StringVar(&opts.historyFile, "history", defaultHistoryFile(), "History file (empty disables history)")
}

func newREPLCommand(env Env) *cobra.Command {
	var opts replOptions
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive question loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, env, opts)
		},
	}
	bindREPLFlags(cmd, &opts)
	return cmd
}

func runREPL(cmd *cobra.Command, env Env, opts replOptions) error {
	runtime, err := openRuntime(cmd.Context(), env, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = runtime.Close() }()

	reader, err := env.newReader(opts.historyFile)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "textsql (%s)\n\n", runtime.DB.Dialect().DisplayName())
	return repl.Run(cmd.Context(), repl.Options{
		Asker:   runtime,
		Reader:  reader,
		Out:     cmd.OutOrStdout(),
		Verbose: opts.verbose,
	})
}
