package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/squadhub/squadgraph/internal/validation"
)

// newLintCmd creates the 'lint' subcommand. It exits 1 when a file cannot be
// read or compiled and 2 when a file compiles but has lint errors. Warnings
// are printed but never fail the run.
func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file|->...",
		Short: "Check workflow files for schema errors and references the diagram would drop",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			linter, err := validation.NewLinter()
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			code := 0
			for _, path := range args {
				text, err := readInput(cmd, path)
				if err != nil {
					fmt.Fprintf(errOut, "%s: %v\n", path, err)
					code = 1
					continue
				}

				result, err := linter.Lint(text)
				if err != nil {
					fmt.Fprintf(errOut, "%s: %v\n", path, err)
					code = 1
					continue
				}

				issues := result.Issues()
				if len(issues) == 0 {
					fmt.Fprintf(out, "%s: ok\n", path)
				}
				for _, is := range issues {
					fmt.Fprintf(out, "%s: %s\n", path, is)
				}
				if !result.Valid() && code == 0 {
					code = 2
				}
			}

			a.logger.Debug("lint finished", "files", len(args), "exit_code", code)
			if code != 0 {
				return exitError{code: code}
			}
			return nil
		},
	}
}
