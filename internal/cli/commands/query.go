package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/artifactql/aql/internal/cli/ui"
)

func newQueryCommand(a *app) *cobra.Command {
	var (
		interactive bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "query [query]",
		Short: "Run a query against the configured database",
		Long: `Compile a query and stream its rows from the configured database.

Rows are printed as a table, or with --format json as one JSON object per
line. With --interactive queries are read from a prompt until Ctrl-D; errors
are reported and the prompt continues. Every query is bounded by
query.timeout.`,
		Example: `  aql query 'items.repo = "libs-release" and items.size > 1048576 sort items.size desc limit 20'
  aql query --format json 'builds.name = "nightly" include builds.number'
  aql query --root items --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive && len(args) > 0 {
				return fmt.Errorf("a query argument cannot be combined with --interactive")
			}
			if !interactive && len(args) == 0 {
				return fmt.Errorf("no query given (pass one or use --interactive)")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("%w: %q (valid: table, json)", ui.ErrUnknownFormat, format)
			}

			s, err := a.session(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			if !interactive {
				return a.runQuery(cmd.Context(), cmd.OutOrStdout(), s, queryText(args), format)
			}

			prompter := a.prompter
			if prompter == nil {
				prompter = ui.NewSurveyPrompter(s.engine.Graph())
			}
			return a.repl(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), s, prompter, format)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries from a prompt")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	return cmd
}

// runQuery executes one query under the configured timeout and writes its rows
func (a *app) runQuery(ctx context.Context, out io.Writer, s *session, text, format string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rows, err := s.engine.Query(ctx, text)
	if err != nil {
		return err
	}
	_, err = ui.WriteRows(ctx, out, rows, format, a.noColor)
	return err
}

// repl reads queries until the prompter reports io.EOF. Query errors are shown and the
// loop goes on; a prompter failure ends it.
func (a *app) repl(ctx context.Context, out, errOut io.Writer, s *session, p ui.Prompter, format string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := p.Prompt("aql>")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}

		if err := a.runQuery(ctx, out, s, text, format); err != nil {
			a.report(errOut, err)
		}
	}
}
