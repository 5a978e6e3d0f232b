package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artifactql/aql/compiler/lexer"
	"github.com/artifactql/aql/internal/cli/ui"
)

func newParseCommand(a *app) *cobra.Command {
	var (
		check  bool
		tokens bool
	)

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query and print its canonical form",
		Long: `Parse query text and print it back in canonical form: fully qualified
paths, normalized spacing and quoting. With --check the query is also bound to
the domain graph, so unknown fields and type errors are reported. --tokens prints
the token stream instead, without parsing.`,
		Example: `  aql parse 'items.name = "a.jar" and items.size > 1000'
  aql parse --root items 'archives.entries.name like "*.class"'
  aql parse --check 'builds.number = 42'
  aql parse --tokens 'items.size >= 1024'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokens {
				return writeTokens(cmd, queryText(args), a.noColor)
			}

			s, err := a.session(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			q, err := s.engine.Parse(queryText(args))
			if err != nil {
				return err
			}
			if check {
				if _, err := s.engine.Check(q); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), q.String())
			if check {
				ui.WriteSuccess(cmd.ErrOrStderr(), "query is valid", a.noColor)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "also bind the query to the domain graph")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "print the token stream and stop")
	return cmd
}

// writeTokens prints every token of text with its position. The first lexical error is
// returned after the whole stream is shown.
func writeTokens(cmd *cobra.Command, text string, noColor bool) error {
	toks, errs := lexer.Tokenize(text)

	table := ui.NewTable(cmd.OutOrStdout(), []string{"token", "text", "at"}, &ui.TableOptions{NoColor: noColor})
	for _, tok := range toks {
		line, column := lexer.Position(text, tok.Start)
		table.AddRow(tok.Type.String(), tok.Lexeme, fmt.Sprintf("%d:%d", line, column))
	}
	table.Render()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
