package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artifactql/aql/internal/store/query"
)

func newExplainCommand(a *app) *cobra.Command {
	var (
		asJSON bool
		asSQL  bool
	)

	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "Compile a query and show its plan",
		Long: `Compile a query into a plan without running it. The plan lists the root
table, one join per distinct path prefix, the filter over aliased columns, the
projection and the sort keys.

--json prints the plan in its serialized form, the one the plan cache stores.
--sql prints the statement the configured database driver would run.`,
		Example: `  aql explain 'items.archives.entries.name = "commons-io.jar"'
  aql explain --json 'builds.name = "nightly" sort builds.startDate desc'
  aql explain --sql 'items.type = "any" limit 5'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asSQL {
				return fmt.Errorf("--json and --sql cannot be combined")
			}

			s, err := a.session(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			plan, err := s.engine.CompileText(cmd.Context(), queryText(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				data, err := json.MarshalIndent(plan, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode plan: %w", err)
				}
				fmt.Fprintln(out, string(data))

			case asSQL:
				dialect, err := query.ParseDialect(a.cfg.Database.Driver)
				if err != nil {
					return err
				}
				stmt, err := query.Render(plan, dialect)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, stmt.SQL)
				for i, arg := range stmt.Args {
					fmt.Fprintf(out, "  $%d = %v\n", i+1, arg)
				}

			default:
				fmt.Fprint(out, plan.Explain())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	cmd.Flags().BoolVar(&asSQL, "sql", false, "print the SQL statement for the configured driver")
	return cmd
}
