package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artifactql/aql/internal/cli/ui"
	"github.com/artifactql/aql/internal/store/query"
	"github.com/artifactql/aql/internal/store/schema"
	"github.com/artifactql/aql/internal/store/sqldb"
	"github.com/artifactql/aql/pkg/domain"
)

// newDBCommand creates the db command
func newDBCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Manage the relational store queries run against.

The tables follow the domain catalog: one table per domain, one column per
field, and the join columns every sub-domain edge needs.`,
		Example: `  # Create the tables in the configured database
  aql db init

  # Print the DDL for PostgreSQL without connecting
  AQL_DATABASE_DRIVER=postgres aql db init --print`,
	}

	cmd.AddCommand(newDBInitCommand(a))
	return cmd
}

func newDBInitCommand(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the catalog tables if they don't exist",
		Long: `Create every catalog table and its join column indexes in the configured
database. Statements use IF NOT EXISTS, so the command is safe to run more than
once. All statements run in one transaction.

The pgxpool driver is served through the pgx database/sql driver here.`,
		Example: `  aql db init
  aql db init --print`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			dialect, err := query.ParseDialect(cfg.Database.Driver)
			if err != nil {
				return err
			}
			graph := domain.Default()
			tables := schema.Tables(graph, dialect)

			if printOnly {
				for _, stmt := range schema.Statements(tables) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
				}
				return nil
			}

			driver := cfg.Database.Driver
			if driver == "pgxpool" {
				driver = "pgx"
			}
			src, err := sqldb.Open(driver, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			err = ui.WithSpinner(cmd.ErrOrStderr(), "Applying schema", a.noColor, func() error {
				return schema.Apply(ctx, src.DB(), graph, dialect)
			})
			if err != nil {
				return err
			}

			names := make([]string, len(tables))
			for i, t := range tables {
				names[i] = t.Name
			}
			ui.WriteSuccess(cmd.OutOrStdout(),
				fmt.Sprintf("%d tables ready: %s", len(tables), strings.Join(names, ", ")), a.noColor)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the statements instead of running them")
	return cmd
}
