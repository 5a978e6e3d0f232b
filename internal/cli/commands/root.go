package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/artifactql/aql/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aql",
		Short: "Artifact query language compiler and runner",
		Long: color.CyanString(`aql - Artifact Query Language

aql compiles criteria over a graph of artifact domains (items, archives,
builds, ...) into join-resolved plans and runs them on a relational store.

Queries start from a root domain and follow sub-domains with dots:
  items.archives.entries.name = "commons-io.jar" include items.path limit 10`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./aql.yaml)")
	flags.StringVar(&a.root, "root", "", "root domain of relative queries (overrides query.root)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newParseCommand(a))
	rootCmd.AddCommand(newExplainCommand(a))
	rootCmd.AddCommand(newQueryCommand(a))
	rootCmd.AddCommand(newDomainsCommand(a))
	rootCmd.AddCommand(newDBCommand(a))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the aql version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), false)
			kv.AddRow("aql version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	a := &app{}
	rootCmd := newRootCommand(a)
	if err := rootCmd.Execute(); err != nil {
		a.report(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}
