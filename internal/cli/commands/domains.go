package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artifactql/aql/internal/cli/ui"
	"github.com/artifactql/aql/pkg/domain"
)

func newDomainsCommand(a *app) *cobra.Command {
	var cycles bool

	cmd := &cobra.Command{
		Use:   "domains [name]",
		Short: "List the queryable domains",
		Long: `Without arguments, list every domain with its table, field count and
reachable sub-domains. With a domain name, show its fields, their value types
and comparators, and how each sub-domain is joined. --cycles lists the loops in
the domain graph; paths may go round them any number of times.`,
		Example: `  aql domains
  aql domains archives
  aql domains --cycles`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph := domain.Default()
			if cycles {
				listCycles(cmd, graph, a.noColor)
				return nil
			}
			if len(args) == 0 {
				listDomains(cmd, graph, a.noColor)
				return nil
			}

			d, ok := graph.Domain(domain.ID(args[0]))
			if !ok {
				return &displayError{
					err:  fmt.Errorf("unknown domain %q", args[0]),
					text: ui.DomainNotFoundError(args[0], graph.Names(), a.noColor),
				}
			}
			describeDomain(cmd, d, a.noColor)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cycles, "cycles", false, "list the cycles of the domain graph")
	return cmd
}

func listCycles(cmd *cobra.Command, graph *domain.Graph, noColor bool) {
	out := cmd.OutOrStdout()
	found := graph.DetectCycles()
	if len(found) == 0 {
		ui.WriteSuccess(out, "the domain graph has no cycles", noColor)
		return
	}
	ui.Header(out, fmt.Sprintf("%d cycles", len(found)), noColor)
	fmt.Fprintln(out, domain.FormatCycles(found))
}

func listDomains(cmd *cobra.Command, graph *domain.Graph, noColor bool) {
	table := ui.NewTable(cmd.OutOrStdout(), []string{"domain", "table", "fields", "sub-domains"}, &ui.TableOptions{
		NoColor: noColor,
		Align:   []ui.Alignment{ui.AlignLeft, ui.AlignLeft, ui.AlignRight},
	})
	for _, d := range graph.Domains() {
		table.AddRow(d.Name(), d.Table, strconv.Itoa(len(d.Fields())), strings.Join(d.SubDomains(), ", "))
	}
	table.Render()
}

func describeDomain(cmd *cobra.Command, d *domain.Domain, noColor bool) {
	out := cmd.OutOrStdout()

	ui.Header(out, d.Name(), noColor)
	kv := ui.NewKeyValueTable(out, noColor)
	kv.AddRow("table", d.Table)
	kv.AddRow("primary key", d.Key)
	kv.Render()
	fmt.Fprintln(out)

	fields := ui.NewTable(out, []string{"field", "type", "column", "comparators"}, &ui.TableOptions{NoColor: noColor})
	for _, f := range d.Fields() {
		cmps := f.Comparators()
		names := make([]string, len(cmps))
		for i, c := range cmps {
			names[i] = c.String()
		}
		fields.AddRow(f.Name, f.Type.String(), f.Column, strings.Join(names, " "))
	}
	fields.Render()

	if len(d.Transitions()) == 0 {
		return
	}
	fmt.Fprintln(out)
	subs := ui.NewTable(out, []string{"sub-domain", "join"}, &ui.TableOptions{NoColor: noColor})
	for _, t := range d.Transitions() {
		subs.AddRow(string(t.To), fmt.Sprintf("%s.%s = %s.%s", t.To, t.Join.ChildColumn, d.Name(), t.Join.ParentColumn))
	}
	subs.Render()
}
