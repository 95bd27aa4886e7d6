package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/pkg/crdb"
)

// experimentsCommand creates the experiments command.
func (c *CLI) experimentsCommand() *cobra.Command {
	var (
		qf queryFlags
		cf clientFlags
	)

	cmd := &cobra.Command{
		Use:   "experiments <num>",
		Short: "List the experiments that measured a quantity",
		Long: `List the experiments contributing to a query with their row counts.

Campaigns of the same experiment, such as AMS02(2011/05-2016/05) and
AMS02(2011/05-2018/05), are merged under one name.`,
		Example:           `  crdb experiments B --den C`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeQuantities,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, backend, err := c.newClient(ctx, cf)
			if err != nil {
				return err
			}
			defer backend.Close()

			p := qf.params(args[0])
			t, err := client.Query(ctx, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render(p.Label()))
			if t.Len() == 0 {
				fmt.Fprintln(out, StyleWarning.Render("no data"))
				return nil
			}
			fmt.Fprintln(out, experimentTable(t))
			fmt.Fprintln(out, "  "+StyleDim.Render(summary(t)))
			return nil
		},
	}

	qf.register(cmd)
	cf.register(cmd)
	return cmd
}

// codesCommand creates the codes command.
func (c *CLI) codesCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List known quantity codes for num and den",
		Long: `List the element, isotope, particle and group codes known to CRDB.

The list is for reference only: queries are not checked against it and the
server has the final say.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if filter != "" {
				for _, q := range crdb.FilterQuantities(filter) {
					fmt.Fprintln(out, q)
				}
				return nil
			}
			groups := []struct {
				name  string
				codes []string
			}{
				{"Elements", crdb.Elements},
				{"Isotopes", crdb.Isotopes},
				{"Particles", crdb.Particles},
				{"Groups", crdb.Groups},
			}
			for _, g := range groups {
				fmt.Fprintln(out, StyleTitle.Render(g.name))
				fmt.Fprintln(out, wrapCodes(g.codes, 72))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only codes containing this text (case-insensitive)")
	return cmd
}

// wrapCodes joins codes with spaces, breaking lines at width.
func wrapCodes(codes []string, width int) string {
	var lines []string
	line := " "
	for _, code := range codes {
		if len(line)+len(code)+1 > width {
			lines = append(lines, line)
			line = " "
		}
		line += " " + code
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
