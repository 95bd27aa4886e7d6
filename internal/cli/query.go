package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/pkg/crdb"
	crdbio "github.com/matzehuels/crdb/pkg/io"
)

const outputTable = "table"

type queryOptions struct {
	query  queryFlags
	client clientFlags
	output string
	save   string
	raw    bool
}

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <num>...",
		Short: "Query CRDB and print the measurements",
		Long: `Query CRDB for one or more quantities and print the measurements.

Several quantities are fetched in parallel. Replies are cached for 30 days
unless --no-cache is given; --refresh fetches again and updates the cache.`,
		Example: `  # Boron-to-carbon ratio per nucleon
  crdb query B --den C -e EKN

  # Positron and electron fluxes as CSV
  crdb query e+ e- --output csv

  # Save as JSON
  crdb query He --save he.json`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeQuantities,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, args, opts)
		},
	}

	opts.query.register(cmd)
	opts.client.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table, csv, tsv, json")
	cmd.Flags().StringVar(&opts.save, "save", "", "also write the result to a file (.csv, .tsv, .json)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the unparsed server reply")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletion(outputTable, crdbio.FormatCSV, crdbio.FormatTSV, crdbio.FormatJSON))

	return cmd
}

func (c *CLI) runQuery(cmd *cobra.Command, nums []string, opts queryOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	if opts.output != outputTable && !slices.Contains(crdbio.Formats, opts.output) {
		return fmt.Errorf("unknown output format %q (want table, %s)", opts.output, strings.Join(crdbio.Formats, ", "))
	}
	if opts.save != "" && len(nums) > 1 {
		return fmt.Errorf("--save takes a single quantity")
	}

	client, backend, err := c.newClient(ctx, opts.client)
	if err != nil {
		return err
	}
	defer backend.Close()

	params := make([]crdb.QueryParameters, len(nums))
	for i, num := range nums {
		params[i] = opts.query.params(num)
	}

	if opts.raw {
		for _, p := range params {
			raw, err := client.Raw(ctx, p)
			if err != nil {
				return err
			}
			fmt.Fprint(out, raw)
		}
		return nil
	}

	prog := newProgress(logger)
	var spinner *Spinner
	if opts.output == outputTable && isTerminal(os.Stderr) {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), "Querying "+strings.Join(nums, ", ")+"...")
		spinner.Start()
	}
	tables, err := client.QueryAll(ctx, params)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("fetched", "queries", len(tables))

	for i, t := range tables {
		url, _ := client.URL(params[i])
		if err := writeResult(out, t, params[i], url, opts.output); err != nil {
			return err
		}
	}

	if opts.save != "" {
		url, _ := client.URL(params[0])
		if err := crdbio.Export(tables[0], url, opts.save); err != nil {
			return err
		}
		printFile(opts.save)
	}
	return nil
}

func writeResult(w io.Writer, t crdb.Table, p crdb.QueryParameters, url, output string) error {
	if output != outputTable {
		return crdbio.Write(t, url, output, w)
	}
	fmt.Fprintln(w, StyleTitle.Render(p.Label())+" "+StyleDim.Render(url))
	if t.Len() == 0 {
		fmt.Fprintln(w, StyleWarning.Render("no data"))
		return nil
	}
	fmt.Fprintln(w, renderTable(t, 0, t.Len(), -1))
	fmt.Fprintln(w, "  "+StyleDim.Render(summary(t)))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
