package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/pkg/crdb"
)

// urlCommand creates the url command.
func (c *CLI) urlCommand() *cobra.Command {
	var (
		qf     queryFlags
		server string
	)

	cmd := &cobra.Command{
		Use:               "url <num>",
		Short:             "Print the query URL without fetching it",
		Example:           `  crdb url e+ -e R --combo-level 0`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeQuantities,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := qf.params(args[0])
			p.ServerURL = c.cfg.ServerURL
			if server != "" {
				p.ServerURL = server
			}
			u, err := crdb.BuildURL(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVar(&server, "server", "", "CRDB server URL (default from config)")
	return cmd
}
