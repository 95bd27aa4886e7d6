package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/internal/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return err
				}
				path = p
			}
			out, err := c.cfg.Encode()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# %s\n", path)
			fmt.Fprint(w, out)
			return nil
		},
	}
}
