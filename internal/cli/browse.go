package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		qf queryFlags
		cf clientFlags
	)

	cmd := &cobra.Command{
		Use:               "browse <num>",
		Short:             "Browse a query result interactively",
		Example:           `  crdb browse B --den C -e EKN`,
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
			spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Querying "+p.Label()+"...")
			spinner.Start()
			t, err := client.Query(ctx, p)
			spinner.Stop()
			if err != nil {
				return err
			}

			prog := tea.NewProgram(NewBrowseModel(p.Label(), t), tea.WithContext(ctx), tea.WithAltScreen())
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}

	qf.register(cmd)
	cf.register(cmd)
	return cmd
}
