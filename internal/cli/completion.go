package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. Quantity codes and
// enumerated flag values complete in every shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for crdb.

Quantity codes (num, --den) and enumerated flags such as --energy-type
complete as you type.

  $ source <(crdb completion bash)
  $ crdb completion zsh > "${fpath[1]}/_crdb"
  $ crdb completion fish > ~/.config/fish/completions/crdb.fish
  PS> crdb completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
