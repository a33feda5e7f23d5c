package cli

import (
	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:     "completion [bash|zsh|fish|powershell]",
	Short:   "Generate shell completion script",
	GroupID: groupOther,
	Long: `Generate a shell completion script for mintdapp and write it to stdout.

Bash:
  $ source <(mintdapp completion bash)

Zsh:
  $ mintdapp completion zsh > "${fpath[1]}/_mintdapp"

Fish:
  $ mintdapp completion fish > ~/.config/fish/completions/mintdapp.fish

PowerShell:
  PS> mintdapp completion powershell | Out-String | Invoke-Expression`,
	Example: `  mintdapp completion bash > /etc/bash_completion.d/mintdapp
  mintdapp completion zsh > "${fpath[1]}/_mintdapp"`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(stdout, true)
		case "zsh":
			return root.GenZshCompletion(stdout)
		case "fish":
			return root.GenFishCompletion(stdout, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(stdout)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(completionCmd)
}
