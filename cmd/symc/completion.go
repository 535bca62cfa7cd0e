package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for symc.

To load completions:

Bash:
  $ source <(symc completion bash)
  # To load permanently:
  $ symc completion bash > /etc/bash_completion.d/symc

Zsh:
  $ symc completion zsh > "${fpath[1]}/_symc"
  $ compinit

Fish:
  $ symc completion fish | source
  # To load permanently:
  $ symc completion fish > ~/.config/fish/completions/symc.fish

PowerShell:
  PS> symc completion powershell | Out-String | Invoke-Expression
  # To load permanently, add to your PowerShell profile
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(stdout(cmd))
		case "zsh":
			return rootCmd.GenZshCompletion(stdout(cmd))
		case "fish":
			return rootCmd.GenFishCompletion(stdout(cmd), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(stdout(cmd))
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
