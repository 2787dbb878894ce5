package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for il2log.

Bash:
  $ source <(il2log completion bash)
  $ il2log completion bash > /etc/bash_completion.d/il2log

Zsh:
  $ il2log completion zsh > "${fpath[1]}/_il2log"

Fish:
  $ il2log completion fish > ~/.config/fish/completions/il2log.fish

PowerShell:
  PS> il2log completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeKinds completes the comma-separated --types flag with kind names.
func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, partial = toComplete[:i+1], toComplete[i+1:]
	}

	var out []string
	for _, name := range event.KindNames() {
		if strings.HasPrefix(name, partial) {
			out = append(out, done+name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
