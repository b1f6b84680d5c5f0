package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for pointmap and print it to stdout.

  $ source <(pointmap completion bash)
  $ pointmap completion zsh > "${fpath[1]}/_pointmap"
  $ pointmap completion fish > ~/.config/fish/completions/pointmap.fish
  PS> pointmap completion powershell | Out-String | Invoke-Expression

Region names and output formats are completed as well.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeFormats completes the comma-separated --format flag. Formats
// already in the list are not offered again.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	used := map[string]bool{}
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			used[strings.TrimSpace(f)] = true
		}
	}

	var out []string
	for _, f := range pipeline.FormatNames() {
		if !used[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeRegions completes --region with the builtin region names.
func completeRegions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, r := range dataset.Builtin().Regions() {
		if strings.HasPrefix(r.Name, toComplete) {
			out = append(out, r.Name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
