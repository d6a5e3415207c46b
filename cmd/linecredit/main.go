package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "linecredit",
		Short: "Attribute each line of a git repository to its true author",
		Long: `linecredit decides, line by line, whether the author git blame names
for a line actually wrote it, or only made a cosmetic edit (renaming,
reformatting, a small tweak) of a line someone else wrote earlier.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ~/.linecredit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every backtracking step")

	rootCmd.AddCommand(analyzeCmd(&opts))
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(watchCmd(&opts))
	rootCmd.AddCommand(cacheCmd(&opts))
	rootCmd.AddCommand(runCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
