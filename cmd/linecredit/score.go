package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthropic/linecredit/internal/similarity"
)

// editLadder is a line and a series of progressively heavier edits of it.
var editLadder = []string{
	"int depthLimit = 10;",
	"int maxDepthLimit = 10;",
	"int maxDepthLimit = 20;",
	"int maxDepthLimit = getLimit();",
	"int maxDepthLimit = getXXX() * getYYY();",
	"final int limit = 0;",
}

func scoreCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "score [candidate base]",
		Short: "Print originality scores of a line against an earlier line",
		Long: `Score prints how different candidate is from base: the edit distance
divided by the length of base. Scores above the threshold count as new lines.

Without arguments it scores a built-in ladder of edits against its first line.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected 0 or 2 arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				printScore(args[0], args[1], threshold)
				return nil
			}
			base := editLadder[0]
			fmt.Printf("base: %q\n", base)
			for _, candidate := range editLadder {
				printScore(candidate, base, threshold)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", similarity.DefaultThreshold, "Originality threshold")
	return cmd
}

func printScore(candidate, base string, threshold float64) {
	verdict := "edit"
	if similarity.IsOriginal(candidate, base, threshold) {
		verdict = "original"
	}
	fmt.Printf("%6.3f  %-8s  distance %-3d %q\n",
		similarity.Score(candidate, base), verdict, similarity.Distance(candidate, base), candidate)
}
