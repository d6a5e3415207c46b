package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/anthropic/linecredit/internal/attribution"
	"github.com/anthropic/linecredit/internal/report"
	"github.com/anthropic/linecredit/internal/watcher"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	var (
		f      analysisFlags
		window time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-run attribution every time HEAD moves",
		Long: `Watch analyzes HEAD once, then again after every commit or checkout,
printing a fresh report each time. Stop it with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, &f)
			if err != nil {
				return err
			}
			s, err := openSession(cfg, f.keepGoing)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			paths := repoPaths(args)
			run := func(ctx context.Context, branch, commit string) error {
				started := time.Now()
				var (
					results []*attribution.FileResult
					err     error
				)
				if len(paths) == 0 {
					results, err = s.driver.AnalyzeCommit(ctx, commit)
				} else {
					results, err = s.driver.AnalyzeFiles(ctx, commit, paths)
				}
				if err != nil && len(results) == 0 {
					return err
				}
				r := report.Build(report.Meta{
					RepoPath:   s.client.Path(),
					CommitHash: commit,
					Threshold:  cfg.Threshold,
					Since:      cfg.Since,
					StartedAt:  started,
				}, results)
				fmt.Printf("\n%s@%s\n", branch, commit)
				fmt.Print(report.FormatRunReport(r))
				return err
			}

			head, err := s.client.ResolveRevision("HEAD")
			if err != nil {
				return err
			}
			if err := run(ctx, "HEAD", head); err != nil {
				log.Printf("linecredit: initial analysis: %v", err)
			}

			return watcher.New(s.client.Path(), window, run).Run(ctx)
		},
	}

	f.register(cmd)
	cmd.Flags().DurationVar(&window, "debounce", watcher.DefaultWindow, "Quiet period after a ref change before analyzing")
	return cmd
}
