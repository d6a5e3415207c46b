package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anthropic/linecredit/internal/attribution"
	"github.com/anthropic/linecredit/internal/report"
	"github.com/anthropic/linecredit/internal/store"
)

func analyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		f          analysisFlags
		commit     string
		dbPath     string
		jsonOutput bool
		showLines  bool
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path...]",
		Short: "Attribute every line of the given files (default: all files) at a commit",
		Long: `Analyze blames each file at the commit, then decides for every line whether
its author gets full credit or only made a cosmetic edit of someone else's line.

Paths are relative to the repository root. Without paths, every tracked text
file not matched by ignore_patterns is analyzed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, &f)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Cache.DBPath = dbPath
			}

			s, err := openSession(cfg, f.keepGoing)
			if err != nil {
				return err
			}
			defer s.close()

			hash, err := s.client.ResolveRevision(commit)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			started := time.Now()
			var results []*attribution.FileResult
			if len(args) == 0 {
				results, err = s.driver.AnalyzeCommit(ctx, hash)
			} else {
				results, err = s.driver.AnalyzeFiles(ctx, hash, repoPaths(args))
			}
			if err != nil && len(results) == 0 {
				return err
			}
			runErr := err

			r := report.Build(report.Meta{
				RepoPath:   s.client.Path(),
				CommitHash: hash,
				Threshold:  cfg.Threshold,
				Since:      cfg.Since,
				StartedAt:  started,
			}, results)

			if save {
				st := s.store
				if st == nil {
					if err := cfg.EnsureDataDir(); err != nil {
						return fmt.Errorf("create data dir: %w", err)
					}
					if st, err = store.New(cfg.Cache.DBPath); err != nil {
						return fmt.Errorf("open store: %w", err)
					}
					defer st.Close()
				}
				if err := report.Save(st, r); err != nil {
					return fmt.Errorf("save run: %w", err)
				}
			}

			switch {
			case jsonOutput && showLines:
				fmt.Println(report.FormatJSON(results))
			case jsonOutput:
				fmt.Println(report.FormatJSON(r))
			default:
				if showLines {
					for _, fr := range results {
						fmt.Println(report.FormatFileLines(fr))
					}
				}
				fmt.Print(report.FormatRunReport(r))
			}

			if cfg.Verbose {
				st := s.cached.Stats()
				log.Printf("linecredit: cache %d memory hits, %d disk hits, %d misses in %s",
					st.MemoryHits, st.DiskHits, st.Misses, time.Since(started).Round(time.Millisecond))
			}
			return runErr
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&commit, "commit", "HEAD", "Commit (or any revision) to analyze")
	cmd.Flags().StringVar(&dbPath, "db", "", "Override database path (default: from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showLines, "lines", false, "Show every line with its author and verdict")
	cmd.Flags().BoolVar(&save, "save", false, "Store the run and its line verdicts in the database")

	return cmd
}

// repoPaths normalizes user-supplied paths to slash-separated paths relative
// to the repository root, the form git trees use.
func repoPaths(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		p := filepath.ToSlash(filepath.Clean(a))
		out = append(out, strings.TrimPrefix(p, "./"))
	}
	return out
}
