package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anthropic/linecredit/internal/attribution"
	"github.com/anthropic/linecredit/internal/authorship"
	"github.com/anthropic/linecredit/internal/config"
	"github.com/anthropic/linecredit/internal/gitint"
	"github.com/anthropic/linecredit/internal/identity"
	"github.com/anthropic/linecredit/internal/store"
)

// globalOptions are the root command's persistent flags.
type globalOptions struct {
	configPath string
	verbose    bool
}

// analysisFlags are shared by analyze and watch.
type analysisFlags struct {
	repo      string
	since     string
	timezone  string
	threshold float64
	workers   int
	noCache   bool
	keepGoing bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.repo, "repo", "", "Repository path (default: from config, else current directory)")
	cmd.Flags().StringVar(&f.since, "since", "", "Ignore predecessors committed before this date (d/M/yyyy or yyyy/M/d)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "Time zone for --since (default: from config)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", config.DefaultThreshold, "Originality score above which a line counts as new")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Lines analyzed concurrently per file (default: from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Do not read or write the persistent query cache")
	cmd.Flags().BoolVar(&f.keepGoing, "keep-going", false, "Report failing files at the end instead of stopping at the first")
}

// loadConfig reads the config file and applies flags the user set.
func loadConfig(cmd *cobra.Command, opts *globalOptions, f *analysisFlags) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if f == nil {
		return cfg, nil
	}

	flags := cmd.Flags()
	if flags.Changed("repo") {
		cfg.RepoPath = f.repo
	}
	if flags.Changed("since") {
		cfg.Since = f.since
	}
	if flags.Changed("timezone") {
		cfg.TimeZone = f.timezone
	}
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("workers") && f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, cfg.Validate()
}

// session holds everything one analysis needs.
type session struct {
	cfg      *config.Config
	client   *gitint.Client
	cached   *gitint.Cached
	store    *store.Store
	registry *identity.Registry
	analyzer *authorship.Analyzer
	driver   *attribution.Driver
}

func openSession(cfg *config.Config, keepGoing bool) (*session, error) {
	repoPath, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path: %w", err)
	}
	client, err := gitint.Open(repoPath)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, client: client}

	var disk gitint.PersistentCache
	if cfg.Cache.Enabled {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		st, err := store.New(cfg.Cache.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", cfg.Cache.DBPath, err)
		}
		s.store = st
		disk = st
	}
	s.cached, err = gitint.NewCached(client, cfg.Cache.MemoryEntries, disk)
	if err != nil {
		s.close()
		return nil, err
	}

	since, err := cfg.SinceTime()
	if err != nil {
		s.close()
		return nil, err
	}
	s.registry = identity.NewRegistry(cfg.Authors)
	s.analyzer = authorship.NewAnalyzer(s.cached, s.registry, authorship.Policy{
		Threshold:     cfg.Threshold,
		Since:         since,
		IgnoreCommits: cfg.IgnoreCommits,
	})
	s.analyzer.SetVerbose(cfg.Verbose)
	s.driver = attribution.New(s.analyzer, client, s.registry, attribution.Options{
		Workers:        cfg.Workers,
		IgnorePatterns: cfg.IgnorePatterns,
		KeepGoing:      keepGoing,
		Verbose:        cfg.Verbose,
	})
	return s, nil
}

func (s *session) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("linecredit: close store: %v", err)
		}
	}
}
