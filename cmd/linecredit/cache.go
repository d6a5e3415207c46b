package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthropic/linecredit/internal/config"
	"github.com/anthropic/linecredit/internal/report"
	"github.com/anthropic/linecredit/internal/store"
)

func cacheCmd(opts *globalOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the persistent git query cache",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Override database path (default: from config)")

	open := func(cmd *cobra.Command) (*config.Config, *store.Store, error) {
		cfg, err := loadConfig(cmd, opts, nil)
		if err != nil {
			return nil, nil, err
		}
		if dbPath != "" {
			cfg.Cache.DBPath = dbPath
		}
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		s, err := store.New(cfg.Cache.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return cfg, s, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cached query counts and database size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			counts, err := s.QueryCacheCount()
			if err != nil {
				return fmt.Errorf("count cache entries: %w", err)
			}
			size, err := s.DBSizeBytes()
			if err != nil {
				return fmt.Errorf("database size: %w", err)
			}
			fmt.Print(report.FormatCacheSummary(report.CacheSummary{
				DBPath: cfg.Cache.DBPath,
				DBSize: size,
				Counts: counts,
			}))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached query result",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.ClearQueryCache()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Printf("removed %d cached queries\n", n)
			return nil
		},
	})

	return cmd
}

func runCmd(opts *globalOptions) *cobra.Command {
	var (
		dbPath     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Show a run saved with analyze --save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Cache.DBPath = dbPath
			}
			s, err := store.New(cfg.Cache.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			sr, err := report.Load(s, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Println(report.FormatJSON(sr))
			} else {
				fmt.Print(report.FormatStoredRun(sr))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Override database path (default: from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
