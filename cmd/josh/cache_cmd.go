package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshproject/josh/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or maintain the persistent filter cache",
	}
	cmd.AddCommand(newCacheStatsCommand())
	cmd.AddCommand(newCacheCompactCommand())
	return cmd
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print internal goleveldb statistics for the filter cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cache.Open(cfg.CacheDir)
			if err != nil {
				return err
			}
			defer s.Close()
			stats, err := s.Stats()
			if err != nil {
				return err
			}
			fmt.Println(stats)
			return nil
		},
	}
}

func newCacheCompactCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Compact the filter cache, reclaiming space from superseded entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cache.Open(cfg.CacheDir)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Compact()
		},
	}
}
