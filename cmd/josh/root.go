package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshproject/josh/config"
)

var cfgFile string
var cfg *config.Config

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "josh",
		Short: "Rewrite commit history through a tree filter",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = c
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "josh.toml", "path to TOML config file")

	root.AddCommand(newFilterCommand())
	root.AddCommand(newUnapplyCommand())
	root.AddCommand(newCacheCommand())
	return root
}
