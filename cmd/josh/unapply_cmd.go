package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshproject/josh/filter"
	"github.com/joshproject/josh/modules/objhash"
)

func newUnapplyCommand() *cobra.Command {
	var repoDir string
	cmd := &cobra.Command{
		Use:   "unapply <spec> <filtered-tree> <parent-tree>",
		Short: "Reverse-project a filtered tree back onto a parent tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter.Parse(args[0])
			if err != nil {
				return err
			}
			filtered, err := objhash.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid filtered tree oid %q: %w", args[1], err)
			}
			parent, err := objhash.Parse(args[2])
			if err != nil {
				return fmt.Errorf("invalid parent tree oid %q: %w", args[2], err)
			}

			eng, closeFn, err := openEngine(repoDir)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := f.Unapply(cmd.Context(), eng.Backend, filtered, parent)
			if err != nil {
				return err
			}
			fmt.Println(out.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&repoDir, "repo", ".josh/objects", "path to the object store")
	return cmd
}
