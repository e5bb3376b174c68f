package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/joshproject/josh/filter"
	"github.com/joshproject/josh/modules/objhash"
)

// termWidth returns the visible width of the current terminal, capped at 80
// columns the same way the teacher stack's own progress bars are, falling
// back to 80 when stderr isn't a terminal (redirected to a file, a pipe).
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width > 80 {
		width = 80
	}
	return width
}

func newFilterCommand() *cobra.Command {
	var repoDir string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "filter <spec> <tip>",
		Short: "Rewrite the history reachable from <tip> through <spec>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter.Parse(args[0])
			if err != nil {
				return err
			}
			tip, err := objhash.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid tip oid %q: %w", args[1], err)
			}

			eng, closeFn, err := openEngine(repoDir)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			if !quiet {
				total, err := eng.CountAncestry(ctx, tip)
				if err != nil {
					return err
				}
				width := termWidth()
				p := mpb.New(
					mpb.WithOutput(os.Stderr),
					mpb.WithAutoRefresh(),
					mpb.WithWidth(width),
				)
				bar := p.New(int64(total),
					mpb.BarStyle().Filler("#").Padding(" "),
					mpb.PrependDecorators(decor.Name("filtering")),
					mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
					mpb.BarWidth(width),
				)
				eng.OnCommit = func(objhash.Oid) { bar.Increment() }
				defer p.Wait()
			}

			out, err := eng.ApplyFilterCached(ctx, tip, f)
			if err != nil {
				return err
			}
			fmt.Println(out.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&repoDir, "repo", ".josh/objects", "path to the object store")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the progress bar")
	return cmd
}
