package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmcdole/folio/internal/service"
)

func newCacheCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the image cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show how many images are cached and their size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCache(cmd, flags, func(svc *service.CacheService, dir string) {
					count, size := svc.Stats()
					fmt.Fprintf(cmd.OutOrStdout(), "%s images, %s in %s\n",
						humanize.Comma(int64(count)), humanize.Bytes(uint64(size)), dir)
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached image",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withCache(cmd, flags, func(svc *service.CacheService, dir string) {
					count, size := svc.Stats()
					svc.Clear()
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s images (%s) from %s\n",
						humanize.Comma(int64(count)), humanize.Bytes(uint64(size)), dir)
				})
			},
		},
	)
	return cmd
}

// withCache runs fn against the persistent cache, or reports that caching
// is disabled.
func withCache(cmd *cobra.Command, flags *rootFlags, fn func(svc *service.CacheService, dir string)) error {
	e, err := setup(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.store.Persistent() {
		fmt.Fprintln(cmd.OutOrStdout(), "Image cache is disabled")
		return nil
	}

	fn(service.NewCacheService(e.store, e.fetcher, e.logger), e.cfg.CacheDir())
	return nil
}
