package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/folio/internal/service"
)

const defaultWarmJobs = 4

func newWarmCmd(flags *rootFlags) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch every catalog image into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarm(cmd, flags, jobs)
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultWarmJobs, "concurrent fetches")
	return cmd
}

func runWarm(cmd *cobra.Command, flags *rootFlags, jobs int) error {
	out := cmd.OutOrStdout()

	e, err := setup(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.store.Persistent() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: image cache is disabled, nothing will persist")
	}

	cat, err := e.loadCatalog()
	if err != nil {
		return err
	}
	refs := cat.ImageRefs()
	if len(refs) == 0 {
		fmt.Fprintln(out, "No images in catalog")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progress := newWarmProgress(out, len(refs))
	svc := service.NewCacheService(e.store, e.fetcher, e.logger)
	report, err := svc.Warm(ctx, refs, jobs, progress.update)
	progress.finish()
	if err != nil {
		return fmt.Errorf("warm interrupted: %w", err)
	}

	printWarmReport(out, report)
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d images failed", len(report.Failed), report.Total)
	}
	return nil
}

func printWarmReport(out io.Writer, report service.WarmReport) {
	fmt.Fprintf(out, "Warmed %d images: %d fetched (%s), %d already cached, %d failed\n",
		report.Total, report.Fetched, humanize.Bytes(uint64(report.Bytes)), report.Cached, len(report.Failed))

	failed := make([]string, 0, len(report.Failed))
	for ref := range report.Failed {
		failed = append(failed, ref)
	}
	sort.Strings(failed)
	for _, ref := range failed {
		fmt.Fprintf(out, "  %s: %v\n", ref, report.Failed[ref])
	}
}

// warmProgress draws a bar on a terminal and prints one line per image
// otherwise.
type warmProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newWarmProgress(out io.Writer, total int) *warmProgress {
	p := &warmProgress{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Warming cache"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *warmProgress) update(wp service.WarmProgress) {
	if p.bar != nil {
		p.bar.Describe(path.Base(wp.Ref))
		_ = p.bar.Set(wp.Done)
		return
	}

	status := "fetched " + humanize.Bytes(uint64(wp.Bytes))
	switch {
	case wp.Err != nil:
		status = "failed: " + wp.Err.Error()
	case wp.Cached:
		status = "cached"
	}
	fmt.Fprintf(p.out, "[%d/%d] %s %s\n", wp.Done, wp.Total, wp.Ref, status)
}

func (p *warmProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
