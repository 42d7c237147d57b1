package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/folio/internal/adapter"
	"github.com/mmcdole/folio/internal/catalog"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/service"
	"github.com/mmcdole/folio/internal/tui"
)

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Browse a portfolio in the terminal",
		Long: `Folio shows a portfolio catalog as a browsable gallery. Image items
open in an auto-playing slideshow; video items open a carousel that hands
the selected video to an external player.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/folio/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "portfolio catalog, overrides catalog.path")

	cmd.AddCommand(
		newWarmCmd(flags),
		newCacheCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	e, err := setup(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	logger := e.logger
	logger.Info("starting folio", "version", Version)

	cat, err := e.loadCatalog()
	if err != nil {
		return err
	}

	path := e.cfg.Catalog.Path
	reload := func() (domain.Catalog, error) {
		c, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	gallerySvc := service.NewGalleryService(cat, reload, logger)
	preloadSvc := service.NewPreloadService(e.fetcher, e.cfg.Cache.FetchTimeout, logger)
	launcher := adapter.NewLauncher(e.cfg.Player.Command, e.cfg.Player.Args, logger)
	playbackSvc := service.NewPlaybackService(launcher, logger)

	model := tui.NewModel(gallerySvc, preloadSvc, playbackSvc, tui.Options{
		Slider:        e.cfg.SliderSettings(),
		FrameInterval: e.cfg.Slider.FrameInterval,
		ShowInspector: e.cfg.UI.ShowInspector,
		ImageWidth:    e.cfg.UI.ImageWidth,
		Logger:        logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	logger.Info("starting TUI", "catalog", cat.Path(), "items", len(cat.Items()))

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
