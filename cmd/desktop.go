package main

import (
	"context"
	"tumotrack/internal/config"
	"tumotrack/internal/desktop"
	"tumotrack/internal/predictor"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
)

const appID = "com.tumotrack.desktop"

func desktopCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desktop",
		Short: "Opens the desktop dialog",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			journal, closeJournal := getJournal(ctx, cfg)
			defer closeJournal()

			p := getPredictor(ctx, predictor.NewOptions(cfg), journal)

			app := fyneapp.NewWithID(appID)
			d := desktop.NewDesktop(ctx, app, p, desktop.Options{
				Width:  cfg.Desktop.Width,
				Height: cfg.Desktop.Height,
			}, nil)
			d.Window().Show()
			d.CheckReady()
			app.Run()
		},
	}

	return cmd
}

func toyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toy",
		Short: "Opens the five-feature toy dialog",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			journal, closeJournal := getJournal(ctx, cfg)
			defer closeJournal()

			p := getPredictor(ctx, predictor.ToyOptions(), journal)

			app := fyneapp.NewWithID(appID)
			t := desktop.NewToy(ctx, app, p, desktop.Options{
				Width:  cfg.Desktop.Width / 2,
				Height: cfg.Desktop.Height / 2,
			}, nil)
			t.Window().ShowAndRun()
		},
	}

	return cmd
}
