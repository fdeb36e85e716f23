// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/pdiddy/office-upgrade/internal/convert"
	"github.com/pdiddy/office-upgrade/internal/gui"
	"github.com/pdiddy/office-upgrade/internal/office"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

var guiCmd = &cobra.Command{
	Use:   "gui [dir]",
	Short: "Open the desktop window",
	Long: `Gui opens a window to pick a folder, start the conversion, and follow its
progress. When dir is given it is preselected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg := converterConfig()
	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer log.Close()

	state := types.NewConfig()
	if len(args) > 0 {
		state.DirPath = args[0]
	}

	runner := &lazyEngine{cfg: cfg, log: log.Named("engine")}
	w := gui.NewWindow(app.NewWithID(gui.AppID), state, runner, log.Named("ui"))
	w.ShowAndRun()
	return nil
}

// lazyEngine resolves the automation backend on the first run so the window
// opens even when no backend is available; the error is shown on Start.
type lazyEngine struct {
	cfg types.ConverterConfig
	log *slog.Logger

	once   sync.Once
	engine *convert.Engine
	err    error
}

func (l *lazyEngine) Run(ctx context.Context, dir string, obs convert.Observer) (convert.Summary, error) {
	l.once.Do(func() {
		svc, err := office.NewService(l.cfg)
		if err != nil {
			l.err = err
			return
		}
		l.engine = convert.NewEngine(svc, l.log)
	})
	if l.err != nil {
		return convert.Summary{}, l.err
	}
	return l.engine.Run(ctx, dir, obs)
}
