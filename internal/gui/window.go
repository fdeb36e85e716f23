// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gui is the desktop front end: a single window with Select Folder,
// Start, and Exit buttons, the selected path, a read-only log, and a progress
// bar shown while a run is in progress.
package gui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/pdiddy/office-upgrade/internal/convert"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

// AppID identifies the application to the windowing system.
const AppID = "com.pdiddy.office-upgrade"

const title = "Office Upgrade"

// Runner converts a directory. *convert.Engine implements it.
type Runner interface {
	Run(ctx context.Context, dir string, obs convert.Observer) (convert.Summary, error)
}

// Window holds the widgets and state of the main window. It implements
// convert.Observer; observer calls arrive on the conversion goroutine and only
// touch data bindings, which are safe for concurrent use.
type Window struct {
	win    fyne.Window
	cfg    *types.Config
	runner Runner
	log    *slog.Logger

	pathText     binding.String
	logText      binding.String
	progress     binding.Float
	bar          *widget.ProgressBar
	logEntry     *widget.Entry
	selectButton *widget.Button
	startButton  *widget.Button

	mu    sync.Mutex
	lines []string

	// spawn runs a conversion off the event loop; tests replace it.
	spawn func(func())
}

// NewWindow builds the main window of a.
func NewWindow(a fyne.App, cfg *types.Config, runner Runner, log *slog.Logger) *Window {
	w := &Window{
		win:      a.NewWindow(title),
		cfg:      cfg,
		runner:   runner,
		log:      log,
		pathText: binding.NewString(),
		logText:  binding.NewString(),
		progress: binding.NewFloat(),
		spawn:    func(f func()) { go f() },
	}
	w.build()
	return w
}

func (w *Window) build() {
	w.log.Info("building ui")
	_ = w.pathText.Set(w.cfg.DirPath)

	w.bar = widget.NewProgressBarWithData(w.progress)
	w.bar.Max = convert.MaxProgress
	w.bar.Hide()

	w.logEntry = widget.NewEntryWithData(w.logText)
	w.logEntry.MultiLine = true
	w.logEntry.Wrapping = fyne.TextWrapWord
	w.logEntry.TextStyle = fyne.TextStyle{Monospace: true}
	w.logEntry.SetMinRowsVisible(8)
	w.logEntry.Disable()

	pathLabel := widget.NewLabelWithData(w.pathText)
	pathLabel.Truncation = fyne.TextTruncateEllipsis

	w.selectButton = widget.NewButtonWithIcon("Select Folder", theme.FolderOpenIcon(), w.chooseDir)
	w.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), w.start)
	w.startButton.Importance = widget.HighImportance
	exitButton := widget.NewButtonWithIcon("Exit", theme.CancelIcon(), w.win.Close)

	buttons := container.NewVBox(w.selectButton, w.startButton, layout.NewSpacer(), exitButton)
	left := container.NewBorder(widget.NewCard("", "", pathLabel), nil, nil, nil, container.NewVScroll(w.logEntry))

	w.win.SetContent(container.NewPadded(container.NewBorder(w.bar, nil, nil, buttons, left)))
	w.win.Resize(fyne.NewSize(620, 320))
}

// ShowAndRun displays the window and runs the event loop until it closes.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

func (w *Window) chooseDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if uri == nil {
			return
		}
		w.SelectDir(uri.Path())
	}, w.win)
}

// SelectDir records dir as the directory to convert and clears the display.
func (w *Window) SelectDir(dir string) {
	w.cfg.DirPath = dir
	w.log.Info(fmt.Sprintf("directory select: %s", dir))
	_ = w.pathText.Set(dir)
	w.Reset()
}

// start shows the progress bar at 0 and runs the conversion. The log keeps
// the lines of earlier runs on the same folder.
func (w *Window) start() {
	if w.cfg.DirPath == types.PlaceholderDir {
		dialog.ShowInformation(title, "Select a folder first", w.win)
		return
	}
	w.mu.Lock()
	w.cfg.Progress = 0
	w.mu.Unlock()
	_ = w.progress.Set(0)
	w.bar.Show()
	w.selectButton.Disable()
	w.startButton.Disable()
	w.Update()

	dir := w.cfg.DirPath
	w.spawn(func() {
		defer func() {
			w.selectButton.Enable()
			w.startButton.Enable()
		}()
		if _, err := w.runner.Run(context.Background(), dir, w); err != nil {
			w.log.Error("conversion aborted", "dir", dir, "error", err)
			w.WriteLine(fmt.Sprintf("conversion aborted: %v", err))
			dialog.ShowError(err, w.win)
		}
	})
}

// Update refreshes the window contents.
func (w *Window) Update() {
	w.win.Content().Refresh()
}

// WriteLine appends message to the log view and scrolls to it.
func (w *Window) WriteLine(message string) {
	w.mu.Lock()
	w.lines = append(w.lines, message)
	text := strings.Join(w.lines, "\n")
	row := len(w.lines)
	w.mu.Unlock()

	_ = w.logText.Set(text)
	w.logEntry.CursorRow = row
	w.logEntry.Refresh()
}

// RegisterProgress advances the progress bar by step, saturating at 100.
func (w *Window) RegisterProgress(step float64) {
	w.mu.Lock()
	w.cfg.Progress = convert.Advance(w.cfg.Progress, step)
	v := w.cfg.Progress
	w.mu.Unlock()
	_ = w.progress.Set(v)
}

// ShowInfo shows message in an acknowledgment dialog.
func (w *Window) ShowInfo(message string) {
	dialog.ShowInformation(title, message, w.win)
}

// Reset clears the log and progress bar and hides the bar.
func (w *Window) Reset() {
	w.mu.Lock()
	w.lines = nil
	w.cfg.Progress = 0
	w.mu.Unlock()
	_ = w.logText.Set("")
	_ = w.progress.Set(0)
	w.bar.Hide()
}

// Lines returns the log lines shown in the window.
func (w *Window) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}

func (w *Window) OnProgress(delta float64) { w.RegisterProgress(delta) }

func (w *Window) OnLog(message string) { w.WriteLine(message) }

func (w *Window) OnComplete(summary convert.Summary) { w.ShowInfo(convert.CompletedMessage) }
