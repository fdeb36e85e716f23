// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package termui renders a conversion run in a terminal: one line per log
// message and a progress bar redrawn below them.
package termui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/office-upgrade/internal/convert"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

const barWidth = 40

// Terminal presents a run on a text stream. It implements convert.Observer.
type Terminal struct {
	out         io.Writer
	cfg         *types.Config
	interactive bool
	barVisible  bool

	bar       progress.Model
	lineStyle lipgloss.Style
	failStyle lipgloss.Style
	infoStyle lipgloss.Style
}

// New creates a terminal presenter writing to out and keeping the progress
// value in cfg. When interactive is false the bar is not redrawn in place;
// only the final value is printed.
func New(out io.Writer, cfg *types.Config, interactive bool) *Terminal {
	r := lipgloss.NewRenderer(out)
	return &Terminal{
		out:         out,
		cfg:         cfg,
		interactive: interactive,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		lineStyle:   r.NewStyle().Faint(true),
		failStyle:   r.NewStyle().Foreground(lipgloss.Color("9")),
		infoStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	}
}

// Start resets the display and shows the progress bar at 0.
func (t *Terminal) Start() {
	t.Reset()
	fmt.Fprintf(t.out, "Converting %s\n", t.cfg.DirPath)
	t.barVisible = true
	t.Update()
}

// Update redraws the progress bar.
func (t *Terminal) Update() {
	if !t.barVisible || !t.interactive {
		return
	}
	fmt.Fprint(t.out, "\r"+t.bar.ViewAs(t.cfg.Progress/convert.MaxProgress))
}

// WriteLine prints message above the progress bar.
func (t *Terminal) WriteLine(message string) {
	t.clearBar()
	style := t.lineStyle
	if strings.HasSuffix(message, " failed") {
		style = t.failStyle
	}
	fmt.Fprintln(t.out, style.Render(message))
	t.Update()
}

// RegisterProgress advances the progress value by step, saturating at 100.
func (t *Terminal) RegisterProgress(step float64) {
	t.cfg.Progress = convert.Advance(t.cfg.Progress, step)
	t.Update()
}

// ShowInfo ends the progress display and prints message.
func (t *Terminal) ShowInfo(message string) {
	if t.barVisible {
		if t.interactive {
			fmt.Fprintln(t.out)
		} else {
			fmt.Fprintln(t.out, t.bar.ViewAs(t.cfg.Progress/convert.MaxProgress))
		}
		t.barVisible = false
	}
	fmt.Fprintln(t.out, t.infoStyle.Render(message))
}

// Reset clears the progress value and hides the bar.
func (t *Terminal) Reset() {
	t.cfg.Progress = 0
	t.barVisible = false
}

func (t *Terminal) clearBar() {
	if t.barVisible && t.interactive {
		fmt.Fprint(t.out, "\r"+strings.Repeat(" ", barWidth+8)+"\r")
	}
}

func (t *Terminal) OnProgress(delta float64) { t.RegisterProgress(delta) }

func (t *Terminal) OnLog(message string) { t.WriteLine(message) }

func (t *Terminal) OnComplete(summary convert.Summary) { t.ShowInfo(convert.CompletedMessage) }
