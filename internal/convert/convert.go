// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert upgrades the legacy office files of a directory to the
// XML-based formats. Each .doc, .xls, and .ppt file at the top level is opened
// in an office automation session, saved next to the original with the modern
// extension, and the original is moved into the OLD FORMAT subdirectory.
// Files that fail are logged and left in place; the batch always continues.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/office-upgrade/internal/office"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

const (
	// ArchiveDir is the subdirectory that receives converted originals.
	ArchiveDir = "OLD FORMAT"
	// CompletedMessage is shown to the user when a run finishes.
	CompletedMessage = "Conversion process completed"
)

// Observer receives progress while a directory is converted. Calls happen on
// the goroutine running Engine.Run.
type Observer interface {
	// OnProgress advances the progress value by delta percentage points.
	OnProgress(delta float64)
	// OnLog reports one line of conversion output.
	OnLog(message string)
	// OnComplete is called once when the run finishes, including runs with
	// no convertible files.
	OnComplete(summary Summary)
}

// Target is a legacy file selected for conversion.
type Target struct {
	Name    string
	Path    string
	Mapping office.Mapping
}

// OutputPath returns the path of the converted file: the same base name with
// the modern extension, in the same directory.
func (t Target) OutputPath() string {
	base := strings.TrimSuffix(t.Path, filepath.Ext(t.Path))
	return base + t.Mapping.Format.Extension()
}

// TargetExtension returns the modern extension without the dot, e.g. "docx".
func (t Target) TargetExtension() string {
	return strings.TrimPrefix(t.Mapping.Format.Extension(), ".")
}

// Result holds the outcome of one target.
type Result struct {
	Target Target
	Status types.ConversionStatus
	// Err is set when Status is ConversionFailed.
	Err error
}

// Summary holds the outcome of a conversion run.
type Summary struct {
	Converted int
	Failed    int
	// Skipped counts directory entries that are not legacy files.
	Skipped int
	Results []Result
}

// Total returns the number of convertible files processed.
func (s Summary) Total() int {
	return s.Converted + s.Failed
}

// HasFailures reports whether any file failed conversion.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case types.ConversionDone:
		s.Converted++
	case types.ConversionFailed:
		s.Failed++
	}
}

// Engine converts directories through an office automation service.
type Engine struct {
	service office.Service
	log     *slog.Logger
}

// NewEngine creates an engine launching sessions from svc and logging to log.
func NewEngine(svc office.Service, log *slog.Logger) *Engine {
	return &Engine{service: svc, log: log}
}

// Scan lists the legacy files at the top level of dir in directory order and
// counts the other entries. Directories, including the archive, are never
// targets.
func Scan(dir string) (targets []Target, skipped int, err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("resolving %s: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, 0, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() && name == ArchiveDir {
			continue
		}
		path := filepath.Join(abs, name)
		m, ok := office.Lookup(filepath.Ext(name))
		if !ok || !isFile(path) {
			skipped++
			continue
		}
		targets = append(targets, Target{Name: name, Path: path, Mapping: m})
	}
	return targets, skipped, nil
}

// isFile reports whether path is a regular file, following symlinks.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Run converts every legacy file at the top level of dir, reporting to obs.
//
// A directory without legacy files completes immediately with an empty
// summary. Per-file failures are recorded in the summary and never abort the
// run. Run returns an error only when dir cannot be read, the archive
// directory cannot be created, a session cannot be launched, or ctx is done.
func (e *Engine) Run(ctx context.Context, dir string, obs Observer) (Summary, error) {
	targets, skipped, err := Scan(dir)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Skipped: skipped}

	if len(targets) == 0 {
		msg := fmt.Sprintf("no convertible files found in %s", dir)
		e.log.Info(msg)
		obs.OnLog(msg)
		obs.OnComplete(summary)
		return summary, nil
	}

	archive := filepath.Join(filepath.Dir(targets[0].Path), ArchiveDir)
	if err := os.MkdirAll(archive, 0o755); err != nil {
		return summary, fmt.Errorf("creating archive directory: %w", err)
	}

	if err := e.convertAll(ctx, targets, archive, obs, &summary); err != nil {
		return summary, err
	}

	e.log.Info("batch finished",
		"converted", summary.Converted, "failed", summary.Failed, "skipped", summary.Skipped)
	obs.OnComplete(summary)
	return summary, nil
}

// convertAll processes targets in order. Every session launched here is shut
// down before it returns, whatever the exit path.
func (e *Engine) convertAll(ctx context.Context, targets []Target, archive string, obs Observer, summary *Summary) (err error) {
	sess := &sessions{service: e.service, log: e.log}
	defer func() {
		if qerr := sess.close(); qerr != nil {
			e.log.Warn("shutting down sessions", "error", qerr)
		}
	}()

	steps := newStepper(len(targets))
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := sess.get(ctx, t.Mapping.Kind)
		if err != nil {
			return err
		}
		summary.add(e.convertFile(ctx, s, t, archive, obs))
		obs.OnProgress(steps.next())
	}
	return nil
}

// convertFile converts one target and reports the attempt to obs.
func (e *Engine) convertFile(ctx context.Context, s office.Session, t Target, archive string, obs Observer) Result {
	msg := fmt.Sprintf("convert file %s to %s", t.Name, t.TargetExtension())
	e.log.Info(msg)
	obs.OnLog(msg)

	if err := convertOne(ctx, s, t, archive); err != nil {
		msg := fmt.Sprintf("conversion of file %s failed", t.Name)
		e.log.Warn(msg, "error", err)
		obs.OnLog(msg)
		return Result{Target: t, Status: types.ConversionFailed, Err: err}
	}
	return Result{Target: t, Status: types.ConversionDone}
}

// convertOne opens t, saves the modern copy, closes the document, and moves
// the original into archive. On failure the original stays in place and a
// modern file created by this attempt is removed.
func convertOne(ctx context.Context, s office.Session, t Target, archive string) (err error) {
	dest := filepath.Join(archive, t.Name)
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%s already exists in %s", t.Name, ArchiveDir)
	}

	out := t.OutputPath()
	_, statErr := os.Lstat(out)
	outExisted := statErr == nil
	defer func() {
		if err != nil && !outExisted {
			if rerr := os.Remove(out); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("removing partial output: %w", rerr))
			}
		}
	}()

	doc, err := s.Open(ctx, t.Path)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	if err := doc.SaveAs(ctx, out, t.Mapping.Format); err != nil {
		_ = doc.Close()
		return fmt.Errorf("saving as %s: %w", t.TargetExtension(), err)
	}
	if err := doc.Close(); err != nil {
		return fmt.Errorf("closing: %w", err)
	}
	if err := os.Rename(t.Path, dest); err != nil {
		return fmt.Errorf("moving to %s: %w", ArchiveDir, err)
	}
	return nil
}
