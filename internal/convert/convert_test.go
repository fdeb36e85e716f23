// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/office-upgrade/internal/logging"
	"github.com/pdiddy/office-upgrade/internal/office"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

// fakeService implements office.Service. Documents "save" by writing a file
// at the requested path; failures are configured per file name.
type fakeService struct {
	launchErr map[types.DocumentKind]error
	openErr   map[string]error
	saveErr   map[string]error
	closeErr  map[string]error
	// writeOnFailedSave leaves a partial output behind when SaveAs fails.
	writeOnFailedSave bool
	// onClose runs after a document closes successfully.
	onClose func(name string)

	launches []launch
	sessions []*fakeSession
}

type launch struct {
	kind types.DocumentKind
	opts office.LaunchOptions
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) Launch(ctx context.Context, kind types.DocumentKind, opts office.LaunchOptions) (office.Session, error) {
	f.launches = append(f.launches, launch{kind: kind, opts: opts})
	if err := f.launchErr[kind]; err != nil {
		return nil, err
	}
	s := &fakeSession{service: f, kind: kind}
	f.sessions = append(f.sessions, s)
	return s, nil
}

type fakeSession struct {
	service *fakeService
	kind    types.DocumentKind
	opened  []string
	quit    int
}

func (s *fakeSession) Open(ctx context.Context, path string) (office.Document, error) {
	name := filepath.Base(path)
	s.opened = append(s.opened, name)
	if err := s.service.openErr[name]; err != nil {
		return nil, err
	}
	return &fakeDocument{session: s, name: name}, nil
}

func (s *fakeSession) Quit() error {
	s.quit++
	return nil
}

type fakeDocument struct {
	session *fakeSession
	name    string
}

func (d *fakeDocument) SaveAs(ctx context.Context, path string, f office.Format) error {
	svc := d.session.service
	if err := svc.saveErr[d.name]; err != nil {
		if svc.writeOnFailedSave {
			_ = os.WriteFile(path, []byte("partial"), 0o644)
		}
		return err
	}
	return os.WriteFile(path, []byte(f.String()), 0o644)
}

func (d *fakeDocument) Close() error {
	svc := d.session.service
	if err := svc.closeErr[d.name]; err != nil {
		return err
	}
	if svc.onClose != nil {
		svc.onClose(d.name)
	}
	return nil
}

// recorder implements Observer and keeps everything it is told.
type recorder struct {
	progress  float64
	max       float64
	deltas    []float64
	lines     []string
	completed int
	summary   Summary
}

func (r *recorder) OnProgress(delta float64) {
	r.deltas = append(r.deltas, delta)
	r.progress = Advance(r.progress, delta)
	if r.progress > r.max {
		r.max = r.progress
	}
}

func (r *recorder) OnLog(message string) { r.lines = append(r.lines, message) }

func (r *recorder) OnComplete(s Summary) {
	r.completed++
	r.summary = s
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("legacy "+name), 0o644))
	}
}

func run(t *testing.T, svc *fakeService, dir string) (Summary, *recorder, error) {
	t.Helper()
	rec := &recorder{}
	s, err := NewEngine(svc, logging.Discard()).Run(context.Background(), dir, rec)
	return s, rec, err
}

func TestRun_ConvertsLegacyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc", "b.xls", "c.txt")

	svc := &fakeService{}
	summary, rec, err := run(t, svc, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "a.docx"))
	assert.FileExists(t, filepath.Join(dir, "b.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "a.doc"))
	assert.NoFileExists(t, filepath.Join(dir, "b.xls"))
	assert.FileExists(t, filepath.Join(dir, ArchiveDir, "a.doc"))
	assert.FileExists(t, filepath.Join(dir, ArchiveDir, "b.xls"))
	assert.FileExists(t, filepath.Join(dir, "c.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "c.docx"))

	want := []string{"convert file a.doc to docx", "convert file b.xls to xlsx"}
	if diff := cmp.Diff(want, rec.lines); diff != "" {
		t.Errorf("log lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, MaxProgress, rec.progress)
	assert.Equal(t, 1, rec.completed)

	assert.Equal(t, 2, summary.Converted)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Total())
	assert.False(t, summary.HasFailures())
	assert.Equal(t, summary, rec.summary)
}

func TestRun_OpenFailureLeavesFileInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc")

	svc := &fakeService{openErr: map[string]error{"a.doc": errors.New("file is corrupt")}}
	summary, rec, err := run(t, svc, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "a.doc"))
	assert.NoFileExists(t, filepath.Join(dir, "a.docx"))
	assert.NoFileExists(t, filepath.Join(dir, ArchiveDir, "a.doc"))

	want := []string{"convert file a.doc to docx", "conversion of file a.doc failed"}
	if diff := cmp.Diff(want, rec.lines); diff != "" {
		t.Errorf("log lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, MaxProgress, rec.progress)
	assert.Equal(t, 1, rec.completed)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, types.ConversionFailed, summary.Results[0].Status)
	assert.ErrorContains(t, summary.Results[0].Err, "file is corrupt")
	assert.True(t, summary.HasFailures())
}

func TestRun_FailuresDoNotLeaveOutput(t *testing.T) {
	tests := []struct {
		name string
		svc  *fakeService
	}{
		{
			name: "save fails after partial write",
			svc:  &fakeService{saveErr: map[string]error{"a.doc": errors.New("disk full")}, writeOnFailedSave: true},
		},
		{
			name: "close fails",
			svc:  &fakeService{closeErr: map[string]error{"a.doc": errors.New("document busy")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, "a.doc", "b.doc")

			summary, rec, err := run(t, tt.svc, dir)
			require.NoError(t, err)

			assert.FileExists(t, filepath.Join(dir, "a.doc"))
			assert.NoFileExists(t, filepath.Join(dir, "a.docx"))
			assert.Contains(t, rec.lines, "conversion of file a.doc failed")

			assert.FileExists(t, filepath.Join(dir, "b.docx"))
			assert.FileExists(t, filepath.Join(dir, ArchiveDir, "b.doc"))
			assert.Equal(t, 1, summary.Converted)
			assert.Equal(t, 1, summary.Failed)
			assert.Equal(t, MaxProgress, rec.progress)
		})
	}
}

func TestRun_MoveFailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc")
	archive := filepath.Join(dir, ArchiveDir)

	// Replace the archive directory with a regular file once the document is
	// saved, so only the final move fails.
	svc := &fakeService{onClose: func(string) {
		require.NoError(t, os.Remove(archive))
		require.NoError(t, os.WriteFile(archive, []byte("not a directory"), 0o644))
	}}
	summary, rec, err := run(t, svc, dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "a.doc"))
	assert.NoFileExists(t, filepath.Join(dir, "a.docx"))

	want := []string{"convert file a.doc to docx", "conversion of file a.doc failed"}
	if diff := cmp.Diff(want, rec.lines); diff != "" {
		t.Errorf("log lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, MaxProgress, rec.progress)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 1)
	assert.ErrorContains(t, summary.Results[0].Err, "moving to "+ArchiveDir)
}

func TestRun_ArchiveCollision(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc")
	require.NoError(t, os.Mkdir(filepath.Join(dir, ArchiveDir), 0o755))
	writeFiles(t, filepath.Join(dir, ArchiveDir), "a.doc")

	summary, rec, err := run(t, &fakeService{}, dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.ErrorContains(t, summary.Results[0].Err, "already exists")
	assert.FileExists(t, filepath.Join(dir, "a.doc"))
	assert.NoFileExists(t, filepath.Join(dir, "a.docx"))
	assert.Contains(t, rec.lines, "conversion of file a.doc failed")
}

func TestRun_NoConvertibleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.txt", "report.docx")

	svc := &fakeService{}
	summary, rec, err := run(t, svc, dir)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total())
	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, rec.deltas)
	assert.Equal(t, 0.0, rec.progress)
	assert.Equal(t, 1, rec.completed)
	assert.Empty(t, svc.launches)
	assert.NoDirExists(t, filepath.Join(dir, ArchiveDir))
	require.Len(t, rec.lines, 1)
	assert.Contains(t, rec.lines[0], "no convertible files found")
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc", "b.ppt", "c.xls")

	first, _, err := run(t, &fakeService{}, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Converted)

	svc := &fakeService{}
	second, rec, err := run(t, svc, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Total())
	assert.Equal(t, 3, second.Skipped, "modern files are skipped, the archive is not counted")
	assert.Empty(t, svc.launches)
	assert.Equal(t, 1, rec.completed)
}

func TestRun_InvalidDirectory(t *testing.T) {
	rec := &recorder{}
	_, err := NewEngine(&fakeService{}, logging.Discard()).Run(context.Background(), filepath.Join(t.TempDir(), "missing"), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading directory")
	assert.Equal(t, 0, rec.completed)
}

func TestRun_SessionsLaunchedLazilyAndQuit(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc", "b.doc", "c.ppt", "d.DOC")

	svc := &fakeService{}
	summary, _, err := run(t, svc, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Converted)

	kinds := make([]types.DocumentKind, 0, len(svc.launches))
	for _, l := range svc.launches {
		kinds = append(kinds, l.kind)
		assert.True(t, l.opts.Hidden)
	}
	assert.Equal(t, []types.DocumentKind{types.KindDocument, types.KindPresentation}, kinds)

	for _, s := range svc.sessions {
		assert.Equal(t, 1, s.quit, "%s session should quit once", s.kind)
	}
	assert.Equal(t, []string{"a.doc", "b.doc", "d.DOC"}, svc.sessions[0].opened)
	assert.FileExists(t, filepath.Join(dir, "d.docx"))
}

func TestRun_SpreadsheetSuppressesAlerts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.xls")

	svc := &fakeService{}
	_, _, err := run(t, svc, dir)
	require.NoError(t, err)
	require.Len(t, svc.launches, 1)
	assert.True(t, svc.launches[0].opts.SuppressAlerts)
}

func TestRun_LaunchFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc", "b.xls")

	svc := &fakeService{launchErr: map[types.DocumentKind]error{
		types.KindSpreadsheet: errors.New("Excel is not installed"),
	}}
	summary, rec, err := run(t, svc, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launching spreadsheet session")

	assert.Equal(t, 1, summary.Converted)
	assert.Equal(t, 0, rec.completed)
	require.Len(t, svc.sessions, 1)
	assert.Equal(t, 1, svc.sessions[0].quit, "sessions launched before the failure must be shut down")
	assert.FileExists(t, filepath.Join(dir, "b.xls"))
}

func TestRun_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.doc")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	_, err := NewEngine(&fakeService{}, logging.Discard()).Run(ctx, dir, rec)
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(dir, "a.doc"))
	assert.Equal(t, 0, rec.completed)
}

func TestRun_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.doc"), 0o755))
	writeFiles(t, dir, "a.ppt")

	svc := &fakeService{}
	summary, rec, err := run(t, svc, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Converted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, []float64{MaxProgress}, rec.deltas)
	assert.DirExists(t, filepath.Join(dir, "folder.doc"))
}

func TestRun_ProgressReachesExactlyHundred(t *testing.T) {
	for _, n := range []int{1, 3, 6, 7, 11} {
		dir := t.TempDir()
		for i := 0; i < n; i++ {
			writeFiles(t, dir, string(rune('a'+i))+".doc")
		}
		_, rec, err := run(t, &fakeService{}, dir)
		require.NoError(t, err)
		assert.Len(t, rec.deltas, n)
		assert.Equal(t, MaxProgress, rec.progress, "n=%d", n)
		assert.LessOrEqual(t, rec.max, MaxProgress, "n=%d", n)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.xls", "a.doc", "c.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, ArchiveDir), 0o755))

	targets, skipped, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, targets, 2)
	assert.Equal(t, "a.doc", targets[0].Name)
	assert.Equal(t, filepath.Join(dir, "a.docx"), targets[0].OutputPath())
	assert.Equal(t, "xlsx", targets[1].TargetExtension())
}
