// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pdiddy/office-upgrade/pkg/types"
)

// DefaultSofficeBin is the LibreOffice binary looked up on PATH.
const DefaultSofficeBin = "soffice"

// commander abstracts command execution for testing.
type commander interface {
	LookPath(file string) (string, error)
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osCommander is the production commander backed by os/exec.
type osCommander struct{}

func (o *osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osCommander) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// SofficeService runs LibreOffice in headless mode on the local machine.
// Each session gets a private profile directory, removed on Quit.
type SofficeService struct {
	bin     string
	timeout time.Duration
	cmd     commander
}

// NewSofficeService creates a service running bin (DefaultSofficeBin when
// empty). A positive timeout bounds each SaveAs call.
func NewSofficeService(bin string, timeout time.Duration) *SofficeService {
	return newSofficeService(bin, timeout, &osCommander{})
}

func newSofficeService(bin string, timeout time.Duration, cmd commander) *SofficeService {
	if bin == "" {
		bin = DefaultSofficeBin
	}
	return &SofficeService{bin: bin, timeout: timeout, cmd: cmd}
}

func (s *SofficeService) Name() string { return string(types.BackendSoffice) }

// Available reports whether the binary exists on PATH.
func (s *SofficeService) Available() bool {
	_, err := s.cmd.LookPath(s.bin)
	return err == nil
}

// Launch resolves the binary and prepares a private profile directory.
// LibreOffice has no visible window in headless mode and never prompts, so
// opts need no further handling.
func (s *SofficeService) Launch(ctx context.Context, kind types.DocumentKind, opts LaunchOptions) (Session, error) {
	path, err := s.cmd.LookPath(s.bin)
	if err != nil {
		return nil, fmt.Errorf("%s binary not found: %w", s.bin, err)
	}
	profile, err := os.MkdirTemp("", "office-upgrade-"+string(kind)+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating %s profile directory: %w", kind, err)
	}
	return &sofficeSession{service: s, bin: path, profile: profile}, nil
}

type sofficeSession struct {
	service *SofficeService
	bin     string
	profile string
}

func (s *sofficeSession) Open(ctx context.Context, path string) (Document, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	return &sofficeDocument{session: s, src: path}, nil
}

func (s *sofficeSession) Quit() error {
	if err := os.RemoveAll(s.profile); err != nil {
		return fmt.Errorf("removing profile %s: %w", s.profile, err)
	}
	return nil
}

type sofficeDocument struct {
	session *sofficeSession
	src     string
	closed  bool
}

func (d *sofficeDocument) SaveAs(ctx context.Context, path string, f Format) error {
	if d.closed {
		return errClosed
	}
	outDir, err := stagingDir(path)
	if err != nil {
		return err
	}
	defer os.RemoveAll(outDir)

	if t := d.session.service.timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	args := convertArgs(f, d.src, outDir, d.session.profile)
	out, err := d.session.service.cmd.CombinedOutput(ctx, d.session.bin, args...)
	if err != nil {
		return fmt.Errorf("converting %s to %s: %w: %s", filepath.Base(d.src), f, err, tail(out))
	}
	return collect(outDir, d.src, path, f)
}

func (d *sofficeDocument) Close() error {
	d.closed = true
	return nil
}
