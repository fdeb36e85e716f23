// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// errClosed is returned when a closed document is saved.
var errClosed = errors.New("document is closed")

// convertArgs builds the LibreOffice command line that exports src in format f
// into outDir. profile, when set, points LibreOffice at a private user
// installation so concurrent instances do not share a lock.
func convertArgs(f Format, src, outDir, profile string) []string {
	info := formats[f]
	args := []string{"--headless", "--norestore", "--nologo", "--nodefault", "--nolockcheck"}
	if profile != "" {
		args = append(args, "-env:UserInstallation="+fileURL(profile))
	}
	args = append(args,
		"--convert-to", strings.TrimPrefix(info.extension, ".")+":"+info.filter,
		"--outdir", outDir,
		src,
	)
	return args
}

// fileURL turns an absolute filesystem path into a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// stagingDir creates a hidden scratch directory next to target. LibreOffice
// writes its output there; the result is then renamed onto target so a failed
// export never leaves a partial file at the destination.
func stagingDir(target string) (string, error) {
	dir, err := os.MkdirTemp(filepath.Dir(target), ".office-upgrade-*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	return dir, nil
}

// collect moves the file LibreOffice produced for src in outDir onto target.
func collect(outDir, src, target string, f Format) error {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	produced := filepath.Join(outDir, base+f.Extension())
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("no %s output for %s: %w", f, filepath.Base(src), err)
	}
	if err := os.Rename(produced, target); err != nil {
		return fmt.Errorf("moving output to %s: %w", target, err)
	}
	return nil
}

// checkReadable verifies path is a regular file that can be opened.
func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("opening %s: not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return f.Close()
}

// tail trims command output to its last few hundred bytes for error messages.
func tail(out []byte) string {
	const max = 400
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
