// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/office-upgrade/internal/container"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

// DefaultImage is the LibreOffice image run by the container backend.
// Build it with `mage image`.
const DefaultImage = "office-upgrade/soffice:latest"

const (
	mountIn  = "/in"
	mountOut = "/out"
)

// ContainerService runs LibreOffice inside a container. The source directory
// is mounted read-only and a staging directory receives the output.
type ContainerService struct {
	runtime container.Runtime
	image   string
	timeout time.Duration
}

// NewContainerService creates a service that runs image through rt.
func NewContainerService(rt container.Runtime, image string, timeout time.Duration) *ContainerService {
	if image == "" {
		image = DefaultImage
	}
	return &ContainerService{runtime: rt, image: image, timeout: timeout}
}

func (c *ContainerService) Name() string { return string(types.BackendContainer) }

// Launch verifies the image exists locally; containers are started per save.
func (c *ContainerService) Launch(ctx context.Context, kind types.DocumentKind, opts LaunchOptions) (Session, error) {
	if err := c.runtime.ImageExists(c.image); err != nil {
		return nil, fmt.Errorf("%s image not available in %s: %w", kind, c.runtime.Name(), err)
	}
	return &containerSession{service: c}, nil
}

type containerSession struct {
	service *ContainerService
}

func (s *containerSession) Open(ctx context.Context, path string) (Document, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	return &containerDocument{session: s, src: path}, nil
}

func (s *containerSession) Quit() error { return nil }

type containerDocument struct {
	session *containerSession
	src     string
	closed  bool
}

func (d *containerDocument) SaveAs(ctx context.Context, path string, f Format) error {
	if d.closed {
		return errClosed
	}
	svc := d.session.service

	outDir, err := stagingDir(path)
	if err != nil {
		return err
	}
	defer os.RemoveAll(outDir)

	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}

	name := filepath.Base(d.src)
	args := append([]string{DefaultSofficeBin}, convertArgs(f, mountIn+"/"+name, mountOut, "")...)

	var out bytes.Buffer
	err = svc.runtime.Run(ctx, container.RunOptions{
		Image: svc.image,
		Mounts: []container.Mount{
			{Source: filepath.Dir(d.src), Target: mountIn, ReadOnly: true},
			{Source: outDir, Target: mountOut},
		},
		Args:   args,
		Output: &out,
	})
	if err != nil {
		return fmt.Errorf("converting %s to %s: %w: %s", name, f, err, tail(out.Bytes()))
	}
	return collect(outDir, d.src, path, f)
}

func (d *containerDocument) Close() error {
	d.closed = true
	return nil
}
