// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"fmt"
	goruntime "runtime"

	"github.com/pdiddy/office-upgrade/internal/container"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

// NewService builds the Service selected by cfg.Backend.
func NewService(cfg types.ConverterConfig) (Service, error) {
	return newService(cfg, goruntime.GOOS, &osCommander{}, container.DetectRuntime)
}

func newService(cfg types.ConverterConfig, goos string, cmd commander, detect func() (container.Runtime, error)) (Service, error) {
	switch cfg.Backend {
	case types.BackendCOM:
		return NewCOMService(), nil
	case types.BackendSoffice:
		return newSofficeService(cfg.SofficeBin, cfg.Timeout, cmd), nil
	case types.BackendContainer:
		rt, err := detect()
		if err != nil {
			return nil, err
		}
		return NewContainerService(rt, cfg.Image, cfg.Timeout), nil
	case types.BackendAuto, "":
		if goos == "windows" {
			return NewCOMService(), nil
		}
		soffice := newSofficeService(cfg.SofficeBin, cfg.Timeout, cmd)
		if soffice.Available() {
			return soffice, nil
		}
		rt, err := detect()
		if err != nil {
			return nil, fmt.Errorf("no office backend available: %s not on PATH and %w", soffice.bin, err)
		}
		return NewContainerService(rt, cfg.Image, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use auto, com, soffice, or container", cfg.Backend)
	}
}
