// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"errors"
	"testing"

	"github.com/pdiddy/office-upgrade/internal/container"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

func TestNewService(t *testing.T) {
	withRuntime := func() (container.Runtime, error) { return &fakeRuntime{}, nil }
	noRuntime := func() (container.Runtime, error) { return nil, errors.New("no container runtime available") }
	onPath := &fakeCommander{paths: map[string]bool{"soffice": true, "libreoffice": true}}
	empty := &fakeCommander{}

	tests := []struct {
		name     string
		backend  types.Backend
		bin      string
		goos     string
		cmd      *fakeCommander
		detect   func() (container.Runtime, error)
		wantName string
		wantErr  bool
	}{
		{name: "explicit com", backend: types.BackendCOM, goos: "linux", cmd: empty, detect: noRuntime, wantName: "com"},
		{name: "explicit soffice", backend: types.BackendSoffice, goos: "linux", cmd: empty, detect: noRuntime, wantName: "soffice"},
		{name: "explicit container", backend: types.BackendContainer, goos: "linux", cmd: empty, detect: withRuntime, wantName: "container"},
		{name: "explicit container without runtime", backend: types.BackendContainer, goos: "linux", cmd: empty, detect: noRuntime, wantErr: true},
		{name: "auto on windows", backend: types.BackendAuto, goos: "windows", cmd: onPath, detect: withRuntime, wantName: "com"},
		{name: "auto prefers soffice", backend: types.BackendAuto, goos: "linux", cmd: onPath, detect: withRuntime, wantName: "soffice"},
		{name: "auto custom binary", backend: "", bin: "libreoffice", goos: "darwin", cmd: onPath, detect: noRuntime, wantName: "soffice"},
		{name: "auto falls back to container", backend: types.BackendAuto, goos: "linux", cmd: empty, detect: withRuntime, wantName: "container"},
		{name: "auto with nothing available", backend: types.BackendAuto, goos: "linux", cmd: empty, detect: noRuntime, wantErr: true},
		{name: "unknown backend", backend: "word", goos: "linux", cmd: empty, detect: withRuntime, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.ConverterConfig{Backend: tt.backend, SofficeBin: tt.bin}
			svc, err := newService(cfg, tt.goos, tt.cmd, tt.detect)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got service %q", svc.Name())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.Name() != tt.wantName {
				t.Errorf("got backend %q, want %q", svc.Name(), tt.wantName)
			}
		})
	}
}
