// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package office

import (
	"context"
	"errors"

	"github.com/pdiddy/office-upgrade/pkg/types"
)

// ErrCOMUnsupported is returned when COM automation is requested outside Windows.
var ErrCOMUnsupported = errors.New("COM automation is only available on Windows")

// COMService automates Microsoft Office through COM. Outside Windows every
// Launch fails with ErrCOMUnsupported.
type COMService struct{}

// NewCOMService returns the COM automation backend.
func NewCOMService() *COMService { return &COMService{} }

func (s *COMService) Name() string { return string(types.BackendCOM) }

func (s *COMService) Launch(ctx context.Context, kind types.DocumentKind, opts LaunchOptions) (Session, error) {
	return nil, ErrCOMUnsupported
}
