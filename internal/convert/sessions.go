// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/office-upgrade/internal/office"
	"github.com/pdiddy/office-upgrade/pkg/types"
)

// sessions owns the application sessions of one run. Each is launched on
// first use and reused for the rest of the run.
type sessions struct {
	service office.Service
	log     *slog.Logger

	document     office.Session
	spreadsheet  office.Session
	presentation office.Session
}

func (s *sessions) slot(kind types.DocumentKind) (*office.Session, error) {
	switch kind {
	case types.KindDocument:
		return &s.document, nil
	case types.KindSpreadsheet:
		return &s.spreadsheet, nil
	case types.KindPresentation:
		return &s.presentation, nil
	}
	return nil, fmt.Errorf("unknown document kind %q", kind)
}

// get returns the session for kind, launching it hidden if needed. The
// spreadsheet application also has its alerts suppressed.
func (s *sessions) get(ctx context.Context, kind types.DocumentKind) (office.Session, error) {
	slot, err := s.slot(kind)
	if err != nil {
		return nil, err
	}
	if *slot != nil {
		return *slot, nil
	}

	opts := office.LaunchOptions{
		Hidden:         true,
		SuppressAlerts: kind == types.KindSpreadsheet,
	}
	sess, err := s.service.Launch(ctx, kind, opts)
	if err != nil {
		return nil, fmt.Errorf("launching %s session: %w", kind, err)
	}
	s.log.Debug("session started", "kind", kind, "backend", s.service.Name())
	*slot = sess
	return sess, nil
}

// close quits every launched session and reports all quit errors.
func (s *sessions) close() error {
	var errs []error
	for _, kind := range []types.DocumentKind{types.KindDocument, types.KindSpreadsheet, types.KindPresentation} {
		slot, _ := s.slot(kind)
		if *slot == nil {
			continue
		}
		if err := (*slot).Quit(); err != nil {
			errs = append(errs, fmt.Errorf("quitting %s session: %w", kind, err))
		} else {
			s.log.Debug("session stopped", "kind", kind)
		}
		*slot = nil
	}
	return errors.Join(errs...)
}
