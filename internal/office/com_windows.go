// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package office

import (
	"context"
	"errors"
	"fmt"
	goruntime "runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/pdiddy/office-upgrade/pkg/types"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on
// the calling thread.
const sFalse = 1

// comApp names the automation server and document collection per kind.
type comApp struct {
	progID     string
	collection string
}

var comApps = map[types.DocumentKind]comApp{
	types.KindDocument:     {progID: "Word.Application", collection: "Documents"},
	types.KindSpreadsheet:  {progID: "Excel.Application", collection: "Workbooks"},
	types.KindPresentation: {progID: "PowerPoint.Application", collection: "Presentations"},
}

// COMService automates Microsoft Office through its COM interface.
// Sessions pin the calling goroutine to its OS thread until Quit, as the
// Office servers are apartment threaded.
type COMService struct{}

// NewCOMService returns the COM automation backend.
func NewCOMService() *COMService { return &COMService{} }

func (s *COMService) Name() string { return string(types.BackendCOM) }

func (s *COMService) Launch(ctx context.Context, kind types.DocumentKind, opts LaunchOptions) (sess Session, err error) {
	app, ok := comApps[kind]
	if !ok {
		return nil, fmt.Errorf("no automation server for %s", kind)
	}

	goruntime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			goruntime.UnlockOSThread()
			return nil, fmt.Errorf("initializing COM: %w", err)
		}
	}
	defer func() {
		if err != nil {
			ole.CoUninitialize()
			goruntime.UnlockOSThread()
		}
	}()

	unknown, err := oleutil.CreateObject(app.progID)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", app.progID, err)
	}
	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		return nil, fmt.Errorf("querying %s dispatch: %w", app.progID, err)
	}

	// PowerPoint refuses to hide its application window.
	if opts.Hidden && kind != types.KindPresentation {
		if _, err := oleutil.PutProperty(disp, "Visible", false); err != nil {
			disp.Release()
			return nil, fmt.Errorf("hiding %s: %w", app.progID, err)
		}
	}
	if opts.SuppressAlerts {
		if _, err := oleutil.PutProperty(disp, "DisplayAlerts", false); err != nil {
			disp.Release()
			return nil, fmt.Errorf("suppressing %s alerts: %w", app.progID, err)
		}
	}

	coll, err := oleutil.GetProperty(disp, app.collection)
	if err != nil {
		disp.Release()
		return nil, fmt.Errorf("reading %s.%s: %w", app.progID, app.collection, err)
	}

	return &comSession{kind: kind, app: disp, docs: coll.ToIDispatch()}, nil
}

type comSession struct {
	kind types.DocumentKind
	app  *ole.IDispatch
	docs *ole.IDispatch
}

func (s *comSession) Open(ctx context.Context, path string) (Document, error) {
	var (
		v   *ole.VARIANT
		err error
	)
	if s.kind == types.KindPresentation {
		// FileName, ReadOnly, Untitled, WithWindow (msoFalse).
		v, err = oleutil.CallMethod(s.docs, "Open", path, int32(0), int32(0), int32(0))
	} else {
		v, err = oleutil.CallMethod(s.docs, "Open", path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &comDocument{kind: s.kind, disp: v.ToIDispatch()}, nil
}

func (s *comSession) Quit() error {
	_, err := oleutil.CallMethod(s.app, "Quit")
	s.docs.Release()
	s.app.Release()
	ole.CoUninitialize()
	goruntime.UnlockOSThread()
	if err != nil {
		return fmt.Errorf("quitting %s: %w", comApps[s.kind].progID, err)
	}
	return nil
}

type comDocument struct {
	kind types.DocumentKind
	disp *ole.IDispatch
}

func (d *comDocument) SaveAs(ctx context.Context, path string, f Format) error {
	if d.disp == nil {
		return errClosed
	}
	if _, err := oleutil.CallMethod(d.disp, "SaveAs", path, formats[f].comConst); err != nil {
		return fmt.Errorf("saving %s as %s: %w", path, f, err)
	}
	return nil
}

func (d *comDocument) Close() error {
	if d.disp == nil {
		return nil
	}
	var err error
	if d.kind == types.KindPresentation {
		_, err = oleutil.CallMethod(d.disp, "Close")
	} else {
		// SaveChanges = false.
		_, err = oleutil.CallMethod(d.disp, "Close", false)
	}
	d.disp.Release()
	d.disp = nil
	if err != nil {
		return fmt.Errorf("closing document: %w", err)
	}
	return nil
}
