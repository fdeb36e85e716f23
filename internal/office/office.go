// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office drives external office applications that open legacy
// documents and save them in the XML-based formats. A Service launches one
// Session per application kind; a Session opens Documents, which are saved
// under a new path and closed.
//
// Three backends implement Service: COM automation of Microsoft Office
// (Windows only), LibreOffice in headless mode, and LibreOffice inside a
// docker or podman container.
package office

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/office-upgrade/pkg/types"
)

// Format identifies a modern XML-based file format a Document can be saved in.
type Format int

const (
	FormatXMLDocument Format = iota + 1
	FormatXMLWorkbook
	FormatXMLPresentation
)

// formatInfo carries the per-backend identifiers of a Format.
type formatInfo struct {
	name      string
	extension string
	// comConst is the FileFormat argument of SaveAs in the Office object
	// model: wdFormatXMLDocument, xlOpenXMLWorkbook, ppSaveAsOpenXMLPresentation.
	comConst int32
	// filter is the LibreOffice export filter name used with --convert-to.
	filter string
}

var formats = map[Format]formatInfo{
	FormatXMLDocument:     {name: "xml-document", extension: ".docx", comConst: 12, filter: "MS Word 2007 XML"},
	FormatXMLWorkbook:     {name: "xml-workbook", extension: ".xlsx", comConst: 51, filter: "Calc MS Excel 2007 XML"},
	FormatXMLPresentation: {name: "xml-presentation", extension: ".pptx", comConst: 24, filter: "Impress MS PowerPoint 2007 XML"},
}

// String returns the format name, e.g. "xml-document".
func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension of the format including the dot.
func (f Format) Extension() string {
	return formats[f].extension
}

// Mapping ties a legacy extension to the application kind that opens it and
// the modern format it is saved in.
type Mapping struct {
	Kind   types.DocumentKind
	Format Format
}

var legacy = map[string]Mapping{
	".doc": {Kind: types.KindDocument, Format: FormatXMLDocument},
	".xls": {Kind: types.KindSpreadsheet, Format: FormatXMLWorkbook},
	".ppt": {Kind: types.KindPresentation, Format: FormatXMLPresentation},
}

// Lookup reports the mapping for a legacy file extension such as ".doc".
// Matching ignores case.
func Lookup(ext string) (Mapping, bool) {
	m, ok := legacy[strings.ToLower(ext)]
	return m, ok
}

// LaunchOptions control how an application session starts.
type LaunchOptions struct {
	// Hidden keeps the application window invisible.
	Hidden bool
	// SuppressAlerts disables interactive prompts such as overwrite confirmations.
	SuppressAlerts bool
}

// Service starts application sessions.
type Service interface {
	// Name returns the backend name ("com", "soffice", or "container").
	Name() string

	// Launch starts a session of the application that handles kind.
	// An error means the service is unavailable.
	Launch(ctx context.Context, kind types.DocumentKind, opts LaunchOptions) (Session, error)
}

// Session is a running application instance able to open documents.
type Session interface {
	// Open loads the file at path.
	Open(ctx context.Context, path string) (Document, error)

	// Quit shuts the application down. Documents must be closed first.
	Quit() error
}

// Document is a file opened in a Session.
type Document interface {
	// SaveAs writes a copy of the document at path in format f.
	SaveAs(ctx context.Context, path string, f Format) error

	// Close releases the document without saving further changes.
	Close() error
}
