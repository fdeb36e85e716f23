// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one directory entry.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// DocumentKind groups legacy formats by the office application that opens
// them.
type DocumentKind string

const (
	KindDocument     DocumentKind = "document"
	KindSpreadsheet  DocumentKind = "spreadsheet"
	KindPresentation DocumentKind = "presentation"
)
