// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// PlaceholderDir is the directory path shown before a folder is selected.
const PlaceholderDir = "Folder not yet selected"

// Config holds the state shared between a presentation and the conversion
// engine: the selected directory and the visible progress value.
type Config struct {
	// DirPath is the directory whose top-level legacy files are converted.
	// It is not validated; an unusable path surfaces when the engine reads it.
	DirPath string `json:"dir_path" yaml:"dir_path"`

	// Progress is the percentage of convertible files processed (0-100).
	Progress float64 `json:"progress" yaml:"progress"`
}

// NewConfig returns a Config holding the placeholder path.
func NewConfig() *Config {
	return &Config{DirPath: PlaceholderDir}
}

// Backend identifies the office automation service used for conversion.
type Backend string

const (
	// BackendAuto picks com on Windows, soffice when it is on PATH, and the
	// container backend otherwise.
	BackendAuto      Backend = "auto"
	BackendCOM       Backend = "com"
	BackendSoffice   Backend = "soffice"
	BackendContainer Backend = "container"
)

// OutputFormat selects how the batch summary is printed by the CLI.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
)

// Validate reports an error unless f is text, yaml, json, or empty (text).
func (f OutputFormat) Validate() error {
	switch f {
	case OutputText, OutputYAML, OutputJSON, "":
		return nil
	}
	return fmt.Errorf("unknown output format %q: use text, yaml, or json", string(f))
}

// ConverterConfig holds settings for the conversion run and its ambient
// services (automation backend, logging).
type ConverterConfig struct {
	// Backend selects the automation service: auto, com, soffice, or container.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// SofficeBin is the LibreOffice binary used by the soffice backend.
	SofficeBin string `json:"soffice_bin" yaml:"soffice_bin" mapstructure:"soffice-bin"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Timeout bounds a single save-as call of the soffice and container
	// backends. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// LogFile is the append-only log file (default "convo.log").
	LogFile string `json:"log_file" yaml:"log_file" mapstructure:"log-file"`

	// LogLevel is one of debug, info, warn, error (default debug).
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log-level"`

	// Output selects the summary format of the convert command.
	Output OutputFormat `json:"output" yaml:"output" mapstructure:"output"`
}
