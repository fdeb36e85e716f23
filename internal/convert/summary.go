// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/office-upgrade/pkg/types"
)

// FileReport is the exported form of a Result.
type FileReport struct {
	File   string                 `json:"file" yaml:"file"`
	Output string                 `json:"output,omitempty" yaml:"output,omitempty"`
	Status types.ConversionStatus `json:"status" yaml:"status"`
	Error  string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the exported form of a Summary.
type Report struct {
	Directory string       `json:"directory" yaml:"directory"`
	Converted int          `json:"converted" yaml:"converted"`
	Failed    int          `json:"failed" yaml:"failed"`
	Skipped   int          `json:"skipped" yaml:"skipped"`
	Files     []FileReport `json:"files" yaml:"files"`
}

// NewReport builds the report of a run over dir.
func NewReport(dir string, s Summary) Report {
	r := Report{
		Directory: dir,
		Converted: s.Converted,
		Failed:    s.Failed,
		Skipped:   s.Skipped,
		Files:     make([]FileReport, 0, len(s.Results)),
	}
	for _, res := range s.Results {
		fr := FileReport{File: res.Target.Name, Status: res.Status}
		if res.Status == types.ConversionDone {
			fr.Output = filepath.Base(res.Target.OutputPath())
		}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		r.Files = append(r.Files, fr)
	}
	return r
}

// WriteSummary prints the summary of a run over dir to w in the given format.
func WriteSummary(w io.Writer, dir string, s Summary, format types.OutputFormat) error {
	switch format {
	case types.OutputYAML:
		data, err := yaml.Marshal(NewReport(dir, s))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case types.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewReport(dir, s))
	case types.OutputText, "":
		for _, res := range s.Results {
			if res.Err != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", res.Target.Name, res.Err)
			}
		}
		fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
			s.Converted, s.Skipped, s.Failed, s.Total())
		return nil
	default:
		return format.Validate()
	}
}
