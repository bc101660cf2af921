package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"knitpattern/internal/machine"
	"knitpattern/internal/preview"
	"knitpattern/internal/project"
	"knitpattern/pkg/grid"
)

// Output file suffixes.
const (
	ExtMachine = ".json"
	ExtMatrix  = ".matrix.json"
	ExtPNG     = ".png"
	ExtPDF     = ".pdf"
)

// ErrChartFormat is returned for a chart file that is neither PNG nor PDF.
var ErrChartFormat = errors.New("app: chart must be .png or .pdf")

// Palette returns the job's preview palette, or the default one.
func Palette(job *project.File) (preview.Palette, error) {
	if len(job.Export.Palette) == 0 {
		return preview.DefaultPalette(), nil
	}
	return preview.ParsePalette(job.Export.Palette)
}

// Export writes the files selected in job.Export for the pattern made from
// imagePath and returns their paths.
func Export(projectPath string, job *project.File, imagePath string, m *grid.Matrix) ([]string, error) {
	ex := job.Export
	pal, err := Palette(job)
	if err != nil {
		return nil, err
	}

	var files []string
	write := func(ext string, data []byte) error {
		path, err := job.GetOutputPath(projectPath, imagePath, ext)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
		files = append(files, path)
		return nil
	}

	if ex.Machine {
		start := machine.CenteredStart(m.Cols())
		if ex.Start != nil {
			start = *ex.Start
		}
		p, err := machine.NewPattern(m, start)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if _, err := p.WriteTo(&buf); err != nil {
			return nil, err
		}
		if err := write(ExtMachine, buf.Bytes()); err != nil {
			return nil, err
		}
	}
	if ex.Matrix {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		if err := write(ExtMatrix, data); err != nil {
			return nil, err
		}
	}
	if ex.PNG {
		opt := preview.DefaultOptions()
		if ex.Scale > 0 {
			opt.Scale = ex.Scale
		}
		var buf bytes.Buffer
		if err := preview.WritePNG(&buf, m, pal, opt); err != nil {
			return nil, err
		}
		if err := write(ExtPNG, buf.Bytes()); err != nil {
			return nil, err
		}
	}
	if ex.PDF {
		var buf bytes.Buffer
		if err := preview.WritePDF(&buf, m, pal); err != nil {
			return nil, err
		}
		if err := write(ExtPDF, buf.Bytes()); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// WriteChart saves m as a PNG preview or PDF chart, chosen by the extension
// of path.
func WriteChart(path string, m *grid.Matrix, pal preview.Palette, scale int) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtPNG:
		opt := preview.DefaultOptions()
		if scale > 0 {
			opt.Scale = scale
		}
		if err := preview.WritePNG(&buf, m, pal, opt); err != nil {
			return err
		}
	case ExtPDF:
		if err := preview.WritePDF(&buf, m, pal); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrChartFormat)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
