// Package project provides job file handling and persistence.
//
// A job file (.knitproj) lists the images of a garment in knitting order
// together with the border, background and export settings, and carries the
// continuity state from one run to the next.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"knitpattern/internal/border"
	"knitpattern/internal/continuity"
	"knitpattern/internal/quantize"
	"knitpattern/internal/segment"
	"knitpattern/pkg/grid"
	"knitpattern/pkg/pathutil"
)

// Ext is the job file extension.
const Ext = ".knitproj"

// FormatVersion is written into new job files.
const FormatVersion = 1

// ErrVersion is returned for a job file written by a newer program.
var ErrVersion = errors.New("project: unsupported file version")

// File represents a knitting job file.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Image paths (relative to the job file), knitted in this order
	Images []string `json:"images,omitempty"`

	Quantize    quantize.Options `json:"quantize"`
	Prune       PruneSettings    `json:"prune"`
	FlatBorder  FlatBorder       `json:"flat_border"`
	MotifBorder MotifBorder      `json:"motif_border"`
	Background  Background       `json:"background"`
	Export      Export           `json:"export"`

	// Continuity carries the background phase into the next run.
	Continuity continuity.State `json:"continuity"`
}

// PruneSettings controls isolated pixel removal.
type PruneSettings struct {
	Enabled    bool         `json:"enabled"`
	Seeds      []grid.Point `json:"seeds,omitempty"`
	Background int          `json:"background"`
}

// FlatBorder is a solid frame added before any motif border.
type FlatBorder struct {
	Sides border.Sides `json:"sides"`
	Sizes border.Sizes `json:"sizes"`
	Value int          `json:"value"`
}

// MotifBorder is a frame built from a motif file.
type MotifBorder struct {
	Motif  string        `json:"motif,omitempty"` // relative to the job file
	Trim   bool          `json:"trim,omitempty"`  // drop the motif's last row and column
	Sides  border.Sides  `json:"sides"`
	Shades border.Shades `json:"shades"`
}

// Background fills the space around the main feature with a two-shade motif.
type Background struct {
	Motif   string         `json:"motif,omitempty"`
	Trim    bool           `json:"trim,omitempty"`
	Segment segment.Config `json:"segment"`
}

// Export selects the files written for each image.
type Export struct {
	Dir     string   `json:"dir,omitempty"`   // relative to the job file
	Start   *int     `json:"start,omitempty"` // needle; nil centres the pattern
	Machine bool     `json:"machine"`
	Matrix  bool     `json:"matrix"`
	PNG     bool     `json:"png"`
	PDF     bool     `json:"pdf"`
	Scale   int      `json:"scale,omitempty"`
	Palette []string `json:"palette,omitempty"`
}

// New creates a new job file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  FormatVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		Quantize: quantize.DefaultOptions(),
		Prune:    PruneSettings{Enabled: true, Background: 1},
		FlatBorder: FlatBorder{
			Value: 1,
		},
		MotifBorder: MotifBorder{
			Shades: border.DefaultShades(),
		},
		Background: Background{
			Segment: segment.DefaultConfig(),
		},
		Export: Export{
			Machine: true,
			Matrix:  true,
			PNG:     true,
			Scale:   8,
		},
	}
}

// Load loads a job from a .knitproj file.
func Load(path string) (*File, error) {
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	proj := New("")
	if err := json.Unmarshal(data, proj); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if proj.Version > FormatVersion {
		return nil, fmt.Errorf("%s: version %d: %w", filepath.Base(path), proj.Version, ErrVersion)
	}
	if proj.Name == "" {
		proj.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return proj, nil
}

// Save saves the job to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AddImage appends an image, stored relative to the job file.
func (p *File) AddImage(projectPath, imagePath string) {
	p.Images = append(p.Images, pathutil.Relative(filepath.Dir(projectPath), imagePath))
	p.Modified = time.Now()
}

// SetMotifBorder sets the border motif path (relative to project).
func (p *File) SetMotifBorder(projectPath, motifPath string) {
	p.MotifBorder.Motif = pathutil.Relative(filepath.Dir(projectPath), motifPath)
	p.Modified = time.Now()
}

// SetBackground sets the background motif path (relative to project).
func (p *File) SetBackground(projectPath, motifPath string) {
	p.Background.Motif = pathutil.Relative(filepath.Dir(projectPath), motifPath)
	p.Modified = time.Now()
}

// GetImagePaths returns the absolute image paths in knitting order.
func (p *File) GetImagePaths(projectPath string) ([]string, error) {
	out := make([]string, len(p.Images))
	for i, img := range p.Images {
		abs, err := pathutil.Resolve(filepath.Dir(projectPath), img)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}

// GetMotifBorderPath returns the absolute border motif path, or "".
func (p *File) GetMotifBorderPath(projectPath string) (string, error) {
	return pathutil.Resolve(filepath.Dir(projectPath), p.MotifBorder.Motif)
}

// GetBackgroundPath returns the absolute background motif path, or "".
func (p *File) GetBackgroundPath(projectPath string) (string, error) {
	return pathutil.Resolve(filepath.Dir(projectPath), p.Background.Motif)
}

// GetOutputPath returns where the export of imagePath with extension ext
// goes: the image's base name inside the export directory, which defaults to
// the job file's directory.
func (p *File) GetOutputPath(projectPath, imagePath, ext string) (string, error) {
	dir, err := pathutil.Resolve(filepath.Dir(projectPath), p.Export.Dir)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = filepath.Dir(projectPath)
	}
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return filepath.Join(dir, base+ext), nil
}
