package app

import (
	"fmt"

	"knitpattern/internal/border"
	"knitpattern/internal/continuity"
	"knitpattern/internal/logging"
	"knitpattern/internal/motif"
	"knitpattern/internal/project"
	"knitpattern/internal/prune"
	"knitpattern/internal/segment"
	"knitpattern/pkg/grid"
)

// Motifs holds the tiles a job refers to. A zero Tile disables its stage.
type Motifs struct {
	Border     motif.Tile
	Background motif.Tile
}

// LoadMotifs reads the motif files named by job, applying the trim flags.
func LoadMotifs(job *project.File, projectPath string) (Motifs, error) {
	var out Motifs
	load := func(path string, trim bool) (motif.Tile, error) {
		if path == "" {
			return motif.Tile{}, nil
		}
		t, err := motif.Load(path)
		if err != nil {
			return motif.Tile{}, err
		}
		if trim {
			return t.Trim()
		}
		return t, nil
	}

	path, err := job.GetMotifBorderPath(projectPath)
	if err != nil {
		return out, err
	}
	if out.Border, err = load(path, job.MotifBorder.Trim); err != nil {
		return out, fmt.Errorf("border motif: %w", err)
	}
	if path, err = job.GetBackgroundPath(projectPath); err != nil {
		return out, err
	}
	if out.Background, err = load(path, job.Background.Trim); err != nil {
		return out, fmt.Errorf("background motif: %w", err)
	}
	return out, nil
}

// Result is one synthesized canvas.
type Result struct {
	Pattern *grid.Matrix
	Shift   int              // background roll applied
	Stats   segment.Stats    // background fill summary
	Next    continuity.State // phase to carry into the next canvas

	// Feature is the main feature cell nearest the centre. Blank is set
	// when the canvas holds no feature at all.
	Feature grid.Point
	Blank   bool
}

// Synthesize turns a quantized image into a finished pattern. The stages
// run in this order, each skipped when not configured:
//
//  1. isolated pixels are pruned
//  2. the flat border widens the canvas
//  3. the background motif fills the reachable background, rolled to
//     continue the phase in state
//  4. the motif border frames the result
//
// base is not modified.
func Synthesize(base *grid.Matrix, job *project.File, motifs Motifs, state continuity.State) (*Result, error) {
	log := logging.Logger()
	m := base
	var err error

	if job.Prune.Enabled {
		if m, err = prune.Isolated(m, job.Prune.Seeds, job.Prune.Background); err != nil {
			return nil, fmt.Errorf("prune: %w", err)
		}
	}

	// Flat returns a new matrix even when no strip is added, so base is
	// never filled in place.
	fb := job.FlatBorder
	if m, err = border.Flat(m, fb.Sides, fb.Sizes, fb.Value); err != nil {
		return nil, err
	}
	res := &Result{Next: state}
	if p, ok := segment.CenterSeed(m, job.Background.Segment.MatrixBackground); ok {
		res.Feature = p
		log.Debug("main feature located", "row", p.Row, "col", p.Col)
	} else {
		res.Blank = true
		log.Warn("no main feature found, canvas is all background")
	}
	if bg := motifs.Background; !bg.IsZero() {
		if state.BackgroundRows != bg.Rows() {
			if state.BackgroundRows != 0 {
				log.Warn("background motif height changed, restarting phase",
					"was", state.BackgroundRows, "now", bg.Rows())
			}
			state = continuity.State{BackgroundRows: bg.Rows()}
		}
		shift, next, err := state.Advance(m.Rows())
		if err != nil {
			return nil, err
		}
		pattern, err := segment.Background(bg, m.Rows(), m.Cols(), shift)
		if err != nil {
			return nil, err
		}
		stats, err := segment.Fill(m, pattern, job.Background.Segment)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		if stats.Unreached > 0 {
			log.Info("background pockets left unfilled", "cells", stats.Unreached)
		}
		res.Shift, res.Stats, res.Next = shift, stats, next
	}

	if bt := motifs.Border; !bt.IsZero() && job.MotifBorder.Sides.Any() {
		if m, err = border.Motif(m, bt, job.MotifBorder.Sides, job.MotifBorder.Shades); err != nil {
			return nil, err
		}
	}

	res.Pattern = m
	return res, nil
}
