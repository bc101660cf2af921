// Package segment fills the background of a pattern matrix with a tiled
// motif.
//
// Background cells reachable from the seeds are found by a breadth-first
// flood fill. Each visited cell either takes the motif shade at its
// position or, when the border is enabled and the cell touches the main
// feature, the border colour. Background pockets that no seed reaches keep
// their original colour; add seeds inside them to fill them too.
package segment

import (
	"fmt"

	"github.com/gammazero/deque"

	"knitpattern/internal/logging"
	"knitpattern/internal/motif"
	"knitpattern/internal/tile"
	"knitpattern/pkg/grid"
)

// cellState tracks each cell during one Fill call. A cell leaves
// unclassified at most once and is classified exactly once, when it is
// taken from the frontier.
type cellState uint8

const (
	foreground   cellState = iota // not background; original value kept
	unclassified                  // background colour, not reached yet
	frontier                      // queued
	deepLight                     // motif bit 0
	deepDark                      // motif bit 1
	borderCell                    // touches the main feature
)

// Stats summarises one Fill call.
type Stats struct {
	Seeds     int // seeds that started on a background cell
	Visited   int // background cells classified
	Border    int // of which painted in the border colour
	Unreached int // background cells no seed reached
}

// Background rolls t upward by shift rows and tiles it over a rows×cols
// canvas. The result is the binary pattern Fill draws from.
func Background(t motif.Tile, rows, cols, shift int) (*grid.Matrix, error) {
	return tile.Replicate(t.Roll(shift).Matrix(), rows, cols, tile.Horizontal)
}

// Fill replaces the reachable background of m in place.
//
// pattern must have the same shape as m; its non-zero cells select Shade1,
// zero cells Shade0. All arguments are checked before m is modified.
func Fill(m, pattern *grid.Matrix, cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if pattern.Rows() != m.Rows() || pattern.Cols() != m.Cols() {
		return Stats{}, fmt.Errorf("pattern %dx%d, matrix %dx%d: %w",
			pattern.Rows(), pattern.Cols(), m.Rows(), m.Cols(), ErrPatternShape)
	}
	seeds, err := cfg.seeds(m)
	if err != nil {
		return Stats{}, err
	}

	state := make([]cellState, m.Rows()*m.Cols())
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if m.At(r, c) == cfg.MatrixBackground {
				state[r*m.Cols()+c] = unclassified
			}
		}
	}

	var stats Stats
	var queue deque.Deque[grid.Point]
	for _, p := range seeds {
		i := m.Index(p)
		if state[i] != unclassified {
			continue
		}
		state[i] = frontier
		queue.PushBack(p)
		stats.Seeds++
	}

	for queue.Len() > 0 {
		cur := queue.PopFront()
		touchesFeature := false
		for _, d := range grid.Neighbors4 {
			n := cur.Add(d)
			if !m.Contains(n) {
				continue
			}
			switch j := m.Index(n); state[j] {
			case unclassified:
				state[j] = frontier
				queue.PushBack(n)
			case foreground:
				touchesFeature = true
			}
		}

		i := m.Index(cur)
		switch {
		case cfg.Border && touchesFeature:
			state[i] = borderCell
			stats.Border++
		case pattern.Get(cur) != 0:
			state[i] = deepDark
		default:
			state[i] = deepLight
		}
		stats.Visited++
	}

	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			switch state[r*m.Cols()+c] {
			case deepLight:
				m.Set(r, c, cfg.Shade0)
			case deepDark:
				m.Set(r, c, cfg.Shade1)
			case borderCell:
				m.Set(r, c, cfg.BorderColor)
			case unclassified:
				stats.Unreached++
			}
		}
	}

	logging.Logger().Debug("background filled",
		"rows", m.Rows(), "cols", m.Cols(),
		"seeds", stats.Seeds, "visited", stats.Visited,
		"border", stats.Border, "unreached", stats.Unreached)
	return stats, nil
}

// CenterSeed returns the first cell that is not background, searching in a
// square spiral outward from the centre of m (right, down, left, up, with
// the run length growing after every down and up leg). ok is false if m is
// all background.
func CenterSeed(m *grid.Matrix, background int) (p grid.Point, ok bool) {
	p = grid.P(m.Rows()/2, m.Cols()/2)
	if m.Get(p) != background {
		return p, true
	}
	dirs := [4]grid.Point{{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 0, Col: -1}, {Row: -1, Col: 0}}
	seen := 1
	total := m.Rows() * m.Cols()
	for run := 1; seen < total; run++ {
		for k, d := range dirs {
			for range run {
				p = p.Add(d)
				if !m.Contains(p) {
					continue
				}
				seen++
				if m.Get(p) != background {
					return p, true
				}
			}
			if k == 1 {
				run++
			}
		}
	}
	return grid.Point{}, false
}
