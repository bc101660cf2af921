// Package prune removes stray single pixels left by colour quantization.
package prune

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"

	"knitpattern/internal/logging"
	"knitpattern/pkg/grid"
)

// ErrSeedOutOfRange is returned for a seed outside the matrix.
var ErrSeedOutOfRange = errors.New("prune: seed outside matrix")

// Isolated returns a copy of m in which every non-background pixel whose
// 4-neighbours are all background has been set to background.
//
// Only pixels bordering the background reachable from the seeds are
// considered. The fill runs to completion before any pixel is tested, so a
// candidate is judged against the final state of its neighbours. Empty seeds
// mean the four corners.
func Isolated(m *grid.Matrix, seeds []grid.Point, background int) (*grid.Matrix, error) {
	if len(seeds) == 0 {
		seeds = m.Corners()
	}
	for _, p := range seeds {
		if !m.Contains(p) {
			return nil, fmt.Errorf("seed %v in %dx%d matrix: %w", p, m.Rows(), m.Cols(), ErrSeedOutOfRange)
		}
	}

	out := m.Clone()
	candidates := collect(out, seeds, background)

	erased := 0
	for _, p := range candidates {
		if isolated(out, p, background) {
			out.Set(p.Row, p.Col, background)
			erased++
		}
	}

	logging.Logger().Debug("isolated pixels pruned",
		"candidates", len(candidates), "erased", erased)
	return out, nil
}

// collect flood fills the background from seeds and returns, in discovery
// order, each non-background cell adjacent to a visited background cell.
func collect(m *grid.Matrix, seeds []grid.Point, background int) []grid.Point {
	visited := make([]bool, m.Rows()*m.Cols())
	listed := make([]bool, m.Rows()*m.Cols())
	var queue deque.Deque[grid.Point]
	for _, p := range seeds {
		if i := m.Index(p); m.Get(p) == background && !visited[i] {
			visited[i] = true
			queue.PushBack(p)
		}
	}

	var candidates []grid.Point
	for queue.Len() > 0 {
		cur := queue.PopFront()
		for _, d := range grid.Neighbors4 {
			n := cur.Add(d)
			if !m.Contains(n) {
				continue
			}
			i := m.Index(n)
			if m.Get(n) == background {
				if !visited[i] {
					visited[i] = true
					queue.PushBack(n)
				}
				continue
			}
			if !listed[i] {
				listed[i] = true
				candidates = append(candidates, n)
			}
		}
	}
	return candidates
}

// isolated reports whether every in-bounds 4-neighbour of p is background.
func isolated(m *grid.Matrix, p grid.Point, background int) bool {
	for _, d := range grid.Neighbors4 {
		n := p.Add(d)
		if m.Contains(n) && m.Get(n) != background {
			return false
		}
	}
	return true
}
