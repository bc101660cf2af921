// Package continuity keeps a background motif in phase across separately
// generated canvases.
//
// A motif of period P rows tiled over an image of R rows ends part way
// through a repeat. The cutoff row records where; the next canvas rolls its
// motif by the matching shift so that, once the canvases are knitted one
// after the other, the motif runs on without a seam. Knitting proceeds
// bottom-up, so each new canvas sits above the previous one.
package continuity

import (
	"errors"
	"fmt"
)

// ErrDomain is returned for arguments outside the modular domain.
var ErrDomain = errors.New("continuity: argument out of range")

// CutoffRow returns the phase of a canvas of imageRows rows following a
// canvas whose cutoff was previous, for a motif of backgroundRows rows.
// The result lies in [0, backgroundRows).
func CutoffRow(imageRows, backgroundRows, previous int) (int, error) {
	if err := check(imageRows, backgroundRows, previous); err != nil {
		return 0, err
	}
	n := backgroundRows
	d := imageRows % n
	cutoff := d - n + previous
	if cutoff < 0 {
		cutoff += n
	}
	return cutoff, nil
}

// Shift returns the number of rows to roll the motif upward before tiling a
// canvas of imageRows rows that continues a canvas with cutoff previous.
// The result lies in (0, backgroundRows]; a shift of backgroundRows is a full
// turn and leaves the motif as it is.
func Shift(imageRows, backgroundRows, previous int) (int, error) {
	cutoff, err := CutoffRow(imageRows, backgroundRows, previous)
	if err != nil {
		return 0, err
	}
	return backgroundRows - cutoff, nil
}

func check(imageRows, backgroundRows, previous int) error {
	switch {
	case backgroundRows < 1:
		return fmt.Errorf("background rows %d: %w", backgroundRows, ErrDomain)
	case imageRows < 0:
		return fmt.Errorf("image rows %d: %w", imageRows, ErrDomain)
	case previous < 0 || previous >= backgroundRows:
		return fmt.Errorf("cutoff %d not in [0,%d): %w", previous, backgroundRows, ErrDomain)
	}
	return nil
}

// State is the phase carried from one canvas to the next.
// The zero Cutoff starts a fresh sequence.
type State struct {
	BackgroundRows int `json:"background_rows"`
	Cutoff         int `json:"cutoff"`
}

// Advance returns the shift for the next canvas of imageRows rows and the
// state to carry after it.
func (s State) Advance(imageRows int) (shift int, next State, err error) {
	cutoff, err := CutoffRow(imageRows, s.BackgroundRows, s.Cutoff)
	if err != nil {
		return 0, s, err
	}
	return s.BackgroundRows - cutoff, State{BackgroundRows: s.BackgroundRows, Cutoff: cutoff}, nil
}
