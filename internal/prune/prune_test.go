package prune

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"knitpattern/pkg/grid"
)

func TestIsolatedCenterPixel(t *testing.T) {
	m := grid.Filled(3, 3, 1)
	m.Set(1, 1, 2)
	out, err := Isolated(m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(grid.Filled(3, 3, 1)) {
		t.Errorf("pruned =\n%v\nwant all background", out)
	}
	if m.At(1, 1) != 2 {
		t.Error("input matrix was modified")
	}
}

func TestIsolatedKeepsConnectedPixels(t *testing.T) {
	m := grid.MustFromRows([][]int{
		{1, 1, 1, 1, 1, 1},
		{1, 2, 3, 1, 1, 1},
		{1, 1, 1, 1, 4, 1},
		{1, 1, 1, 1, 1, 1},
		{1, 1, 4, 4, 4, 1},
		{1, 1, 1, 1, 1, 1},
	})
	out, err := Isolated(m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{
		{1, 1, 1, 1, 1, 1},
		{1, 2, 3, 1, 1, 1},
		{1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1},
		{1, 1, 4, 4, 4, 1},
		{1, 1, 1, 1, 1, 1},
	}
	if d := cmp.Diff(want, out.ToRows()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestIsolatedEdgePixel(t *testing.T) {
	// out-of-bounds neighbours do not protect a pixel on the edge
	m := grid.MustFromRows([][]int{
		{1, 3, 1},
		{1, 1, 1},
	})
	out, err := Isolated(m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Count(3) != 0 {
		t.Errorf("edge pixel survived:\n%v", out)
	}
}

func TestIsolatedIgnoresUnreachedPixels(t *testing.T) {
	// the 4 inside the ring never borders the reachable background
	m := grid.MustFromRows([][]int{
		{1, 1, 1, 1, 1, 1, 1},
		{1, 2, 2, 2, 2, 2, 1},
		{1, 2, 1, 1, 1, 2, 1},
		{1, 2, 1, 4, 1, 2, 1},
		{1, 2, 1, 1, 1, 2, 1},
		{1, 2, 2, 2, 2, 2, 1},
		{1, 1, 1, 1, 1, 1, 1},
	})
	out, err := Isolated(m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(m) {
		t.Errorf("matrix changed:\n%v", out)
	}

	out, err = Isolated(m, []grid.Point{grid.P(2, 2)}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(3, 3) != 1 {
		t.Errorf("seeded inside the ring, centre = %d, want 1", out.At(3, 3))
	}
	if out.Count(2) != m.Count(2) {
		t.Error("ring pixels were removed")
	}
}

func TestIsolatedMixedSeeds(t *testing.T) {
	// the seed on (1,1) is skipped, not turned into background
	m := grid.MustFromRows([][]int{
		{1, 1, 1, 1},
		{1, 2, 2, 1},
		{1, 1, 1, 1},
		{1, 1, 5, 1},
	})
	seeds := []grid.Point{grid.P(0, 0), grid.P(0, 3), grid.P(3, 0), grid.P(3, 3), grid.P(1, 1)}
	out, err := Isolated(m, seeds, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{
		{1, 1, 1, 1},
		{1, 2, 2, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	}
	if d := cmp.Diff(want, out.ToRows()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestIsolatedSeedOutOfRange(t *testing.T) {
	m := grid.Filled(2, 2, 1)
	_, err := Isolated(m, []grid.Point{grid.P(2, 0)}, 1)
	if !errors.Is(err, ErrSeedOutOfRange) {
		t.Errorf("err = %v, want ErrSeedOutOfRange", err)
	}
}

func TestIsolatedNoBackground(t *testing.T) {
	m := grid.Filled(3, 3, 2)
	out, err := Isolated(m, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(m) {
		t.Errorf("matrix without background changed:\n%v", out)
	}
}
