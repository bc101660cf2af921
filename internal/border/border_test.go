package border

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"knitpattern/internal/motif"
	"knitpattern/pkg/grid"
)

func TestFlat(t *testing.T) {
	m := grid.Filled(2, 3, 3)
	cases := []struct {
		name  string
		sides Sides
		sizes Sizes
		want  [][]int
	}{
		{
			name:  "all sides",
			sides: AllSides(),
			sizes: Uniform(1),
			want: [][]int{
				{1, 1, 1, 1, 1},
				{1, 3, 3, 3, 1},
				{1, 3, 3, 3, 1},
				{1, 1, 1, 1, 1},
			},
		},
		{
			name:  "top and right",
			sides: Sides{Top: true, Right: true},
			sizes: Sizes{Top: 2, Bottom: 5, Left: 5, Right: 1},
			want: [][]int{
				{1, 1, 1, 1},
				{1, 1, 1, 1},
				{3, 3, 3, 1},
				{3, 3, 3, 1},
			},
		},
		{
			name:  "zero size",
			sides: AllSides(),
			sizes: Sizes{Left: 1},
			want: [][]int{
				{1, 3, 3, 3},
				{1, 3, 3, 3},
			},
		},
		{
			name:  "no sides",
			sides: Sides{},
			sizes: Uniform(3),
			want: [][]int{
				{3, 3, 3},
				{3, 3, 3},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Flat(m, tc.sides, tc.sizes, 1)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.want, out.ToRows()); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
	if !m.Equal(grid.Filled(2, 3, 3)) {
		t.Error("input matrix was modified")
	}
}

func TestFlatNegativeSize(t *testing.T) {
	_, err := Flat(grid.Filled(2, 2, 1), AllSides(), Sizes{Bottom: -1}, 1)
	if !errors.Is(err, ErrSize) {
		t.Errorf("err = %v, want ErrSize", err)
	}
}

func TestMotif(t *testing.T) {
	tl := motif.MustFromRows([][]int{
		{1, 0},
	})
	m := grid.Filled(2, 3, 4)
	out, err := Motif(m, tl, AllSides(), DefaultShades())
	if err != nil {
		t.Fatal(err)
	}
	// top and bottom: "2 1" across 3 columns; sides: the motif on its side
	// repeated down 4 rows
	want := [][]int{
		{2, 2, 1, 2, 2},
		{1, 4, 4, 4, 1},
		{2, 4, 4, 4, 2},
		{1, 2, 1, 2, 1},
	}
	if d := cmp.Diff(want, out.ToRows()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestMotifThickness(t *testing.T) {
	tl := motif.MustFromRows([][]int{
		{1, 0, 0},
		{0, 1, 0},
	})
	m := grid.Filled(5, 7, 3)
	cases := []struct {
		sides      Sides
		rows, cols int
	}{
		{AllSides(), 9, 11},
		{Sides{Top: true}, 7, 7},
		{Sides{Left: true, Right: true}, 5, 11},
		{Sides{Bottom: true, Right: true}, 7, 9},
		{Sides{}, 5, 7},
	}
	for _, tc := range cases {
		out, err := Motif(m, tl, tc.sides, DefaultShades())
		if err != nil {
			t.Fatal(err)
		}
		if out.Rows() != tc.rows || out.Cols() != tc.cols {
			t.Errorf("%+v: %dx%d, want %dx%d", tc.sides, out.Rows(), out.Cols(), tc.rows, tc.cols)
		}
		if got := out.Count(3); got != 35 {
			t.Errorf("%+v: %d interior cells, want 35", tc.sides, got)
		}
	}
}

func TestMotifStripsFollowTile(t *testing.T) {
	tl := motif.MustFromRows([][]int{
		{1, 1, 0},
		{0, 1, 0},
	})
	shades := Shades{Background: 1, Dark: 4}
	out, err := Motif(grid.Filled(4, 8, 3), tl, Sides{Top: true, Left: true}, shades)
	if err != nil {
		t.Fatal(err)
	}
	// top strip starts after the left strip
	for i := range 2 {
		for j := range 8 {
			want := 1
			if tl.At(i, j%3) == 1 {
				want = 4
			}
			if got := out.At(i, j+2); got != want {
				t.Errorf("top strip (%d,%d) = %d, want %d", i, j, got, want)
			}
		}
	}
	// left strip is the transposed tile down the full height
	for i := range out.Rows() {
		for j := range 2 {
			want := 1
			if tl.At(j, i%3) == 1 {
				want = 4
			}
			if got := out.At(i, j); got != want {
				t.Errorf("left strip (%d,%d) = %d, want %d", i, j, got, want)
			}
		}
	}
}

func TestParseSides(t *testing.T) {
	cases := []struct {
		in   string
		want Sides
		str  string
	}{
		{"", Sides{}, "none"},
		{"none", Sides{}, "none"},
		{"all", AllSides(), "tblr"},
		{"TB", Sides{Top: true, Bottom: true}, "tb"},
		{"rl", Sides{Left: true, Right: true}, "lr"},
		{"ttr", Sides{Top: true, Right: true}, "tr"},
	}
	for _, tc := range cases {
		got, err := ParseSides(tc.in)
		if err != nil {
			t.Fatalf("ParseSides(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseSides(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if s := got.String(); s != tc.str {
			t.Errorf("%+v.String() = %q, want %q", got, s, tc.str)
		}
	}
	if _, err := ParseSides("tx"); !errors.Is(err, ErrSides) {
		t.Errorf("err = %v, want ErrSides", err)
	}
}
