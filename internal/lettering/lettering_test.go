package lettering

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"knitpattern/pkg/grid"
)

const testFont = `# two test glyphs
= A
1 1
1 1

= b
1
1
1
= space
0
`

func mustFont(t *testing.T) *Font {
	t.Helper()
	f, err := ParseFont(strings.NewReader(testFont))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestParseFont(t *testing.T) {
	f := mustFont(t)
	if f.Len() != 3 || f.Height() != 3 {
		t.Fatalf("Len %d Height %d, want 3 and 3", f.Len(), f.Height())
	}
	g, err := f.Glyph(' ', false)
	if err != nil {
		t.Fatal(err)
	}
	if g.Rows() != 1 || g.Cols() != 1 || g.At(0, 0) != 0 {
		t.Errorf("space glyph =\n%v", g)
	}
}

func TestParseFontErrors(t *testing.T) {
	cases := map[string]string{
		"rows before header": "1 1\n= A\n1\n",
		"long name":          "= AB\n1\n",
		"no glyphs":          "# nothing here\n",
	}
	for name, src := range cases {
		if _, err := ParseFont(strings.NewReader(src)); !errors.Is(err, ErrFontFile) {
			t.Errorf("%s: err = %v, want ErrFontFile", name, err)
		}
	}
	if _, err := ParseFont(strings.NewReader("= A\n1 1\n1\n")); !errors.Is(err, grid.ErrRagged) {
		t.Errorf("ragged glyph: err = %v, want ErrRagged", err)
	}
}

func TestWrite(t *testing.T) {
	f := mustFont(t)
	cases := []struct {
		name string
		text string
		opt  Options
		want [][]int
	}{
		{
			name: "bottom aligned",
			text: "Ab",
			opt:  DefaultOptions(),
			want: [][]int{
				{0, 0, 0, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 1, 1, 1, 0},
			},
		},
		{
			name: "letter spacing",
			text: "bb",
			opt:  Options{Newline: '\n', LetterSpacing: 1},
			want: [][]int{
				{0, 0, 1, 0, 1, 0},
				{0, 0, 1, 0, 1, 0},
				{0, 0, 1, 0, 1, 0},
			},
		},
		{
			name: "left aligned lines",
			text: "Ab\nb",
			opt:  DefaultOptions(),
			want: [][]int{
				{0, 0, 0, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 1, 0, 0, 0},
				{0, 1, 0, 0, 0},
				{0, 1, 0, 0, 0},
			},
		},
		{
			name: "middle aligned lines",
			text: "Ab˚b",
			opt:  Options{Align: Middle, Newline: '˚'},
			want: [][]int{
				{0, 0, 0, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 1, 0, 0},
				{0, 0, 1, 0, 0},
				{0, 0, 1, 0, 0},
			},
		},
		{
			name: "odd padding goes right",
			text: "b\nAb",
			opt:  Options{Align: Middle, Newline: '\n'},
			want: [][]int{
				{0, 0, 1, 0, 0},
				{0, 0, 1, 0, 0},
				{0, 0, 1, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 1, 0},
				{0, 1, 1, 1, 0},
				{0, 1, 1, 1, 0},
			},
		},
		{
			name: "empty text",
			text: "",
			opt:  DefaultOptions(),
			want: [][]int{
				{0, 0},
				{0, 0},
				{0, 0},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Write(f, tc.text, tc.opt)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.want, m.ToRows()); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestWriteMissingGlyph(t *testing.T) {
	if _, err := Write(mustFont(t), "Az", DefaultOptions()); !errors.Is(err, ErrGlyph) {
		t.Errorf("err = %v, want ErrGlyph", err)
	}
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"á strönd":   "a strond",
		"Ragnheiður": "Ragnheiður",
		"Ångström":   "Angstrom",
		"plain":      "plain",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithAcute(t *testing.T) {
	odd := WithAcute(grid.Filled(2, 5, 1), false)
	want := [][]int{
		{0, 0, 0, 1, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	}
	if d := cmp.Diff(want, odd.ToRows()); d != "" {
		t.Errorf("odd width (-want +got):\n%s", d)
	}

	even := WithAcute(grid.Filled(1, 4, 1), true)
	want = [][]int{
		{0, 0, 1, 0},
		{0, 1, 1, 0},
		{1, 1, 0, 0},
		{0, 0, 0, 0},
		{1, 1, 1, 1},
	}
	if d := cmp.Diff(want, even.ToRows()); d != "" {
		t.Errorf("even width (-want +got):\n%s", d)
	}
}

func TestGlyphFallback(t *testing.T) {
	f := NewFont()
	f.Add('a', grid.Filled(3, 3, 1))
	f.Add('o', grid.Filled(3, 3, 1))

	acute, err := f.Glyph('á', false)
	if err != nil {
		t.Fatal(err)
	}
	if acute.Rows() != 6 {
		t.Errorf("á has %d rows, want 6", acute.Rows())
	}
	umlaut, err := f.Glyph('ö', false)
	if err != nil {
		t.Fatal(err)
	}
	if umlaut.Rows() != 3 {
		t.Errorf("ö has %d rows, want plain o", umlaut.Rows())
	}
	if _, err := f.Glyph('é', false); !errors.Is(err, ErrGlyph) {
		t.Errorf("é without e: err = %v, want ErrGlyph", err)
	}

	// the accented glyph makes its line taller
	m, err := Write(f, "aá", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 6 || m.Cols() != 8 {
		t.Errorf("size %d×%d, want 6×8", m.Rows(), m.Cols())
	}
}

func TestDefaultFont(t *testing.T) {
	f := DefaultFont()
	if f.Len() != len(ASCII) {
		t.Errorf("%d glyphs, want %d", f.Len(), len(ASCII))
	}
	if f.Height() != 13 {
		t.Errorf("height %d, want 13", f.Height())
	}
	a, err := f.Glyph('A', false)
	if err != nil {
		t.Fatal(err)
	}
	if a.Cols() != 7 || a.Count(1) == 0 {
		t.Errorf("A is %d wide with %d ink cells", a.Cols(), a.Count(1))
	}
	sp, _ := f.Glyph(' ', false)
	if sp.Count(1) != 0 {
		t.Error("space has ink")
	}
	m, err := Write(f, "Hé", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 16 || m.Cols() != 16 {
		t.Errorf("size %d×%d, want 16×16", m.Rows(), m.Cols())
	}
}
