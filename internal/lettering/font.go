// Package lettering writes text into pattern matrices using bitmap fonts.
package lettering

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"knitpattern/internal/motif"
	"knitpattern/pkg/grid"
	"knitpattern/pkg/pathutil"
)

var (
	// ErrGlyph is returned for a character the font cannot draw.
	ErrGlyph = errors.New("lettering: no glyph")
	// ErrFontFile is returned for a malformed font file.
	ErrFontFile = errors.New("lettering: malformed font file")
)

const combiningAcute = '\u0301'

// Font maps characters to binary glyphs. Glyphs may differ in size; they are
// bottom aligned when written.
type Font struct {
	glyphs map[rune]*grid.Matrix
	height int
}

// NewFont returns an empty font.
func NewFont() *Font {
	return &Font{glyphs: make(map[rune]*grid.Matrix)}
}

// Add stores a copy of glyph for r.
func (f *Font) Add(r rune, glyph *grid.Matrix) {
	f.glyphs[r] = glyph.Clone()
	f.height = max(f.height, glyph.Rows())
}

// Height returns the tallest glyph height.
func (f *Font) Height() int { return f.height }

// Len returns the number of glyphs.
func (f *Font) Len() int { return len(f.glyphs) }

// Glyph returns the glyph for r. A character missing from the font falls
// back to its letter without diacritics; an acute accent is kept as a
// stroke stacked above that letter.
func (f *Font) Glyph(r rune, big bool) (*grid.Matrix, error) {
	if g, ok := f.glyphs[r]; ok {
		return g, nil
	}
	folded := []rune(Fold(string(r)))
	if len(folded) != 1 || folded[0] == r {
		return nil, fmt.Errorf("%q: %w", r, ErrGlyph)
	}
	base, ok := f.glyphs[folded[0]]
	if !ok {
		return nil, fmt.Errorf("%q (%q): %w", r, folded[0], ErrGlyph)
	}
	if parts := []rune(norm.NFD.String(string(r))); len(parts) == 2 && parts[1] == combiningAcute && base.Cols() >= 3 {
		return WithAcute(base, big), nil
	}
	return base, nil
}

// Fold removes diacritics from s.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// WithAcute returns glyph with an acute accent stroke stacked on top,
// centred over the glyph. Even widths put the extra column on the right.
func WithAcute(glyph *grid.Matrix, big bool) *grid.Matrix {
	accent := [][]int{
		{0, 0, 1},
		{0, 1, 0},
		{0, 0, 0},
	}
	if big {
		accent = [][]int{
			{0, 0, 1},
			{0, 1, 1},
			{1, 1, 0},
			{0, 0, 0},
		}
	}
	w := glyph.Cols()
	left := (w - 3) / 2
	out := grid.New(len(accent)+glyph.Rows(), w)
	for i, row := range accent {
		for j, v := range row {
			out.Set(i, left+j, v)
		}
	}
	for i := 0; i < glyph.Rows(); i++ {
		for j := 0; j < w; j++ {
			out.Set(len(accent)+i, j, glyph.At(i, j))
		}
	}
	return out
}

// FaceFont rasterizes the characters of chars from face. Each glyph is as
// wide as its advance and as tall as the face's ascent plus descent; a pixel
// is set when its coverage is at least half.
func FaceFont(face font.Face, chars string) *Font {
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	f := NewFont()
	for _, r := range chars {
		adv, ok := face.GlyphAdvance(r)
		if !ok || adv.Ceil() < 1 {
			continue
		}
		w, h := adv.Ceil(), ascent+descent
		mask := image.NewAlpha(image.Rect(0, 0, w, h))
		d := &font.Drawer{
			Dst:  mask,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(0, ascent),
		}
		d.DrawString(string(r))

		g := grid.New(h, w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if mask.AlphaAt(x, y).A >= 0x80 {
					g.Set(y, x, 1)
				}
			}
		}
		f.Add(r, g)
	}
	return f
}

// ASCII lists the printable ASCII characters.
const ASCII = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// DefaultFont returns the printable ASCII range of the 7×13 fixed face.
func DefaultFont() *Font {
	return FaceFont(basicfont.Face7x13, ASCII)
}

// ParseFont reads a font file. Each glyph starts with a line "= c" naming
// its character, followed by rows of 0 and 1 in the motif file format.
// A header line of "= space" names the space character.
func ParseFont(r io.Reader) (*Font, error) {
	f := NewFont()
	sc := bufio.NewScanner(r)
	var (
		cur   rune
		have  bool
		block strings.Builder
		line  int
	)
	flush := func() error {
		if !have {
			block.Reset()
			return nil
		}
		t, err := motif.Parse(strings.NewReader(block.String()))
		if err != nil {
			return fmt.Errorf("glyph %q: %w", cur, err)
		}
		f.Add(cur, t.Matrix())
		block.Reset()
		return nil
	}
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(text, "=") {
			if !have && text != "" && !strings.HasPrefix(text, "#") {
				return nil, fmt.Errorf("line %d: rows before first glyph header: %w", line, ErrFontFile)
			}
			block.WriteString(text)
			block.WriteByte('\n')
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(strings.TrimPrefix(text, "="))
		switch {
		case name == "space":
			cur = ' '
		case utf8.RuneCountInString(name) == 1:
			cur, _ = utf8.DecodeRuneInString(name)
		default:
			return nil, fmt.Errorf("line %d: glyph name %q: %w", line, name, ErrFontFile)
		}
		have = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if f.Len() == 0 {
		return nil, fmt.Errorf("no glyphs: %w", ErrFontFile)
	}
	return f, nil
}

// LoadFont reads a font file from disk.
func LoadFont(path string) (*Font, error) {
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open font: %w", err)
	}
	defer file.Close()
	return ParseFont(file)
}
