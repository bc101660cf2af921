package quantize

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		opt  Options
		want error
	}{
		{DefaultOptions(), nil},
		{DefaultOptions().WithColors(3), nil},
		{DefaultOptions().WithColors(2), ErrColors},
		{DefaultOptions().WithColors(5), ErrColors},
		{DefaultOptions().WithStitches(1), ErrStitches},
		{DefaultOptions().WithStitches(2), nil},
	}
	for _, tc := range cases {
		if err := tc.opt.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%+v: err = %v, want %v", tc.opt, err, tc.want)
		}
	}
}

func TestSize(t *testing.T) {
	cases := []struct {
		stitches, w, h int
		rows           int
	}{
		{60, 100, 50, 30},
		{60, 100, 100, 60},
		{10, 300, 451, 15},
		{2, 1000, 1, 1},
	}
	for _, tc := range cases {
		rows, cols := Options{Stitches: tc.stitches, Colors: 4}.Size(tc.w, tc.h)
		if rows != tc.rows || cols != tc.stitches {
			t.Errorf("Size(%d, %d) with %d stitches = %d×%d, want %d×%d",
				tc.w, tc.h, tc.stitches, rows, cols, tc.rows, tc.stitches)
		}
	}
}

func TestDither(t *testing.T) {
	cases := []struct {
		name   string
		colors int
		in     []float64
		want   []int
	}{
		{"white", 4, []float64{1, 1, 1}, []int{1, 1, 1}},
		{"black", 4, []float64{0, 0, 0}, []int{4, 4, 4}},
		{"mid gray exact", 3, []float64{0.5, 0.5, 0.5}, []int{2, 2, 2}},
		// 0.3 rounds up to 0.5; the carried error pulls the next pixel to 0
		{"error carried right", 3, []float64{0.3, 0.3}, []int{2, 3}},
		{"four levels", 4, []float64{0.34, 0.65, 0.95}, []int{3, 2, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := mat.NewDense(1, len(tc.in), append([]float64(nil), tc.in...))
			m, err := Dither(buf, Options{Stitches: len(tc.in), Colors: tc.colors})
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff([][]int{tc.want}, m.ToRows()); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestDitherDiffusesDown(t *testing.T) {
	// 0.3 → 0.5 leaves -0.2; 5/16 of it lands below, pulling 0.27 under 0.25
	buf := mat.NewDense(2, 1, []float64{0.3, 0.27})
	m, err := Dither(buf, Options{Stitches: 1, Colors: 3})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([][]int{{2}, {3}}, m.ToRows()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestDitherPreservesAverage(t *testing.T) {
	// dithering a flat 0.25 gray with three levels alternates 0 and 0.5
	const n = 40
	data := make([]float64, n*n)
	for i := range data {
		data[i] = 0.25
	}
	m, err := Dither(mat.NewDense(n, n, data), Options{Stitches: n, Colors: 3})
	if err != nil {
		t.Fatal(err)
	}
	if m.Count(1) != 0 {
		t.Errorf("%d white stitches in a dark gray field", m.Count(1))
	}
	mid, dark := m.Count(2), m.Count(3)
	if mid < n*n/3 || dark < n*n/3 {
		t.Errorf("mid %d dark %d, want both near half", mid, dark)
	}
}

func filled(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestFromImageUniform(t *testing.T) {
	opt := Options{Stitches: 10, Colors: 4}
	cases := []struct {
		v    uint8
		want int
	}{
		{255, 1},
		{0, 4},
	}
	for _, tc := range cases {
		m, err := FromImage(filled(100, 50, tc.v), opt)
		if err != nil {
			t.Fatal(err)
		}
		if m.Rows() != 5 || m.Cols() != 10 {
			t.Fatalf("size %d×%d, want 5×10", m.Rows(), m.Cols())
		}
		if got := m.Count(tc.want); got != 50 {
			t.Errorf("gray %d: %d cells of %d, want 50\n%v", tc.v, got, tc.want, m)
		}
	}
}

func TestFromImageGradient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			v := uint8(x * 255 / 199)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	m, err := FromImage(img, Options{Stitches: 20, Colors: 4})
	if err != nil {
		t.Fatal(err)
	}
	if m.Min() < 1 || m.Max() > 4 {
		t.Fatalf("values outside 1..4:\n%v", m)
	}
	left, err := m.Sub(0, 0, m.Rows(), 10)
	if err != nil {
		t.Fatal(err)
	}
	right, err := m.Sub(0, 10, m.Rows(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if left.Count(4) <= right.Count(4) || left.Count(1) >= right.Count(1) {
		t.Errorf("dark side not darker:\n%v", m)
	}
}

func TestFromImageErrors(t *testing.T) {
	if _, err := FromImage(filled(4, 4, 0), Options{Stitches: 4, Colors: 6}); !errors.Is(err, ErrColors) {
		t.Errorf("err = %v, want ErrColors", err)
	}
	empty := image.NewGray(image.Rectangle{})
	if _, err := FromImage(empty, DefaultOptions()); !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestDecodeFormats(t *testing.T) {
	dir := t.TempDir()
	img := filled(40, 20, 200)
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			img.SetGray(x, y, color.Gray{Y: 30})
		}
	}
	opt := Options{Stitches: 8, Colors: 3}
	want, err := FromImage(img, opt)
	if err != nil {
		t.Fatal(err)
	}

	encoders := map[string]func(*os.File) error{
		"pic.png":  func(f *os.File) error { return png.Encode(f, img) },
		"pic.tiff": func(f *os.File) error { return tiff.Encode(f, img, nil) },
	}
	for name, enc := range encoders {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := enc(f); err != nil {
			t.Fatal(err)
		}
		f.Close()

		got, err := Decode(path, opt)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !got.Equal(want) {
			t.Errorf("%s:\n%v\nwant\n%v", name, got, want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Decode(filepath.Join(dir, "missing.png"), DefaultOptions()); err == nil {
		t.Error("missing file decoded")
	}
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(junk, DefaultOptions()); !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestLoadOpenCV(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png"), DefaultOptions()); !errors.Is(err, ErrDecode) {
		t.Errorf("missing file: err = %v, want ErrDecode", err)
	}

	path := filepath.Join(dir, "white.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, filled(60, 30, 255)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	m, err := Load(path, Options{Stitches: 12, Colors: 4})
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 6 || m.Cols() != 12 || m.Count(1) != 72 {
		t.Errorf("got\n%v\nwant 6×12 of 1", m)
	}
}
