package quantize

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"

	"knitpattern/internal/logging"
	"knitpattern/pkg/grid"
	"knitpattern/pkg/pathutil"
)

// FromImage quantizes img. The image is scaled with bilinear filtering
// straight into an 8-bit grayscale buffer before dithering.
func FromImage(img image.Image, o Options) (*grid.Matrix, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image: %w", ErrDecode)
	}
	rows, cols := o.Size(b.Dx(), b.Dy())

	small := image.NewGray(image.Rect(0, 0, cols, rows))
	draw.BiLinear.Scale(small, small.Bounds(), img, b, draw.Src, nil)

	gray := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gray.Set(y, x, float64(small.GrayAt(x, y).Y)/255)
		}
	}
	logging.Logger().Debug("image quantized",
		"src_w", b.Dx(), "src_h", b.Dy(), "rows", rows, "cols", cols, "colors", o.Colors)
	return Dither(gray, o)
}

// Decode reads a PNG, JPEG, BMP or TIFF file and quantizes it.
func Decode(path string, o Options) (*grid.Matrix, error) {
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrDecode, err)
	}
	logging.Logger().Debug("image decoded", "path", path, "format", format)
	return FromImage(img, o)
}
