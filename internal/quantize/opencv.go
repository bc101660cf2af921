package quantize

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"knitpattern/internal/logging"
	"knitpattern/pkg/grid"
	"knitpattern/pkg/pathutil"
)

// Load reads an image with OpenCV and quantizes it. Shrinking uses area
// interpolation, which averages every source pixel under a stitch.
func Load(path string, o Options) (*grid.Matrix, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("%s: %w", path, ErrDecode)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rows, cols := o.Size(gray.Cols(), gray.Rows())
	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(gray, &small, image.Point{X: cols, Y: rows}, 0, 0, gocv.InterpolationArea)

	buf := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			buf.Set(y, x, float64(small.GetUCharAt(y, x))/255)
		}
	}
	logging.Logger().Debug("image quantized with opencv",
		"path", path, "src_w", gray.Cols(), "src_h", gray.Rows(), "rows", rows, "cols", cols)
	return Dither(buf, o)
}
