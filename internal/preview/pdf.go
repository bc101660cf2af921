package preview

import (
	"fmt"
	"image/color"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"knitpattern/internal/logging"
	"knitpattern/pkg/grid"
)

// pdfMargin is the blank edge around the chart, in PDF points.
const pdfMargin = 36

// ChartLayout places a rows×cols chart on a page.
type ChartLayout struct {
	Cell   float64 // side of one stitch square
	X0, Y0 float64 // lower left corner of the chart
}

// Layout fits the chart into page inside the margin, keeping square cells,
// and centres it.
func Layout(page *pdf.Rectangle, rows, cols int) ChartLayout {
	w := page.URx - page.LLx - 2*pdfMargin
	h := page.URy - page.LLy - 2*pdfMargin
	cell := min(w/float64(cols), h/float64(rows))
	return ChartLayout{
		Cell: cell,
		X0:   page.LLx + (page.URx-page.LLx-cell*float64(cols))/2,
		Y0:   page.LLy + (page.URy-page.LLy-cell*float64(rows))/2,
	}
}

// WritePDF writes m as a single page A4 chart with one filled square per
// stitch and a thin grid. Row 0 is at the top of the page.
func WritePDF(w io.Writer, m *grid.Matrix, pal Palette) error {
	paper := document.A4
	if m.Cols() > m.Rows() {
		paper = &pdf.Rectangle{URx: document.A4.URy, URy: document.A4.URx}
	}
	page, err := document.WriteSinglePage(w, paper, pdf.V1_7, nil)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}

	lay := Layout(paper, m.Rows(), m.Cols())
	for r := 0; r < m.Rows(); r++ {
		y := lay.Y0 + float64(m.Rows()-1-r)*lay.Cell
		for c := 0; c < m.Cols(); c++ {
			page.SetFillColor(deviceRGB(pal.Color(m.At(r, c))))
			page.Rectangle(lay.X0+float64(c)*lay.Cell, y, lay.Cell, lay.Cell)
			page.Fill()
		}
	}

	page.SetStrokeColor(pdfcolor.DeviceGray(0.5))
	page.SetLineWidth(min(0.5, lay.Cell/10))
	for r := 0; r <= m.Rows(); r++ {
		y := lay.Y0 + float64(r)*lay.Cell
		page.MoveTo(lay.X0, y)
		page.LineTo(lay.X0+float64(m.Cols())*lay.Cell, y)
	}
	for c := 0; c <= m.Cols(); c++ {
		x := lay.X0 + float64(c)*lay.Cell
		page.MoveTo(x, lay.Y0)
		page.LineTo(x, lay.Y0+float64(m.Rows())*lay.Cell)
	}
	page.Stroke()

	if err := page.Close(); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	logging.Logger().Debug("pdf chart written",
		"rows", m.Rows(), "cols", m.Cols(), "cell_pt", lay.Cell)
	return nil
}

func deviceRGB(c color.RGBA) pdfcolor.Color {
	return pdfcolor.DeviceRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
