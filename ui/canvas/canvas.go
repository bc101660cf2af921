// Package canvas provides a pattern chart view with pan and zoom.
package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"knitpattern/internal/preview"
	"knitpattern/pkg/grid"
)

const (
	minZoom  = 0.125
	maxZoom  = 8.0
	zoomStep = 1.25

	// stitchPixels is the on-screen size of a stitch at zoom 1.
	stitchPixels = 8
)

var backdrop = color.RGBA{0x30, 0x30, 0x30, 0xff}

// PatternCanvas shows a pattern matrix as a chart of coloured cells.
type PatternCanvas struct {
	widget.BaseWidget

	mu      sync.Mutex
	pattern *grid.Matrix
	palette preview.Palette
	grid    bool

	// rendered chart, rebuilt when the pattern, palette or cell size changes
	chart     *image.RGBA
	chartCell int
	stale     bool

	raster *fynecanvas.Raster
	zoom   float64

	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onZoomChange func(zoom float64)
	onStitch     func(row, col, value int)
}

// zoomScroll wraps a scroll container but uses the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PatternCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PatternCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// ScrollBy moves the view by d, clamped to the content.
func (zs *zoomScroll) ScrollBy(d fyne.Delta) {
	content := zs.scroll.Content.MinSize()
	view := zs.scroll.Size()
	off := zs.scroll.Offset
	off.X = clamp32(off.X-d.DX, 0, content.Width-view.Width)
	off.Y = clamp32(off.Y-d.DY, 0, content.Height-view.Height)
	zs.scroll.Offset = off
	zs.scroll.Refresh()
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *PatternCanvas
	raster *fynecanvas.Raster
}

func newDraggableContent(pc *PatternCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{canvas: pc, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// Dragged pans the view.
func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	dc.canvas.scroll.ScrollBy(ev.Dragged)
}

func (dc *draggableContent) DragEnd() {}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	dc.canvas.scroll.Scrolled(ev)
}

// Tapped reports the stitch under the pointer.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	pc := dc.canvas
	if pc.onStitch == nil {
		return
	}
	// Fyne can deliver taps outside the widget bounds
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	pc.mu.Lock()
	m := pc.pattern
	cell := cellSize(pc.zoom)
	pc.mu.Unlock()
	if m == nil {
		return
	}
	row, col, ok := stitchAt(m, cell, float64(ev.Position.X), float64(ev.Position.Y))
	if !ok {
		return
	}
	pc.onStitch(row, col, m.At(row, col))
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// NewPatternCanvas creates an empty chart view.
func NewPatternCanvas() *PatternCanvas {
	pc := &PatternCanvas{
		zoom:    1.0,
		palette: preview.DefaultPalette(),
		grid:    true,
		imgSize: fyne.NewSize(400, 300),
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(pc.imgSize)

	pc.content = newDraggableContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	return pc
}

// SetPattern replaces the displayed pattern and palette. A nil pattern
// clears the view.
func (pc *PatternCanvas) SetPattern(m *grid.Matrix, pal preview.Palette) {
	pc.mu.Lock()
	pc.pattern = m
	pc.palette = pal
	pc.stale = true
	pc.mu.Unlock()
	pc.updateContentSize()
}

// SetPalette recolours the displayed pattern.
func (pc *PatternCanvas) SetPalette(pal preview.Palette) {
	pc.mu.Lock()
	pc.palette = pal
	pc.stale = true
	pc.mu.Unlock()
	pc.Refresh()
}

// SetGrid turns the cell grid lines on or off.
func (pc *PatternCanvas) SetGrid(on bool) {
	pc.mu.Lock()
	pc.grid = on
	pc.stale = true
	pc.mu.Unlock()
	pc.Refresh()
}

// Grid reports whether grid lines are drawn.
func (pc *PatternCanvas) Grid() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.grid
}

// Chart returns the last rendered chart, or nil.
func (pc *PatternCanvas) Chart() *image.RGBA {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.chart
}

// Container returns the scrollable view to place in a layout.
func (pc *PatternCanvas) Container() fyne.CanvasObject {
	return pc
}

// SetZoom sets the zoom level.
func (pc *PatternCanvas) SetZoom(zoom float64) {
	zoom = math.Max(minZoom, math.Min(maxZoom, zoom))
	pc.mu.Lock()
	pc.zoom = zoom
	pc.mu.Unlock()
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (pc *PatternCanvas) Zoom() float64 {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PatternCanvas) ZoomIn() {
	pc.SetZoom(pc.Zoom() * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PatternCanvas) ZoomOut() {
	pc.SetZoom(pc.Zoom() / zoomStep)
}

// FitToWindow adjusts zoom so the whole chart is visible.
func (pc *PatternCanvas) FitToWindow() {
	pc.mu.Lock()
	m := pc.pattern
	pc.mu.Unlock()
	if m == nil {
		return
	}
	view := pc.scroll.Size()
	if view.Width <= 0 || view.Height <= 0 {
		return
	}
	pc.SetZoom(fitZoom(m.Rows(), m.Cols(), float64(view.Width), float64(view.Height)))
}

// SetFitToWindow enables or disables auto-fit on resize.
func (pc *PatternCanvas) SetFitToWindow(fit bool) {
	pc.fitToWindow = fit
	if fit {
		pc.FitToWindow()
	}
}

// FitsToWindow reports whether auto-fit is on.
func (pc *PatternCanvas) FitsToWindow() bool {
	return pc.fitToWindow
}

// CheckResize auto-fits after the view was resized, when enabled.
func (pc *PatternCanvas) CheckResize(size fyne.Size) {
	if !pc.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != pc.lastScrollSize {
		pc.lastScrollSize = size
		pc.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PatternCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnStitchTapped sets a callback for taps on a stitch.
func (pc *PatternCanvas) OnStitchTapped(callback func(row, col, value int)) {
	pc.onStitch = callback
}

// Refresh redraws the chart.
func (pc *PatternCanvas) Refresh() {
	pc.raster.Refresh()
}

func (pc *PatternCanvas) updateContentSize() {
	pc.mu.Lock()
	if pc.pattern == nil {
		pc.imgSize = fyne.NewSize(400, 300)
	} else {
		cell := cellSize(pc.zoom)
		pc.imgSize = fyne.NewSize(float32(pc.pattern.Cols()*cell), float32(pc.pattern.Rows()*cell))
	}
	size := pc.imgSize
	pc.mu.Unlock()

	pc.raster.SetMinSize(size)
	pc.raster.Resize(size)
	if pc.content != nil {
		pc.content.Resize(size)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (pc *PatternCanvas) draw(w, h int) image.Image {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(out, out.Bounds(), backdrop)
	if pc.pattern == nil {
		pc.chart = nil
		return out
	}

	cell := cellSize(pc.zoom)
	if pc.stale || pc.chart == nil || pc.chartCell != cell {
		pc.chart = preview.Image(pc.pattern, pc.palette, preview.Options{Scale: cell, Grid: pc.grid})
		pc.chartCell = cell
		pc.stale = false
	}
	copyRect(out, pc.chart)
	return out
}

// cellSize returns the on-screen pixels per stitch at zoom.
func cellSize(zoom float64) int {
	return max(1, int(math.Round(stitchPixels*zoom)))
}

// fitZoom returns the zoom at which a rows×cols chart fits a view of
// width×height, leaving a small margin.
func fitZoom(rows, cols int, width, height float64) float64 {
	if rows < 1 || cols < 1 {
		return 1
	}
	zx := width / float64(cols*stitchPixels)
	zy := height / float64(rows*stitchPixels)
	return math.Min(zx, zy) * 0.95
}

// stitchAt converts a position on the chart to a stitch.
func stitchAt(m *grid.Matrix, cell int, x, y float64) (row, col int, ok bool) {
	if x < 0 || y < 0 || cell < 1 {
		return 0, 0, false
	}
	row, col = int(y)/cell, int(x)/cell
	if !m.Contains(grid.P(row, col)) {
		return 0, 0, false
	}
	return row, col, true
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetRGBA(x, y, c)
		}
	}
}

func copyRect(dst, src *image.RGBA) {
	r := dst.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)],
			src.Pix[src.PixOffset(r.Min.X, y):src.PixOffset(r.Max.X, y)])
	}
}

func clamp32(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}

// CreateRenderer implements fyne.Widget.
func (pc *PatternCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &patternCanvasRenderer{canvas: pc}
}

type patternCanvasRenderer struct {
	canvas *PatternCanvas
}

func (r *patternCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *patternCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *patternCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *patternCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *patternCanvasRenderer) Destroy() {}
