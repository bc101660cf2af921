// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"knitpattern/internal/app"
	"knitpattern/internal/logging"
	"knitpattern/internal/preview"
	"knitpattern/internal/project"
	"knitpattern/internal/version"
	"knitpattern/ui/canvas"
	"knitpattern/ui/dialogs"
	"knitpattern/ui/prefs"
)

const (
	appTitle       = "Knit Pattern"
	reloadInterval = time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.PatternCanvas
	statusBar *widget.Label
	zoomLabel *widget.Label

	watcher *app.FileWatcher

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
	gridItem        *fyne.MenuItem
	autoReloadItem  *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.restorePalette()
	_, pal := state.Snapshot()
	fyneApp.Settings().SetTheme(NewKnitTheme(pal))
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.SetOnClosed(mw.onClosed)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPatternCanvas()
	mw.canvas.SetGrid(mw.prefs.Bool(prefs.KeyGrid, true))
	_, pal := mw.state.Snapshot()
	mw.canvas.SetPalette(pal)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", zoom*100))
		mw.prefs.SetFloat(prefs.KeyZoom, zoom)
	})
	mw.canvas.SetZoom(mw.prefs.FloatWithFallback(prefs.KeyZoom, 1))
	mw.canvas.OnStitchTapped(func(row, col, value int) {
		m, _ := mw.state.Snapshot()
		if m == nil {
			return
		}
		// rows are knitted bottom-up and needles counted from the left
		mw.updateStatus(fmt.Sprintf("Row %d, stitch %d: colour %d",
			m.Rows()-row, col+1, value))
	})

	toolbar := mw.createToolbar()

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.canvas.Container(),             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(900, 700))
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)
	paletteBtn := widget.NewButton("Colours", mw.onPalette)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		mw.zoomLabel,
		widget.NewSeparator(),
		paletteBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Pattern...", mw.onOpenPattern),
		fyne.NewMenuItem("Run Job...", mw.onRunJob),
		fyne.NewMenuItem("Reload", mw.onReload),
		fyne.NewMenuItem("Close Pattern", mw.state.Clear),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", func() { mw.onExportChart(app.ExtPNG) }),
		fyne.NewMenuItem("Export PDF Chart...", func() { mw.onExportChart(app.ExtPDF) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("Fit to Window", mw.onToggleFitToWindow)
	mw.gridItem = fyne.NewMenuItem("Grid Lines", mw.onToggleGrid)
	mw.gridItem.Checked = mw.canvas.Grid()
	mw.autoReloadItem = fyne.NewMenuItem("Follow File Changes", mw.onToggleAutoReload)
	mw.autoReloadItem.Checked = mw.prefs.Bool(prefs.KeyAutoReload, true)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		mw.gridItem,
		mw.autoReloadItem,
		fyne.NewMenuItem("Yarn Colours...", mw.onPalette),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventPatternLoaded, func(data interface{}) {
		m, pal := mw.state.Snapshot()
		mw.canvas.SetPattern(m, pal)
		path, _ := data.(string)
		name := "untitled"
		if path != "" {
			name = filepath.Base(path)
			mw.prefs.SetString(prefs.KeyLastFile, path)
		}
		mw.SetTitle(appTitle + " - " + name)
		mw.updateStatus(fmt.Sprintf("%s: %d rows × %d stitches", name, m.Rows(), m.Cols()))
		mw.watch(path)
	})

	mw.state.On(app.EventPaletteChanged, func(data interface{}) {
		if pal, ok := data.(preview.Palette); ok {
			mw.canvas.SetPalette(pal)
			mw.app.Settings().SetTheme(NewKnitTheme(pal))
			mw.prefs.SetStrings(prefs.KeyPalette, pal.Hex())
		}
	})

	mw.state.On(app.EventPatternCleared, func(interface{}) {
		_, pal := mw.state.Snapshot()
		mw.canvas.SetPattern(nil, pal)
		mw.watch("")
		mw.SetTitle(appTitle)
		mw.updateStatus("Ready")
	})
}

// watch follows path for changes, replacing any earlier watcher.
func (mw *MainWindow) watch(path string) {
	if mw.watcher != nil {
		if mw.watcher.Path() == path {
			mw.watcher.ResetBaseline()
			return
		}
		mw.watcher.Stop()
		mw.watcher = nil
	}
	if path == "" || !mw.autoReloadItem.Checked {
		return
	}
	mw.watcher = app.NewFileWatcher(path, reloadInterval)
	mw.watcher.OnChange(func(changed string) {
		logging.Logger().Debug("pattern file changed", "path", changed)
		if err := mw.state.Reload(); err != nil {
			// the writer may still be busy; the next tick retries
			mw.updateStatus("Reload failed: " + err.Error())
		}
	})
	mw.watcher.Start()
}

// OpenPattern loads a pattern file, reporting failures in a dialog.
func (mw *MainWindow) OpenPattern(path string) {
	if err := mw.state.LoadPattern(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// RestoreLastPattern reopens the pattern shown when the viewer last closed.
func (mw *MainWindow) RestoreLastPattern() {
	path := mw.prefs.String(prefs.KeyLastFile)
	if path == "" {
		return
	}
	if err := mw.state.LoadPattern(path); err != nil {
		logging.Logger().Debug("last pattern not restored", "path", path, "err", err)
	}
}

// SavePreferences writes the preferences file.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		logging.Logger().Warn("preferences not saved", "err", err)
	}
}

func (mw *MainWindow) restorePalette() {
	hex := mw.prefs.Strings(prefs.KeyPalette)
	if len(hex) == 0 {
		return
	}
	pal, err := preview.ParsePalette(hex)
	if err != nil {
		logging.Logger().Debug("stored palette ignored", "err", err)
		return
	}
	mw.state.SetPalette(pal)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// Menu action handlers

func (mw *MainWindow) onOpenPattern() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.OpenPattern(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json", ".txt"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onRunJob() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		job, err := project.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		dialogs.NewJobDialog(job, mw.Window, func(job *project.File) {
			mw.runJob(path, job)
		}).Show()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Ext}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// runJob processes the job in the background and shows the last pattern.
func (mw *MainWindow) runJob(path string, job *project.File) {
	mw.updateStatus("Running " + job.Name + "...")
	go func() {
		outputs, err := app.RunJob(path, job, app.BatchOptions{})
		if err != nil {
			mw.updateStatus("Job failed")
			dialog.ShowError(err, mw.Window)
			return
		}
		if err := job.Save(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		last := outputs[len(outputs)-1]
		shown := ""
		for _, f := range last.Files {
			if strings.HasSuffix(f, app.ExtMatrix) {
				shown = f
			}
		}
		mw.state.ShowPattern(shown, last.Result.Pattern)
		mw.updateStatus(fmt.Sprintf("%s: %d pattern(s) written", job.Name, len(outputs)))
	}()
}

func (mw *MainWindow) onReload() {
	if err := mw.state.Reload(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onExportChart(ext string) {
	m, pal := mw.state.Snapshot()
	if m == nil {
		mw.updateStatus("No pattern to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}
		mw.saveLastDir(path)
		if err := app.WriteChart(path, m, pal, 0); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("pattern" + ext)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onPalette() {
	_, pal := mw.state.Snapshot()
	dialogs.NewPaletteDialog(pal, mw.Window, mw.state.SetPalette).Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.FitsToWindow()
	mw.canvas.SetFitToWindow(enabled)
	mw.fitToWindowItem.Checked = enabled
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.FitsToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Checked = false
		mw.MainMenu().Refresh()
	}
}

func (mw *MainWindow) onToggleGrid() {
	on := !mw.canvas.Grid()
	mw.canvas.SetGrid(on)
	mw.gridItem.Checked = on
	mw.prefs.SetBool(prefs.KeyGrid, on)
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onToggleAutoReload() {
	on := !mw.autoReloadItem.Checked
	mw.autoReloadItem.Checked = on
	mw.prefs.SetBool(prefs.KeyAutoReload, on)
	mw.MainMenu().Refresh()

	path := mw.state.Path()
	mw.watch("")
	mw.watch(path)
}

func (mw *MainWindow) onClosed() {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}
	mw.SavePreferences()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Turns pictures into colour-work patterns\n"+
			"for four-colour knitting machines.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
