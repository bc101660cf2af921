package dialogs

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"knitpattern/internal/project"
)

// JobDialog shows the main settings of a job before it is run.
type JobDialog struct {
	job    *project.File
	window fyne.Window

	stitchesEntry *widget.Entry
	colorsSelect  *widget.Select
	pruneCheck    *widget.Check
	pngCheck      *widget.Check
	pdfCheck      *widget.Check
	resetCheck    *widget.Check

	onRun func(*project.File)
}

// NewJobDialog creates a dialog editing job in place.
func NewJobDialog(job *project.File, window fyne.Window, onRun func(*project.File)) *JobDialog {
	return &JobDialog{
		job:    job,
		window: window,
		onRun:  onRun,
	}
}

// Show displays the dialog.
func (d *JobDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Run Job: "+d.job.Name,
		"Run",
		"Cancel",
		content,
		func(run bool) {
			if !run {
				return
			}
			if err := d.applyChanges(); err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onRun != nil {
				d.onRun(d.job)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 360))
	dlg.Show()
}

func (d *JobDialog) createContent() fyne.CanvasObject {
	d.stitchesEntry = widget.NewEntry()
	d.stitchesEntry.SetText(strconv.Itoa(d.job.Quantize.Stitches))

	d.colorsSelect = widget.NewSelect([]string{"3", "4"}, nil)
	d.colorsSelect.SetSelected(strconv.Itoa(d.job.Quantize.Colors))

	d.pruneCheck = widget.NewCheck("Remove isolated stitches", nil)
	d.pruneCheck.SetChecked(d.job.Prune.Enabled)

	d.pngCheck = widget.NewCheck("PNG preview", nil)
	d.pngCheck.SetChecked(d.job.Export.PNG)
	d.pdfCheck = widget.NewCheck("PDF chart", nil)
	d.pdfCheck.SetChecked(d.job.Export.PDF)

	d.resetCheck = widget.NewCheck("Restart background phase", nil)

	images := widget.NewLabel(fmt.Sprintf("%d image(s)", len(d.job.Images)))
	phase := widget.NewLabel(fmt.Sprintf("Background phase: row %d of %d",
		d.job.Continuity.Cutoff, d.job.Continuity.BackgroundRows))
	if d.job.Continuity.BackgroundRows == 0 {
		phase.SetText("Background phase: fresh")
		d.resetCheck.Disable()
	}

	form := widget.NewForm(
		widget.NewFormItem("Stitches", d.stitchesEntry),
		widget.NewFormItem("Colours", d.colorsSelect),
	)
	return container.NewVBox(
		images,
		form,
		d.pruneCheck,
		widget.NewSeparator(),
		widget.NewLabel("Export"),
		d.pngCheck,
		d.pdfCheck,
		widget.NewSeparator(),
		phase,
		d.resetCheck,
	)
}

func (d *JobDialog) applyChanges() error {
	stitches, err := strconv.Atoi(d.stitchesEntry.Text)
	if err != nil {
		return fmt.Errorf("stitches: %w", err)
	}
	colors, err := strconv.Atoi(d.colorsSelect.Selected)
	if err != nil {
		return fmt.Errorf("colours: %w", err)
	}
	qo := d.job.Quantize.WithStitches(stitches).WithColors(colors)
	if err := qo.Validate(); err != nil {
		return err
	}

	d.job.Quantize = qo
	d.job.Prune.Enabled = d.pruneCheck.Checked
	d.job.Export.PNG = d.pngCheck.Checked
	d.job.Export.PDF = d.pdfCheck.Checked
	if d.resetCheck.Checked {
		d.job.Continuity.Cutoff = 0
	}
	return nil
}
