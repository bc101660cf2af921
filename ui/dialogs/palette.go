// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"knitpattern/internal/preview"
	"knitpattern/pkg/colorutil"
	"knitpattern/pkg/grid"
)

// PaletteDialog edits the four yarn colours of the preview.
type PaletteDialog struct {
	palette preview.Palette
	window  fyne.Window

	entries  [grid.MaxColor]*widget.Entry
	swatches [grid.MaxColor]*fynecanvas.Rectangle

	onSave func(preview.Palette)
}

// NewPaletteDialog creates a palette dialog starting from p.
func NewPaletteDialog(p preview.Palette, window fyne.Window, onSave func(preview.Palette)) *PaletteDialog {
	return &PaletteDialog{
		palette: p,
		window:  window,
		onSave:  onSave,
	}
}

// Show displays the dialog.
func (d *PaletteDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Yarn Colours",
		"Apply",
		"Cancel",
		content,
		func(save bool) {
			if !save {
				return
			}
			p, err := preview.ParsePalette(d.hex())
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			d.palette = p
			if d.onSave != nil {
				d.onSave(p)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(360, 280))
	dlg.Show()
}

func (d *PaletteDialog) createContent() fyne.CanvasObject {
	form := widget.NewForm()
	for i, hex := range d.palette.Hex() {
		entry := widget.NewEntry()
		entry.SetText(hex)
		swatch := fynecanvas.NewRectangle(d.palette[i])
		swatch.SetMinSize(fyne.NewSize(40, 24))
		entry.OnChanged = func(string) {
			d.updateSwatch(i)
		}
		d.entries[i] = entry
		d.swatches[i] = swatch
		form.Append(colourLabel(i), container.NewBorder(nil, nil, nil, swatch, entry))
	}

	reset := widget.NewButton("Defaults", func() {
		for i, hex := range preview.DefaultPalette().Hex() {
			d.entries[i].SetText(hex)
		}
	})
	return container.NewVBox(
		widget.NewLabel("Colour 1 is the lightest yarn, colour 4 the darkest."),
		form,
		reset,
	)
}

func (d *PaletteDialog) hex() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Text
	}
	return out
}

// updateSwatch shows the entered colour, or a neutral grey while the entry
// does not parse.
func (d *PaletteDialog) updateSwatch(i int) {
	c, err := colorutil.ParseHex(d.entries[i].Text)
	if err != nil {
		d.swatches[i].FillColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	} else {
		d.swatches[i].FillColor = c
	}
	fynecanvas.Refresh(d.swatches[i])
}

func colourLabel(i int) string {
	switch i {
	case 0:
		return "Colour 1 (light)"
	case grid.MaxColor - 1:
		return fmt.Sprintf("Colour %d (dark)", grid.MaxColor)
	}
	return fmt.Sprintf("Colour %d", i+1)
}
