package mainwindow

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"knitpattern/internal/preview"
	"knitpattern/pkg/colorutil"
)

// KnitTheme tints the default theme with the yarn palette: the third yarn
// is the accent, the second marks selections, and the first and last are
// the light and dark backgrounds.
type KnitTheme struct {
	pal preview.Palette
}

var _ fyne.Theme = (*KnitTheme)(nil)

// NewKnitTheme returns a theme coloured after pal.
func NewKnitTheme(pal preview.Palette) *KnitTheme {
	return &KnitTheme{pal: pal}
}

func (t *KnitTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	light, mid, accent, dark := t.pal[0], t.pal[1], t.pal[2], t.pal[3]
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accent
	case theme.ColorNameSelection:
		return withAlpha(mid, 0x80)
	case theme.ColorNameHover:
		return withAlpha(mid, 0x40)
	case theme.ColorNameScrollBar:
		return colorutil.Blend(light, dark, 0.5)
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return dark
		}
		return light
	case theme.ColorNameForeground:
		if variant == theme.VariantDark {
			return colorutil.Contrasting(dark)
		}
		return colorutil.Contrasting(light)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *KnitTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *KnitTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *KnitTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
