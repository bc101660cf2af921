// Command knitletter writes text as a knitting pattern.
//
// Usage:
//
//	knitletter [flags] -o name text...
//
// The text is drawn with the built-in 7×13 face or a glyph file given with
// -font, shaded with two yarn colours, and written as a machine pattern
// name.json plus optional previews.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"knitpattern/internal/app"
	"knitpattern/internal/lettering"
	"knitpattern/internal/logging"
	"knitpattern/internal/machine"
	"knitpattern/internal/preview"
	"knitpattern/internal/version"
)

var (
	flagVerbose   = flag.Bool("v", false, "Verbose output")
	flagVersion   = flag.Bool("version", false, "Print version and exit")
	flagFont      = flag.String("font", "", "Glyph file, empty = built-in 7x13 face")
	flagAlign     = flag.String("align", "left", "Line alignment: left or middle")
	flagNewline   = flag.String("newline", "|", "Character that starts a new line")
	flagSpacing   = flag.Int("spacing", 0, "Blank columns between letters")
	flagBigAccent = flag.Bool("big-accent", false, "Draw taller acute accents")
	flagLight     = flag.Int("light", 1, "Colour of the background")
	flagDark      = flag.Int("dark", 4, "Colour of the letters")
	flagOut       = flag.String("o", "lettering", "Output path without extension")
	flagStart     = flag.Int("start", 0, "First needle; centred when not given")
	flagPNG       = flag.Bool("png", true, "Write a PNG preview")
	flagPDF       = flag.Bool("pdf", false, "Write a PDF chart")
	flagPalette   = flag.String("palette", "", "Preview colours, four comma-separated hex values")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] text...\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *flagVersion {
		fmt.Println(version.String("knitletter"))
		return
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(strings.Join(flag.Args(), " ")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(text string) error {
	font := lettering.DefaultFont()
	if *flagFont != "" {
		f, err := lettering.LoadFont(*flagFont)
		if err != nil {
			return err
		}
		font = f
	}

	opt := lettering.DefaultOptions()
	align, err := lettering.ParseAlign(*flagAlign)
	if err != nil {
		return err
	}
	opt.Align = align
	if *flagNewline != "" {
		if utf8.RuneCountInString(*flagNewline) != 1 {
			return fmt.Errorf("newline %q: want a single character", *flagNewline)
		}
		opt.Newline, _ = utf8.DecodeRuneInString(*flagNewline)
	}
	opt.LetterSpacing = *flagSpacing
	opt.BigAccent = *flagBigAccent

	ink, err := lettering.Write(font, text, opt)
	if err != nil {
		return err
	}
	m := ink.Map(func(v int) int {
		if v == 1 {
			return *flagDark
		}
		return *flagLight
	})

	start := machine.CenteredStart(m.Cols())
	if s := startNeedle(flag.CommandLine); s != nil {
		start = *s
	}
	p, err := machine.NewPattern(m, start)
	if err != nil {
		return err
	}
	files := []string{*flagOut + app.ExtMachine}
	if err := p.WriteFile(files[0]); err != nil {
		return err
	}

	pal := preview.DefaultPalette()
	if *flagPalette != "" {
		if pal, err = preview.ParsePalette(strings.Split(*flagPalette, ",")); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		on  bool
		ext string
	}{{*flagPNG, app.ExtPNG}, {*flagPDF, app.ExtPDF}} {
		if !c.on {
			continue
		}
		path := *flagOut + c.ext
		if err := app.WriteChart(path, m, pal, 0); err != nil {
			return err
		}
		files = append(files, path)
	}

	fmt.Printf("%d rows × %d stitches\n", m.Rows(), m.Cols())
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}

// startNeedle returns the -start value if it was given on the command
// line, or nil to centre the pattern. Needle 0 is a valid start.
func startNeedle(fs *flag.FlagSet) *int {
	var start *int
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "start" {
			return
		}
		if v, ok := f.Value.(flag.Getter).Get().(int); ok {
			start = &v
		}
	})
	return start
}
