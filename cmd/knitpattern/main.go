// Command knitpattern turns pictures into machine-knitting patterns.
//
// Usage:
//
//	knitpattern [flags] job.knitproj
//	knitpattern [flags] -background dots.txt image.png...
//
// With a job file, its settings are used and the advanced background phase
// is saved back into it. Otherwise an ad-hoc job is built from the flags;
// -save writes it out so that later runs can continue the background.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"knitpattern/internal/app"
	"knitpattern/internal/border"
	"knitpattern/internal/logging"
	"knitpattern/internal/project"
	"knitpattern/internal/version"
)

var (
	flagVerbose = flag.Bool("v", false, "Verbose output")
	flagVersion = flag.Bool("version", false, "Print version and exit")
	flagOpenCV  = flag.Bool("opencv", false, "Decode images with OpenCV")
	flagWorkers = flag.Int("j", 0, "Number of parallel decoders, 0 = one per CPU")
	flagDryRun  = flag.Bool("n", false, "Synthesize without writing any file")

	// ad-hoc job settings
	flagSave       = flag.String("save", "", "Write the ad-hoc job to this file")
	flagOut        = flag.String("o", "", "Output directory")
	flagStitches   = flag.Int("stitches", 60, "Pattern width in stitches")
	flagColors     = flag.Int("colors", 4, "Number of yarn colours (3 or 4)")
	flagNoPrune    = flag.Bool("no-prune", false, "Keep isolated stitches")
	flagBackground = flag.String("background", "", "Background motif file")
	flagBorder     = flag.String("border", "", "Border motif file")
	flagSides      = flag.String("sides", "all", "Border sides: letters t, b, l, r, or all/none")
	flagFlat       = flag.Int("flat", 0, "Plain border width on the border sides")
	flagTrim       = flag.Bool("trim", false, "Drop the last row and column of motif files")
	flagStart      = flag.Int("start", 0, "First needle; centred when not given")
	flagPNG        = flag.Bool("png", true, "Write a PNG preview")
	flagPDF        = flag.Bool("pdf", false, "Write a PDF chart")
	flagPalette    = flag.String("palette", "", "Preview colours, four comma-separated hex values")
	flagReset      = flag.Bool("reset", false, "Restart the background phase")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *flagVersion {
		fmt.Println(version.String("knitpattern"))
		return
	}
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	projectPath, job, persist, err := loadJob(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *flagReset {
		job.Continuity.Cutoff = 0
	}

	start := time.Now()
	outputs, err := app.RunJob(projectPath, job, app.BatchOptions{
		OpenCV:  *flagOpenCV,
		Workers: *flagWorkers,
		DryRun:  *flagDryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, out := range outputs {
		res := out.Result
		fmt.Printf("%s: %d rows × %d stitches, background shift %d\n",
			filepath.Base(out.Image), res.Pattern.Rows(), res.Pattern.Cols(), res.Shift)
		if res.Blank {
			fmt.Printf("  warning: no feature found, the picture quantized to background only\n")
		}
		for _, f := range out.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Printf("%d image(s) in %v\n", len(outputs), time.Since(start).Round(time.Millisecond))

	if persist && !*flagDryRun {
		if err := job.Save(projectPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", projectPath, err)
			os.Exit(1)
		}
		fmt.Printf("Background phase saved to %s: row %d of %d\n",
			projectPath, job.Continuity.Cutoff, job.Continuity.BackgroundRows)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] job%s\n", os.Args[0], project.Ext)
	fmt.Fprintf(os.Stderr, "       %s [flags] image...\n\n", os.Args[0])
	flag.PrintDefaults()
}

// loadJob returns the job to run, the path its relative paths resolve
// against, and whether the job should be saved afterwards.
func loadJob(args []string) (string, *project.File, bool, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), project.Ext) {
		job, err := project.Load(args[0])
		if err != nil {
			return "", nil, false, err
		}
		return args[0], job, true, nil
	}

	projectPath := *flagSave
	if projectPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", nil, false, err
		}
		projectPath = filepath.Join(wd, "knitpattern"+project.Ext)
	} else {
		if !strings.EqualFold(filepath.Ext(projectPath), project.Ext) {
			projectPath += project.Ext
		}
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", nil, false, err
		}
		projectPath = abs
	}

	// continue an earlier ad-hoc run saved at the same place
	job := project.New(strings.TrimSuffix(filepath.Base(projectPath), project.Ext))
	if *flagSave != "" {
		if prev, err := project.Load(projectPath); err == nil {
			job.Continuity = prev.Continuity
		}
	}

	job.Quantize = job.Quantize.WithStitches(*flagStitches).WithColors(*flagColors)
	if err := job.Quantize.Validate(); err != nil {
		return "", nil, false, err
	}
	job.Prune.Enabled = !*flagNoPrune

	sides, err := border.ParseSides(*flagSides)
	if err != nil {
		return "", nil, false, err
	}
	if *flagFlat > 0 {
		job.FlatBorder.Sides = sides
		job.FlatBorder.Sizes = border.Uniform(*flagFlat)
	}
	if *flagBorder != "" {
		path, err := filepath.Abs(*flagBorder)
		if err != nil {
			return "", nil, false, err
		}
		job.SetMotifBorder(projectPath, path)
		job.MotifBorder.Sides = sides
		job.MotifBorder.Trim = *flagTrim
	}
	if *flagBackground != "" {
		path, err := filepath.Abs(*flagBackground)
		if err != nil {
			return "", nil, false, err
		}
		job.SetBackground(projectPath, path)
		job.Background.Trim = *flagTrim
	}

	for _, img := range args {
		abs, err := filepath.Abs(img)
		if err != nil {
			return "", nil, false, err
		}
		job.AddImage(projectPath, abs)
	}

	if *flagOut != "" {
		abs, err := filepath.Abs(*flagOut)
		if err != nil {
			return "", nil, false, err
		}
		job.Export.Dir = abs
	}
	if start := startNeedle(flag.CommandLine); start != nil {
		job.Export.Start = start
	}
	job.Export.PNG = *flagPNG
	job.Export.PDF = *flagPDF
	if *flagPalette != "" {
		job.Export.Palette = strings.Split(*flagPalette, ",")
		if _, err := app.Palette(job); err != nil {
			return "", nil, false, err
		}
	}
	return projectPath, job, *flagSave != "", nil
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
