// Package main provides the entry point for the pattern viewer.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"knitpattern/internal/app"
	"knitpattern/internal/logging"
	"knitpattern/internal/version"
	"knitpattern/ui/mainwindow"
	"knitpattern/ui/prefs"
)

const appID = "org.knitpattern.viewer"

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("knitpattern viewer"))
		return
	}
	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	a := fyneapp.NewWithID(appID)

	state := app.NewState()
	win := mainwindow.New(a, state, prefs.Load())

	// Handle command line arguments
	if flag.NArg() > 0 {
		win.OpenPattern(flag.Arg(0))
	} else {
		win.RestoreLastPattern()
	}

	win.ShowAndRun()
}
