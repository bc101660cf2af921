package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"knitpattern/internal/preview"
	"knitpattern/pkg/grid"
)

func TestStateLoadPattern(t *testing.T) {
	dir := t.TempDir()
	m := grid.MustFromRows([][]int{{1, 2}, {3, 4}})
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "front.matrix.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewState()
	var loaded []string
	s.On(EventPatternLoaded, func(data interface{}) {
		loaded = append(loaded, data.(string))
	})
	if err := s.LoadPattern(path); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Snapshot()
	if !got.Equal(m) {
		t.Errorf("pattern =\n%v", got)
	}
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0] != path {
		t.Errorf("load events %v", loaded)
	}

	cleared := false
	s.On(EventPatternCleared, func(interface{}) { cleared = true })
	s.Clear()
	if got, _ := s.Snapshot(); got != nil || !cleared {
		t.Error("Clear did not drop the pattern")
	}
	if err := s.Reload(); err != nil {
		t.Errorf("Reload without pattern: %v", err)
	}
}

func TestStateLoadMotif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "star.txt")
	if err := os.WriteFile(path, []byte("0 1\n1 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadPattern(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.At(0, 0) != 1 || m.At(0, 1) != 4 {
		t.Errorf("motif shaded as\n%v", m)
	}
	if _, err := ReadPattern(filepath.Join(t.TempDir(), "bad.json")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestStateSetPalette(t *testing.T) {
	s := NewState()
	var got preview.Palette
	s.On(EventPaletteChanged, func(data interface{}) { got = data.(preview.Palette) })
	pal, err := preview.ParsePalette([]string{"#111111", "#222222", "#333333", "#444444"})
	if err != nil {
		t.Fatal(err)
	}
	s.SetPalette(pal)
	if got != pal {
		t.Error("palette event not delivered")
	}
	if _, p := s.Snapshot(); p != pal {
		t.Error("palette not stored")
	}
}

func TestFileWatcherCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.matrix.json")
	w := NewFileWatcher(path, time.Hour)
	if w.Check() {
		t.Error("missing file reported as changed")
	}
	if err := os.WriteFile(path, []byte("[[1,1]]"), 0644); err != nil {
		t.Fatal(err)
	}
	if !w.Check() {
		t.Error("new file not reported")
	}
	if w.Check() {
		t.Error("unchanged file reported twice")
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if !w.Check() {
		t.Error("touched file not reported")
	}
}

func TestFileWatcherCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.matrix.json")
	if err := os.WriteFile(path, []byte("[[1,1]]"), 0644); err != nil {
		t.Fatal(err)
	}
	w := NewFileWatcher(path, 5*time.Millisecond)
	changed := make(chan string, 1)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-changed:
		if p != path {
			t.Errorf("callback path %q", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change callback")
	}
}

func TestFileWatcherResetWhileRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.matrix.json")
	if err := os.WriteFile(path, []byte("[[1,1]]"), 0644); err != nil {
		t.Fatal(err)
	}
	w := NewFileWatcher(path, time.Millisecond)
	w.OnChange(func(string) {})
	w.Start()

	// the viewer resets from the UI goroutine while the loop polls
	for i := range 50 {
		later := time.Now().Add(time.Duration(i+1) * time.Minute)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatal(err)
		}
		w.ResetBaseline()
		time.Sleep(100 * time.Microsecond)
	}
	w.Stop()

	if w.Check() {
		t.Error("change after reset reported")
	}
}

func TestStateShowPattern(t *testing.T) {
	s := NewState()
	var paths []string
	s.On(EventPatternLoaded, func(data interface{}) {
		paths = append(paths, data.(string))
	})
	m := grid.Filled(2, 2, 3)
	s.ShowPattern("", m)
	got, _ := s.Snapshot()
	if got != m || s.Path() != "" {
		t.Error("pattern not shown")
	}
	if len(paths) != 1 || paths[0] != "" {
		t.Errorf("load events %q", paths)
	}
	if err := s.Reload(); err != nil {
		t.Errorf("Reload of an unsaved pattern: %v", err)
	}
}
