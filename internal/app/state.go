// Package app runs knitting jobs and holds the viewer's application state.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"knitpattern/internal/motif"
	"knitpattern/internal/preview"
	"knitpattern/pkg/grid"
)

// State holds the viewer state: the pattern on screen and its palette.
type State struct {
	mu sync.RWMutex

	PatternPath string
	Pattern     *grid.Matrix
	Palette     preview.Palette

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventPatternLoaded EventType = iota
	EventPaletteChanged
	EventPatternCleared
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	return &State{
		Palette:   preview.DefaultPalette(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadPattern reads a pattern matrix (JSON array of rows, as written next
// to each export) or a motif text file, which is shown in colours 1 and 4.
func (s *State) LoadPattern(path string) error {
	m, err := ReadPattern(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.PatternPath = path
	s.Pattern = m
	s.mu.Unlock()
	s.Emit(EventPatternLoaded, path)
	return nil
}

// ShowPattern displays m, made elsewhere, as if it had been loaded from
// path. An empty path leaves nothing to reload.
func (s *State) ShowPattern(path string, m *grid.Matrix) {
	s.mu.Lock()
	s.PatternPath = path
	s.Pattern = m
	s.mu.Unlock()
	s.Emit(EventPatternLoaded, path)
}

// Reload reads the current pattern file again.
func (s *State) Reload() error {
	s.mu.RLock()
	path := s.PatternPath
	s.mu.RUnlock()
	if path == "" {
		return nil
	}
	return s.LoadPattern(path)
}

// Clear drops the current pattern.
func (s *State) Clear() {
	s.mu.Lock()
	s.PatternPath = ""
	s.Pattern = nil
	s.mu.Unlock()
	s.Emit(EventPatternCleared, nil)
}

// SetPalette replaces the palette and emits an event.
func (s *State) SetPalette(p preview.Palette) {
	s.mu.Lock()
	s.Palette = p
	s.mu.Unlock()
	s.Emit(EventPaletteChanged, p)
}

// Snapshot returns the current pattern and palette.
func (s *State) Snapshot() (*grid.Matrix, preview.Palette) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Pattern, s.Palette
}

// Path returns the file the current pattern came from, or "".
func (s *State) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PatternPath
}

// ReadPattern loads a matrix from a .json or motif .txt file.
func ReadPattern(path string) (*grid.Matrix, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var m grid.Matrix
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return &m, nil
	}
	t, err := motif.Load(path)
	if err != nil {
		return nil, err
	}
	return t.Shade(1, grid.MaxColor), nil
}
