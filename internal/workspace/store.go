package workspace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/theatre"
)

// FileName is the default workspace file inside the data directory.
const FileName = "workspace.json"

type persisted struct {
	Live      Branch            `json:"live"`
	Sandbox   Branch            `json:"sandbox"`
	Mode      planner.Mode      `json:"mode"`
	Selection theatre.Selection `json:"selection"`
}

// Save writes both branches and the slicer state to path, atomically.
func (w *Workspace) Save(path string) error {
	w.mu.RLock()
	state := persisted{
		Live:      w.branches[Live].Clone(),
		Sandbox:   w.branches[Sandbox].Clone(),
		Mode:      w.mode,
		Selection: w.selection,
	}
	w.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp workspace file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(state); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode workspace: %w", err)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename workspace file: %w", err)
	}

	log.Info().Str("path", path).Str("active", state.activeSlot().String()).Msg("Workspace saved")
	return nil
}

// Load replaces the workspace contents from path. A missing file leaves the workspace
// unchanged and is not an error.
func (w *Workspace) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Nothing saved yet
		}
		return fmt.Errorf("failed to open workspace: %w", err)
	}

	var state persisted
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to decode workspace %s: %w", path, err)
	}
	for _, b := range []Branch{state.Live, state.Sandbox} {
		if err := b.Assumptions.Validate(); err != nil {
			return fmt.Errorf("workspace %s: %w", path, err)
		}
	}
	mode := state.Mode.WithDefaults()
	if err := mode.Validate(); err != nil {
		return fmt.Errorf("workspace %s: %w", path, err)
	}

	w.mu.Lock()
	w.branches = [2]Branch{state.Live, state.Sandbox}
	w.mode = mode
	w.selection = state.Selection
	w.mu.Unlock()

	log.Info().
		Str("path", path).
		Int("timetable_rows", len(state.Live.Data.Timetable)).
		Int("backlog_rows", len(state.Live.Data.Backlog)).
		Msg("Workspace loaded")
	return nil
}

// SetAside renames an unreadable workspace file so that the next Save cannot overwrite
// it, and returns the new path.
func SetAside(path string, now time.Time) (string, error) {
	dest := fmt.Sprintf("%s.unreadable-%s", path, now.Format("20060102-150405"))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to set aside workspace %s: %w", path, err)
	}
	return dest, nil
}

func (p persisted) activeSlot() Slot {
	if p.Mode.Sandbox {
		return Sandbox
	}
	return Live
}
