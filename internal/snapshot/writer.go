package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rnawhale/classroom-poller/internal/logger"
)

const manifestName = "manifest.json"

// Writer persists snapshot and manifest documents as JSON files the static
// viewer serves directly. Day files from earlier runs are never touched
// unless the same day is observed again.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteAll writes one file per observed day plus the manifest, all stamped
// with the same generatedAt. Each file lands via temp-and-rename, so a
// crash never leaves a truncated document behind.
func (w *Writer) WriteAll(agg *Aggregate, generatedAt time.Time) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return NewWriteError(w.Dir, "failed to create output directory").WithCause(err)
	}

	for _, day := range agg.Days() {
		snap := agg.Snapshot(day, generatedAt)
		if err := w.writeJSON(day+".json", snap); err != nil {
			return err
		}
		logger.Debug("wrote day snapshot", "day", day, "groups", len(snap.Groups))
	}

	if err := w.writeJSON(manifestName, agg.Manifest(generatedAt)); err != nil {
		return err
	}

	logger.Info("snapshot output written", "dir", w.Dir, "days", len(agg.Days()))
	return nil
}

// ReadManifest loads the manifest written by a previous run. A missing file
// returns (nil, nil).
func (w *Writer) ReadManifest() (*Manifest, error) {
	path := filepath.Join(w.Dir, manifestName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, NewWriteError(path, "failed to read manifest").WithCause(err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, NewWriteError(path, "manifest is not valid JSON").WithCause(err)
	}
	return &m, nil
}

// ManifestPath returns where the manifest lives for display purposes.
func (w *Writer) ManifestPath() string {
	return filepath.Join(w.Dir, manifestName)
}

func (w *Writer) writeJSON(name string, v any) error {
	path := filepath.Join(w.Dir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return NewWriteError(path, "failed to marshal document").WithCause(err)
	}
	data = append(data, '\n')

	tmp := fmt.Sprintf("%s.tmp", path)
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return NewWriteError(path, "failed to write temp file").WithCause(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return NewWriteError(path, "failed to move file into place").WithCause(err)
	}
	return nil
}
