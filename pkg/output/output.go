// Package output writes aggregation reports to disk.
//
// Writes are atomic: content goes to a temporary file in the target directory which is
// then renamed over the destination. When locking is enabled an advisory lock file
// (<path>.lock) serializes concurrent writers across processes; the lock file is left
// in place.
package output

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// TimestampLayout names report files, e.g. 20240131_154502.md.
const TimestampLayout = "20060102_150405"

// Writer persists reports through an afero filesystem.
type Writer struct {
	fs     afero.Fs
	lock   bool
	logger *zap.Logger
}

// NewWriter returns a Writer. Locking uses real OS lock files and should only be
// enabled for an OS-backed filesystem.
func NewWriter(fs afero.Fs, lock bool, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{fs: fs, lock: lock, logger: logger}
}

// ReportPath returns the report file for a run started at t.
func ReportPath(outputDir string, t time.Time) string {
	return filepath.Join(outputDir, t.Format(TimestampLayout)+".md")
}

// Write stores data at path, creating parent directories as needed.
func (w *Writer) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if w.lock {
		fl := flock.New(path + ".lock")
		if err := fl.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
		}
		defer func() {
			if err := fl.Unlock(); err != nil {
				w.logger.Warn("Failed to release lock", zap.String("path", path), zap.Error(err))
			}
		}()
	}

	if err := w.atomicWrite(path, data); err != nil {
		w.logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	w.logger.Debug("Successfully wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func (w *Writer) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(w.fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			w.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := w.fs.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := w.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	committed = true
	return nil
}
