package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultDenylist holds the infrastructure names dropped by a filesystem scan.
var DefaultDenylist = []string{".git", ".vs", "bin", "obj"}

// ScanSource enumerates every file under the root directory. Paths whose part below the
// root contains a denylisted string (case-insensitive) are dropped.
type ScanSource struct {
	fs     afero.Fs
	deny   []string
	logger *zap.Logger
}

// NewScanSource creates a scanning source. A nil deny list selects DefaultDenylist.
func NewScanSource(fs afero.Fs, deny []string, logger *zap.Logger) *ScanSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deny == nil {
		deny = DefaultDenylist
	}
	lowered := make([]string, 0, len(deny))
	for _, d := range deny {
		if d = strings.TrimSpace(d); d != "" {
			lowered = append(lowered, strings.ToLower(d))
		}
	}
	return &ScanSource{fs: fs, deny: lowered, logger: logger}
}

// Name implements TrackedFileSource.
func (s *ScanSource) Name() string { return "scan" }

// ListFiles walks root in lexical order.
func (s *ScanSource) ListFiles(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("Error accessing path during scan", zap.String("path", path), zap.Error(err))
			return nil
		}

		if path != root && s.denied(strings.TrimPrefix(path, root)) {
			if info.IsDir() {
				s.logger.Debug("Skipping denylisted directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *ScanSource) denied(below string) bool {
	lower := strings.ToLower(below)
	for _, d := range s.deny {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}
