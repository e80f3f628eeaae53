package discovery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Discoverer builds the candidate list for one run.
type Discoverer struct {
	fs          afero.Fs
	primary     TrackedFileSource // Authoritative source, tried first when set.
	fallback    TrackedFileSource // Used when primary is unset or fails.
	strict      bool              // A failing primary is an error instead of a fallback.
	maxFileSize int64             // Bytes; 0 disables the limit.
	logger      *zap.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithTrackedSource sets the authoritative source tried before scanning.
func WithTrackedSource(src TrackedFileSource) Option {
	return func(d *Discoverer) { d.primary = src }
}

// WithFallback replaces the scanning source.
func WithFallback(src TrackedFileSource) Option {
	return func(d *Discoverer) { d.fallback = src }
}

// WithStrictSource makes a failing tracked source a run-level error. Scanning is used
// only when no tracked source is set.
func WithStrictSource() Option {
	return func(d *Discoverer) { d.strict = true }
}

// WithMaxFileSizeKB drops files larger than the given size. Zero or less disables it.
func WithMaxFileSizeKB(kb int) Option {
	return func(d *Discoverer) {
		if kb > 0 {
			d.maxFileSize = int64(kb) * 1024
		}
	}
}

// New returns a Discoverer that scans fs, with DefaultDenylist, unless options say
// otherwise.
func New(fs afero.Fs, logger *zap.Logger, opts ...Option) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Discoverer{fs: fs, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	if d.fallback == nil {
		d.fallback = NewScanSource(fs, nil, logger)
	}
	return d
}

// Discover lists the candidate files under root in document order. Files under
// outputDir and files excluded by rules are dropped. A missing or unreadable root is
// the only error besides context cancellation.
func (d *Discoverer) Discover(ctx context.Context, root, outputDir string, rules Excluder) ([]Candidate, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory %s: %w", root, err)
	}
	info, err := d.fs.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s is not a directory", absRoot)
	}

	var absOutput string
	if outputDir != "" {
		if absOutput, err = filepath.Abs(outputDir); err != nil {
			return nil, fmt.Errorf("failed to resolve output directory %s: %w", outputDir, err)
		}
	}

	paths, err := d.list(ctx, absRoot)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		if absOutput != "" && hasPathPrefix(path, absOutput) {
			d.logger.Debug("Skipping file in output directory", zap.String("filePath", path))
			continue
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			d.logger.Warn("Unable to determine relative path", zap.String("filePath", path), zap.Error(err))
			continue
		}
		rel = filepath.ToSlash(rel)

		if rules != nil && rules.ShouldExclude(rel) {
			d.logger.Debug("Excluded by pattern", zap.String("relPath", rel))
			continue
		}
		if !d.accept(path) {
			continue
		}

		candidates = append(candidates, Candidate{Path: path, RelPath: rel})
	}

	d.logger.Info("Discovered candidate files",
		zap.String("directory", absRoot),
		zap.Int("listed", len(paths)),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// list asks the tracked source first and scans when it is unavailable or fails, unless
// the source is strict.
func (d *Discoverer) list(ctx context.Context, root string) ([]string, error) {
	if d.primary != nil {
		files, err := d.primary.ListFiles(ctx, root)
		if err == nil {
			d.logger.Debug("Using tracked file source", zap.String("source", d.primary.Name()))
			return files, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if d.strict {
			return nil, fmt.Errorf("failed to list %s files in %s: %w", d.primary.Name(), root, err)
		}
		if errors.Is(err, ErrSourceUnavailable) {
			d.logger.Warn("Tracked file source unavailable, falling back to directory scanning",
				zap.String("source", d.primary.Name()), zap.Error(err))
		} else {
			d.logger.Error("Error listing tracked files, falling back to directory scanning",
				zap.String("source", d.primary.Name()), zap.Error(err))
		}
	}

	files, err := d.fallback.ListFiles(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", root, err)
	}
	return files, nil
}

// accept drops listed paths that are not regular files on disk or exceed the size limit.
func (d *Discoverer) accept(path string) bool {
	info, err := d.fs.Stat(path)
	if err != nil {
		d.logger.Debug("Listed file is not accessible", zap.String("filePath", path), zap.Error(err))
		return false
	}
	if info.IsDir() {
		return false
	}
	if d.maxFileSize > 0 && info.Size() > d.maxFileSize {
		d.logger.Debug("Skipping file due to size limit",
			zap.String("filePath", path),
			zap.Int64("sizeBytes", info.Size()))
		return false
	}
	return true
}

// hasPathPrefix reports whether path is prefix itself or lies below it.
func hasPathPrefix(path, prefix string) bool {
	path, prefix = filepath.Clean(path), filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
