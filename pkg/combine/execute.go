package combine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ddieppa/mdagg/pkg/output"
	"go.uber.org/zap"
)

// DefaultOutputDirName is the report directory created inside the source directory when
// no output directory is configured.
const DefaultOutputDirName = "aggregated-code"

// Report describes the files written by Execute.
type Report struct {
	*Result
	ReportPath string // Markdown report.
	TreePath   string // Directory tree; empty unless requested.
}

// Execute aggregates opts.SourceDir and writes the report to a timestamped file in the
// output directory. With writeTree set, the directory tree of the rendered files is
// written next to it.
func (a *Aggregator) Execute(ctx context.Context, w *output.Writer, opts Options, writeTree bool, startedAt time.Time) (*Report, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(opts.SourceDir, DefaultOutputDirName)
		a.logger.Debug("Using default output directory", zap.String("outputDir", opts.OutputDir))
	}

	res, err := a.Aggregate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if res.FilesFound == 0 {
		a.logger.Warn("No files to process after filtering.")
	}

	rep := &Report{Result: res, ReportPath: output.ReportPath(opts.OutputDir, startedAt)}
	if err := w.Write(rep.ReportPath, []byte(res.Document)); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if writeTree {
		rep.TreePath = strings.TrimSuffix(rep.ReportPath, ".md") + "_tree.txt"
		root := opts.SourceDir
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		tree := RenderTree(filepath.Base(root), res.Files)
		if err := w.Write(rep.TreePath, []byte(tree)); err != nil {
			return nil, fmt.Errorf("failed to write tree structure: %w", err)
		}
	}

	a.logger.Info("Successfully aggregated files",
		zap.String("outputFile", rep.ReportPath),
		zap.Int("totalFiles", res.FileCount))
	return rep, nil
}
