// Package combine aggregates the files of a source tree into a single Markdown report.
package combine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ddieppa/mdagg/pkg/discovery"
	"github.com/ddieppa/mdagg/pkg/ignore"
	"github.com/ddieppa/mdagg/pkg/tokens"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Aggregator runs the discovery, loading, formatting and counting stages.
type Aggregator struct {
	fs      afero.Fs
	tracked discovery.TrackedFileSource
	strict  bool
	counter tokens.Counter
	logger  *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTrackedSource makes discovery ask src before scanning the directory.
func WithTrackedSource(src discovery.TrackedFileSource) Option {
	return func(a *Aggregator) { a.tracked = src }
}

// WithStrictTrackedSource is WithTrackedSource without the directory scan fallback: a
// failing src fails the run.
func WithStrictTrackedSource(src discovery.TrackedFileSource) Option {
	return func(a *Aggregator) {
		a.tracked = src
		a.strict = true
	}
}

// WithCounter replaces the default advanced token counter.
func WithCounter(c tokens.Counter) Option {
	return func(a *Aggregator) { a.counter = c }
}

// New returns an Aggregator reading through fs.
func New(fs afero.Fs, logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{fs: fs, counter: tokens.Advanced{}, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate produces the report for opts.SourceDir. Files that cannot be read become
// error sections and are listed in Result.Failed; only a missing source directory or a
// cancelled ctx fail the run.
func (a *Aggregator) Aggregate(ctx context.Context, opts Options) (*Result, error) {
	startTime := time.Now()
	a.logger.Info("Starting aggregation", zap.String("directory", opts.SourceDir))

	rules := ignore.Load(a.fs, opts.ExcludeFile, a.logger).With(opts.IgnorePatterns...)

	discoverOpts := []discovery.Option{discovery.WithMaxFileSizeKB(opts.MaxFileSizeKB)}
	if a.tracked != nil {
		discoverOpts = append(discoverOpts, discovery.WithTrackedSource(a.tracked))
	}
	if a.strict {
		discoverOpts = append(discoverOpts, discovery.WithStrictSource())
	}
	cands, err := discovery.New(a.fs, a.logger, discoverOpts...).Discover(ctx, opts.SourceDir, opts.OutputDir, rules)
	if err != nil {
		a.logger.Error("Failed to collect files", zap.Error(err))
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	var (
		mu        sync.Mutex
		completed int
	)
	total := len(cands)
	done := func(c discovery.Candidate) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if opts.OnProgress != nil {
			opts.OnProgress(filepath.Base(c.Path), float64(completed)/float64(total))
		}
	}

	outcomes, err := processConcurrently(ctx, cands, opts.Workers, a.processFile, done, a.logger)
	if err != nil {
		a.logger.Error("Failed to process files", zap.Error(err))
		return nil, fmt.Errorf("failed to process files: %w", err)
	}

	res := assemble(opts.SourceDir, cands, outcomes)
	a.logger.Info("Aggregation completed",
		zap.Int("filesFound", res.FilesFound),
		zap.Int("filesProcessed", res.FileCount),
		zap.Int("filesSkipped", len(res.Skipped)),
		zap.Int("filesFailed", len(res.Failed)),
		zap.Int("tokens", res.TokenCount),
		zap.Duration("elapsed", time.Since(startTime)))
	return res, nil
}

func (a *Aggregator) processFile(cand discovery.Candidate, logger *zap.Logger) outcome {
	cf, err := LoadFile(a.fs, cand)
	switch {
	case errors.Is(err, ErrEmptyFile):
		logger.Debug("Skipping empty file", zap.String("relPath", cand.RelPath))
		return outcome{status: statusSkipped}
	case err != nil:
		logger.Error("Failed to read file", zap.String("filePath", cand.Path), zap.Error(err))
		return outcome{status: statusFailed, fragment: FormatError(cand.RelPath, err), err: err}
	}

	return outcome{
		status:   statusProcessed,
		fragment: FormatFile(*cf),
		tokens:   a.counter.CountTokens(cf.Content),
	}
}

// assemble joins the outcomes in candidate order and builds the header from the totals.
func assemble(sourceDir string, cands []discovery.Candidate, outcomes []outcome) *Result {
	res := &Result{FilesFound: len(cands)}
	var body strings.Builder
	for i, o := range outcomes {
		rel := cands[i].RelPath
		switch o.status {
		case statusProcessed:
			res.FileCount++
			res.TokenCount += o.tokens
			res.Files = append(res.Files, rel)
		case statusSkipped:
			res.Skipped = append(res.Skipped, rel)
			continue
		case statusFailed:
			res.Failed = append(res.Failed, FileError{RelPath: rel, Err: o.err})
		}
		body.WriteString(o.fragment)
	}

	res.Document = formatHeader(sourceDir, res.FilesFound, res.FileCount, res.TokenCount) + body.String()
	return res
}
