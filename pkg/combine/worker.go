package combine

import (
	"context"
	"runtime"

	"github.com/ddieppa/mdagg/pkg/discovery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type fileStatus int

const (
	statusProcessed fileStatus = iota
	statusSkipped
	statusFailed
)

// outcome is what one worker produced for one candidate.
type outcome struct {
	status   fileStatus
	fragment string
	tokens   int
	err      error
}

// processFunc turns a candidate into its outcome. It must be safe for concurrent use.
type processFunc func(cand discovery.Candidate, logger *zap.Logger) outcome

// processConcurrently runs process over every candidate with a pool of workers and
// returns the outcomes indexed like cands. done is called after each candidate
// completes and may be called from any worker. Cancelling ctx stops dispatch and
// returns ctx.Err().
func processConcurrently(ctx context.Context, cands []discovery.Candidate, maxWorkers int, process processFunc, done func(discovery.Candidate), logger *zap.Logger) ([]outcome, error) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if maxWorkers > len(cands) && len(cands) > 0 {
		maxWorkers = len(cands)
	}

	results := make([]outcome, len(cands))
	jobs := make(chan int, maxWorkers)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for idx := range cands {
			select {
			case jobs <- idx:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		logger.Debug("All files distributed to workers", zap.Int("files", len(cands)))
		return nil
	})

	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		workerLogger := logger.With(zap.Int("workerID", w))
		g.Go(func() error {
			for idx := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				workerLogger.Debug("Worker received file to process", zap.String("filePath", cands[idx].Path))
				results[idx] = process(cands[idx], workerLogger)
				if done != nil {
					done(cands[idx])
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
