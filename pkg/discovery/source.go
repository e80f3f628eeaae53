// Package discovery produces the ordered list of candidate files for a source tree.
//
// Candidates come from a TrackedFileSource. The git source is authoritative when it is
// available; otherwise the tree is scanned directly. Either way the result is filtered
// by the exclusion rules and by the run's output directory.
package discovery

import (
	"context"
	"errors"
)

// ErrSourceUnavailable reports that a tracked-file source cannot run on this machine
// or for this directory.
var ErrSourceUnavailable = errors.New("tracked file source unavailable")

// TrackedFileSource lists the files considered in scope under a root directory.
type TrackedFileSource interface {
	// Name identifies the source in logs.
	Name() string
	// ListFiles returns absolute paths of the files under root.
	ListFiles(ctx context.Context, root string) ([]string, error)
}

// Candidate is a discovered file before it is loaded.
type Candidate struct {
	Path    string // Absolute path using OS separators.
	RelPath string // Path relative to the source root, forward slashes.
}

// Excluder decides whether a root-relative path is left out of the run.
type Excluder interface {
	ShouldExclude(relPath string) bool
}
