package discovery

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// GitSource lists tracked files with `git ls-files`.
type GitSource struct {
	binary string
	logger *zap.Logger
}

// NewGitSource returns a source that runs the git binary found on PATH.
func NewGitSource(logger *zap.Logger) *GitSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitSource{binary: "git", logger: logger}
}

// Name implements TrackedFileSource.
func (g *GitSource) Name() string { return "git" }

// ListFiles runs git in root and joins every listed path onto root. A missing binary
// or a non-zero exit status is reported as an error wrapping ErrSourceUnavailable.
func (g *GitSource) ListFiles(ctx context.Context, root string) ([]string, error) {
	bin, err := exec.LookPath(g.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-c", "core.quotePath=false", "ls-files", "-z")
	cmd.Dir = root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.logger.Debug("git ls-files failed",
			zap.String("dir", root),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
			zap.Error(err))
		return nil, fmt.Errorf("%w: git ls-files in %s: %v", ErrSourceUnavailable, root, err)
	}

	files := parseFileList(stdout.String(), root)
	g.logger.Debug("Listed tracked files", zap.String("dir", root), zap.Int("count", len(files)))
	return files, nil
}

// parseFileList turns NUL-separated `ls-files -z` output into absolute paths. Names are
// taken verbatim, so tabs, newlines, quotes and backslashes survive.
func parseFileList(output, root string) []string {
	var files []string
	for _, name := range strings.Split(output, "\x00") {
		if name == "" {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(name)))
	}
	return files
}
