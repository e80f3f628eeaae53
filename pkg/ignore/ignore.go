// Package ignore compiles gitignore-style exclusion patterns and evaluates relative
// paths against them.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// vcsPatterns hide version-control metadata regardless of user patterns.
var vcsPatterns = PatternSet{Compile(".git"), Compile(".git/**")}

// PatternSet is an ordered list of patterns. Later patterns override earlier ones.
type PatternSet []*Pattern

// ShouldExclude reports whether relPath is excluded. Paths inside .git are always
// excluded; otherwise the last matching pattern decides.
func (ps PatternSet) ShouldExclude(relPath string) bool {
	excluded, _ := ps.MatchesPathWithPattern(relPath)
	return excluded
}

// MatchesPathWithPattern reports whether relPath is excluded and returns the pattern
// that decided it, or nil when no pattern matched.
func (ps PatternSet) MatchesPathWithPattern(relPath string) (bool, *Pattern) {
	path := normalizePath(relPath)

	for _, p := range vcsPatterns {
		if p.Match(path) {
			return true, p
		}
	}

	excluded := false
	var decided *Pattern
	for _, p := range ps {
		if p.Match(path) {
			excluded = !p.Negated
			decided = p
		}
	}
	return excluded, decided
}

// ParseLines compiles ignore-file lines, skipping blanks and comments.
func ParseLines(lines ...string) PatternSet {
	var ps PatternSet
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		ps = append(ps, Compile(trimmed))
	}
	return ps
}

// Rules pairs a pattern set with a logger that traces individual decisions.
type Rules struct {
	patterns PatternSet  // Compiled patterns in file order.
	logger   *zap.Logger // Logger for debug information.
}

// NewRules initializes Rules from an existing pattern set.
func NewRules(patterns PatternSet, logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rules{patterns: patterns, logger: logger}
}

// Load reads the exclude file at path and compiles its patterns. A missing, empty or
// unreadable path yields Rules with no user patterns; the .git rule still applies.
func Load(fs afero.Fs, path string, logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		logger.Info("No exclude file configured")
		return NewRules(nil, logger)
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("Exclude file not found", zap.String("file", path))
		} else {
			logger.Warn("Failed to read exclude file", zap.String("file", path), zap.Error(err))
		}
		return NewRules(nil, logger)
	}

	patterns := ParseLines(strings.Split(string(content), "\n")...)
	logger.Info("Parsed exclude patterns",
		zap.String("file", path),
		zap.Int("patternCount", len(patterns)))
	return NewRules(patterns, logger)
}

// With returns new Rules with extra patterns appended after the existing ones.
func (r *Rules) With(lines ...string) *Rules {
	extra := ParseLines(lines...)
	if len(extra) == 0 {
		return r
	}
	combined := make(PatternSet, 0, len(r.patterns)+len(extra))
	combined = append(combined, r.patterns...)
	combined = append(combined, extra...)
	r.logger.Debug("Added command-line ignore patterns", zap.Int("count", len(extra)))
	return NewRules(combined, r.logger)
}

// Patterns returns the compiled user patterns.
func (r *Rules) Patterns() PatternSet {
	return r.patterns
}

// ShouldExclude reports whether relPath is excluded and logs the deciding pattern.
func (r *Rules) ShouldExclude(relPath string) bool {
	excluded, p := r.patterns.MatchesPathWithPattern(relPath)
	if p != nil {
		r.logger.Debug("Path matched pattern",
			zap.String("path", relPath),
			zap.String("pattern", p.Raw),
			zap.Bool("negate", p.Negated),
			zap.Bool("excluded", excluded))
	}
	return excluded
}

// normalizePath converts separators to forward slashes and strips a leading slash.
func normalizePath(path string) string {
	path = strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
	return strings.TrimLeft(path, "/")
}
