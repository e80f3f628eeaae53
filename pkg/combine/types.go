package combine

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrEmptyFile is returned by LoadFile when nothing but whitespace remains after cleaning.
var ErrEmptyFile = errors.New("file has no content after cleaning")

// CodeFile is a cleaned source file ready for formatting.
type CodeFile struct {
	RelPath string // Forward-slash path relative to the source directory.
	Content string // Cleaned content; never blank.
}

// FileError records a file that could not be read.
type FileError struct {
	RelPath string
	Err     error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.RelPath, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one aggregation run.
type Result struct {
	Document   string      // Header followed by one section per candidate.
	FilesFound int         // Candidates after discovery and exclusion.
	FileCount  int         // Files rendered as code sections.
	TokenCount int         // Sum of token counts over the rendered files.
	Files      []string    // Relative paths of the rendered files, in document order.
	Skipped    []string    // Files dropped because they were empty after cleaning.
	Failed     []FileError // Files rendered as error sections.
}

// Err combines the per-file failures, or returns nil when every file was read.
func (r *Result) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, f)
	}
	return err
}
