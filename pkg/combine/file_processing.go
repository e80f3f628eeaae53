package combine

import (
	"fmt"
	"strings"

	"github.com/ddieppa/mdagg/pkg/discovery"
	"github.com/spf13/afero"
)

// LoadFile reads a candidate and returns its cleaned content. It returns ErrEmptyFile
// when the file holds only whitespace.
func LoadFile(fs afero.Fs, cand discovery.Candidate) (*CodeFile, error) {
	data, err := afero.ReadFile(fs, cand.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", cand.RelPath, err)
	}

	content := CleanContent(string(data))
	if content == "" {
		return nil, ErrEmptyFile
	}
	return &CodeFile{RelPath: cand.RelPath, Content: content}, nil
}

// CleanContent drops every line that is empty or whitespace-only and joins the rest
// with "\n". Carriage returns at line ends are removed.
func CleanContent(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.TrimSuffix(line, "\r"))
	}
	return strings.Join(kept, "\n")
}
