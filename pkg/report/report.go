// Package report reads aggregation reports back into their sections.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	reportTitle   = "Code Aggregation Report"
	sectionPrefix = "File: "
	errorPrefix   = "**Error:**"
)

// Summary holds the header fields of a report.
type Summary struct {
	SourceDir      string
	FilesFound     int
	FilesProcessed int
	Tokens         int
}

// Section is one "## File:" entry. Error is set for files that could not be read, in
// which case Language and Content are empty.
type Section struct {
	Path     string
	Language string
	Content  string
	Error    string
}

// Report is a parsed aggregation report.
type Report struct {
	Summary
	Sections []Section
}

// Parser parses reports with goldmark.
type Parser struct {
	markdown goldmark.Markdown
}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{markdown: goldmark.New()}
}

// Parse reads a report. It fails when the document does not start with the report title.
func (p *Parser) Parse(r io.Reader) (*Report, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	doc := p.markdown.Parser().Parse(text.NewReader(source))

	first := doc.FirstChild()
	title, ok := first.(*ast.Heading)
	if !ok || title.Level != 1 || strings.TrimSpace(rawLines(title, source)) != reportTitle {
		return nil, fmt.Errorf("not an aggregation report: missing %q heading", reportTitle)
	}

	rep := &Report{}
	var current *Section
	for n := first.NextSibling(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := strings.TrimSpace(rawLines(node, source))
			if node.Level != 2 || !strings.HasPrefix(heading, sectionPrefix) {
				current = nil
				continue
			}
			rep.Sections = append(rep.Sections, Section{Path: strings.TrimPrefix(heading, sectionPrefix)})
			current = &rep.Sections[len(rep.Sections)-1]
		case *ast.Paragraph:
			if current == nil && len(rep.Sections) == 0 {
				if err := parseSummary(&rep.Summary, rawLines(node, source)); err != nil {
					return nil, err
				}
			}
		case *ast.FencedCodeBlock:
			if current != nil {
				current.Language = string(node.Language(source))
				current.Content = rawLines(node, source)
			}
		case *ast.Blockquote:
			if current != nil {
				msg := rawLines(node.FirstChild(), source)
				current.Error = strings.TrimSpace(strings.TrimPrefix(msg, errorPrefix))
			}
		}
	}
	return rep, nil
}

func parseSummary(s *Summary, block string) error {
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var dst *int
		switch strings.TrimSpace(key) {
		case "Source Directory":
			s.SourceDir = value
			continue
		case "Total Files Found":
			dst = &s.FilesFound
		case "Total Files Processed":
			dst = &s.FilesProcessed
		case "Total Tokens":
			dst = &s.Tokens
		default:
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", strings.TrimSpace(key), value, err)
		}
		*dst = n
	}
	return nil
}

// rawLines returns the source text of a block node without Markdown inline processing.
func rawLines(n ast.Node, source []byte) string {
	if n == nil {
		return ""
	}
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return strings.Join(out, "\n")
}
