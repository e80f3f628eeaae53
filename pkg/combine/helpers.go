package combine

import (
	"fmt"
	"path"
	"strings"
)

const reportTitle = "# Code Aggregation Report"

// FormatFile renders a cleaned file as a Markdown section with a fenced code block
// labelled by the file extension.
func FormatFile(cf CodeFile) string {
	return fmt.Sprintf("## File: %s\n\n```%s\n%s\n```\n\n", cf.RelPath, Extension(cf.RelPath), cf.Content)
}

// FormatError renders the section emitted in place of a file that could not be read.
func FormatError(relPath string, err error) string {
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	return fmt.Sprintf("## File: %s\n\n> **Error:** %s\n\n", relPath, msg)
}

// Extension returns the extension of relPath without the leading dot, or "" when there is none.
func Extension(relPath string) string {
	return strings.TrimPrefix(path.Ext(relPath), ".")
}

func formatHeader(sourceDir string, found, processed, tokens int) string {
	var b strings.Builder
	b.WriteString(reportTitle + "\n")
	fmt.Fprintf(&b, "Source Directory: %s\n", sourceDir)
	fmt.Fprintf(&b, "Total Files Found: %d\n", found)
	fmt.Fprintf(&b, "Total Files Processed: %d\n", processed)
	fmt.Fprintf(&b, "Total Tokens: %d\n\n", tokens)
	return b.String()
}
