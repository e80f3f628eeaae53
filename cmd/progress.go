package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// progressBar redraws a single terminal line as files complete. Calls to Update are
// serialized by the aggregation pipeline.
type progressBar struct {
	w           io.Writer
	width       int
	enableColor bool
	drawn       bool
}

func newProgressBar(w io.Writer, width int, enableColor bool) *progressBar {
	if width < 1 {
		width = 10
	}
	return &progressBar{w: w, width: width, enableColor: enableColor}
}

// Update redraws the bar for the file that just finished.
func (pb *progressBar) Update(name string, fraction float64) {
	fmt.Fprintf(pb.w, "\r\033[K%s", pb.Render(name, fraction))
	pb.drawn = true
}

// Finish ends the progress line.
func (pb *progressBar) Finish() {
	if pb.drawn {
		fmt.Fprintln(pb.w)
	}
}

// Render generates the bar text without terminal control sequences.
func (pb *progressBar) Render(name string, fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	perc := int(fraction * 100)
	filled := int(fraction * float64(pb.width))

	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", pb.width-filled) + "]"
	result := fmt.Sprintf("%s %3d%% %s", bar, perc, name)

	if pb.enableColor && perc < 100 {
		result = color.New(color.FgCyan).Sprint(result)
	} else if pb.enableColor {
		result = color.New(color.FgGreen).Sprint(result)
	}
	return result
}
