package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/ppiankov/rumorscope/internal/model"
	"github.com/ppiankov/rumorscope/internal/score"
)

// renderMarkdown renders md for the terminal, or returns it unchanged when
// the renderer is unavailable
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n ")
}

// verdictColor picks the colour for a risk score band
func verdictColor(s float64) *color.Color {
	switch {
	case s >= 70:
		return color.New(color.FgRed, color.Bold)
	case s >= 40:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

// verdictLine is a one-line summary of a check
func verdictLine(result *model.CheckResult) string {
	label, glyph := score.Verdict(result.Risk.Score)
	return fmt.Sprintf("%s %5.1f  %s", glyph, result.Risk.Score, verdictColor(result.Risk.Score).Sprint(label))
}

// printResult writes the human-readable report of one check
func printResult(w io.Writer, result *model.CheckResult, simple bool, width int) {
	fmt.Fprintln(w, verdictLine(result))
	fmt.Fprintln(w)

	if !simple {
		if len(result.ManipulationSignals) > 0 {
			names := make([]string, len(result.ManipulationSignals))
			for i, s := range result.ManipulationSignals {
				names[i] = string(s)
			}
			fmt.Fprintf(w, "%s %s\n", color.New(color.Faint).Sprint("Signals:"), strings.Join(names, ", "))
		}
		fmt.Fprintf(w, "%s %d   %s %d   %s %dms\n",
			color.New(color.Faint).Sprint("Claims:"), len(result.Claims),
			color.New(color.Faint).Sprint("Evidence:"), len(result.Evidence),
			color.New(color.Faint).Sprint("Latency:"), result.Debug.LatencyMS,
		)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, renderMarkdown(result.Explanation, width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderMarkdown(result.Lesson, width))
}
