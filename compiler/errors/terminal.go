package errors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

var (
	boldStyle   = color.New(color.Bold)
	cyanStyle   = color.New(color.FgCyan)
	helpStyle   = color.New(color.FgCyan, color.Bold)
	blueStyle   = color.New(color.FgBlue)
	grayStyle   = color.New(color.FgHiBlack)
	markerStyle = color.New(color.FgRed)
)

// FormatForTerminal formats a CompilerError for terminal output. Colors follow the
// fatih/color settings, so NO_COLOR and non-terminal outputs render plain text.
func (e CompilerError) FormatForTerminal() string {
	var sb strings.Builder

	header := strings.ToUpper(e.Severity.String()[:1]) + e.Severity.String()[1:]
	sb.WriteString(fmt.Sprintf("%s: %s\n",
		severityStyle(e.Severity).Sprintf("%s[%s]", header, e.Code),
		e.Message))

	if e.Location.Line > 0 {
		sb.WriteString(fmt.Sprintf("  %s %s:%d:%d\n",
			cyanStyle.Sprint("-->"),
			e.sourceName(),
			e.Location.Line,
			e.Location.Column))
	}

	if len(e.Context.SourceLines) > 0 {
		sb.WriteString(formatSourceContext(e.Context))
	}

	for _, note := range e.Notes {
		sb.WriteString(fmt.Sprintf("  %s %s\n", blueStyle.Sprint("="), note))
	}

	if e.Suggestion != nil {
		sb.WriteString(formatSuggestion(*e.Suggestion))
	}

	return sb.String()
}

// formatSourceContext formats the query lines with the error span underlined
func formatSourceContext(ctx ErrorContext) string {
	var sb strings.Builder

	bar := blueStyle.Sprint("|")
	sb.WriteString(fmt.Sprintf("   %s\n", bar))

	for i, line := range ctx.SourceLines {
		lineNum := fmt.Sprintf("%2d", i+1)
		if i != ctx.Highlight.Line {
			sb.WriteString(fmt.Sprintf("%s %s %s\n", grayStyle.Sprint(lineNum), bar, line))
			continue
		}

		sb.WriteString(fmt.Sprintf("%s %s %s\n", blueStyle.Sprint(lineNum), bar, line))

		width := ctx.Highlight.End - ctx.Highlight.Start
		if width <= 0 {
			width = 1
		}
		sb.WriteString(fmt.Sprintf("   %s %s%s\n",
			bar,
			strings.Repeat(" ", max(0, ctx.Highlight.Start)),
			markerStyle.Sprint(strings.Repeat("^", width))))
	}

	sb.WriteString(fmt.Sprintf("   %s\n", bar))

	return sb.String()
}

// formatSuggestion formats a fix suggestion
func formatSuggestion(suggestion FixSuggestion) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s %s\n", helpStyle.Sprint("Help:"), suggestion.Description))

	if suggestion.NewCode != "" && suggestion.NewCode != suggestion.OldCode {
		sb.WriteString(helpStyle.Sprint("Suggestion:") + "\n")
		for _, line := range strings.Split(suggestion.NewCode, "\n") {
			sb.WriteString(fmt.Sprintf("    %s\n", line))
		}

		if suggestion.Confidence < 1.0 {
			sb.WriteString(grayStyle.Sprintf("(Confidence: %d%%)", int(suggestion.Confidence*100)) + "\n")
		}
	}

	return sb.String()
}

// severityStyle returns the color for a severity level
func severityStyle(severity Severity) *color.Color {
	switch severity {
	case Info:
		return color.New(color.FgBlue, color.Bold)
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// FormatSummary formats a one-line outcome for a batch of queries
func FormatSummary(errorCount, warningCount int) string {
	var parts []string

	if errorCount > 0 {
		parts = append(parts, color.RedString("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		parts = append(parts, color.YellowString("%d warning(s)", warningCount))
	}

	if len(parts) == 0 {
		return color.BlueString("No errors or warnings") + "\n"
	}

	return fmt.Sprintf("\n%s %s\n", boldStyle.Sprint("Query rejected with"), strings.Join(parts, " and "))
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripColors removes ANSI color codes from a string
func StripColors(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
