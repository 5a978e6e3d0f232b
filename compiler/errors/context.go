package errors

import "strings"

// EnrichError adds query context and an auto-fix suggestion to a positioned diagnostic
func EnrichError(err CompilerError, source string) CompilerError {
	if err.Location.Line == 0 {
		return err
	}

	err = err.WithContext(extractSourceContext(err.Location, source))

	if suggestion := suggestFix(err, nil); suggestion != nil {
		err = err.WithSuggestion(*suggestion)
	}

	return err
}

// extractSourceContext extracts up to 2 lines before and after the error line. Queries are
// usually a single line, so the context is usually that line alone.
func extractSourceContext(location SourceLocation, source string) ErrorContext {
	lines := strings.Split(source, "\n")

	if location.Line < 1 || location.Line > len(lines) {
		return ErrorContext{}
	}

	errorLineIndex := location.Line - 1
	startLine := max(0, errorLineIndex-2)
	endLine := min(len(lines), errorLineIndex+3)

	contextLines := make([]string, 0, endLine-startLine)
	contextLines = append(contextLines, lines[startLine:endLine]...)

	start := location.Column - 1
	end := start + location.Length
	if location.Length == 0 {
		end = start + 1
	}

	return ErrorContext{
		SourceLines: contextLines,
		Highlight: Highlight{
			Line:  errorLineIndex - startLine,
			Start: start,
			End:   end,
		},
	}
}
