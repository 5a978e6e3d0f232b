package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	aqlerrors "github.com/artifactql/aql/compiler/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ DOMAIN NOT FOUND: Cannot find domain 'bilds'.
//
//	   Did you mean: builds?
//
//	   → See all domains: aql domains
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = newStyle(opts.NoColor, color.FgYellow, color.Bold)
		bodyColor = newStyle(opts.NoColor, color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = newStyle(opts.NoColor, color.FgCyan, color.Bold)
		bodyColor = newStyle(opts.NoColor, color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = newStyle(opts.NoColor, color.FgRed, color.Bold)
		bodyColor = newStyle(opts.NoColor, color.FgRed)
		symbol = "❌"
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		newStyle(opts.NoColor, color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := newStyle(opts.NoColor, color.FgCyan)
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	return newStyle(noColor, color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// QueryError renders a parse, bind, compile or execution error with its source context
// and fix suggestion. Other errors fall back to the generic layout.
func QueryError(err error, noColor bool) string {
	diag, ok := aqlerrors.Diagnostic(err)
	if !ok {
		return FormatError(ErrorOptions{
			Level:   ErrorLevelError,
			Problem: err.Error(),
			NoColor: noColor,
		})
	}
	out := diag.FormatForTerminal()
	if noColor {
		out = aqlerrors.StripColors(out)
	}
	return out
}

// DomainNotFoundError reports a domain name missing from the catalog
func DomainNotFoundError(name string, known []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "DOMAIN NOT FOUND",
		Problem:      fmt.Sprintf("Cannot find domain '%s'.", name),
		Suggestions:  aqlerrors.FindSimilar(name, known),
		HelpCommands: []string{"See all domains: aql domains"},
		NoColor:      noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat aql.yaml",
			"Override a setting: AQL_DATABASE_DSN=... aql query ...",
		},
		NoColor: noColor,
	})
}

// ConnectionError reports a row source that could not be opened or reached
func ConnectionError(driver string, err error, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "CONNECTION FAILED",
		Problem:     err.Error(),
		Consequence: fmt.Sprintf("No query can run until the %s database is reachable.", driver),
		HelpCommands: []string{
			"Create the tables: aql db init",
			"Compile without a database: aql explain '<query>'",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
