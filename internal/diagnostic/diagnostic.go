// Package diagnostic formats analysis errors with source context, line/
// column information, and caret indicators pointing at the offending
// position. It generalizes the teacher's compiler-error formatter to four
// diagnostic classes: syntax errors (from the chunker), type errors (from
// the typer), notifications (I/O problems surfaced alongside an
// otherwise-successful response), and configuration errors.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cwbudde/merlin-go/internal/lexer"
)

// Class is the taxonomy from spec.md §7.
type Class int

const (
	// Syntax is produced by the chunker; never fatal, exposes location
	// and message.
	Syntax Class = iota
	// Type is produced by the typer, attached per chunk; never fatal.
	Type
	// Notification covers I/O errors (missing include, unreadable file):
	// attached to the current response, analysis continues.
	Notification
	// Configuration rejects the request for the affected buffer only;
	// other buffers are unaffected.
	Configuration
)

func (c Class) String() string {
	switch c {
	case Syntax:
		return "syntax"
	case Type:
		return "type"
	case Notification:
		return "notification"
	case Configuration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Diagnostic is a single analysis error or notification with position and
// source context.
type Diagnostic struct {
	Class   Class
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a Diagnostic.
func New(class Class, pos lexer.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Class: class, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with its source line and a caret pointing
// at the column. If color is true, ANSI escapes highlight the caret and
// message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", capitalize(d.Class.String()), d.File, d.Pos.Line, d.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", capitalize(d.Class.String()), d.Pos.Line, d.Pos.Column))
	}

	sourceLine := d.getSourceLine(d.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d *Diagnostic) getSourceLine(lineNum int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("analysis produced %d diagnostic(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(diags)))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
