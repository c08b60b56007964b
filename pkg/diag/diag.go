// Package diag implements the compiler's diagnostic surface: a located,
// severity-tagged message with a caret-underline rendering, and the
// fatal-aborts-compilation rule described in spec.md §4.2/§7.
//
// Colour formatting of the rendered output is an external collaborator
// (spec.md §1) and deliberately absent here: Render emits plain text and
// this package has no colour hook.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Severity classifies a diagnostic. Only Fatal aborts compilation.
type Severity int

const (
	Info Severity = iota
	Warning
	Default
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warn"
	case Fatal:
		return "error"
	default:
		return "error"
	}
}

// ErrFatal is returned by Sink.Emit when a Fatal diagnostic was raised. The
// driver is expected to treat it as "stop compiling, exit non-zero."
var ErrFatal = errors.New("compilation terminated")

// Diagnostic is one formatted, located message.
type Diagnostic struct {
	Severity Severity
	Loc      Location
	Message  string
}

// Sink renders and, optionally, accumulates diagnostics. A nil *Sink is
// usable and discards everything but still honors the fatal-abort contract.
type Sink struct {
	Out     io.Writer
	Emitted []Diagnostic
}

// NewSink creates a sink writing to w (e.g. os.Stderr).
func NewSink(w io.Writer) *Sink {
	return &Sink{Out: w}
}

// Emit formats one diagnostic with a caret-underline pointing at
// loc.Offset for loc.Width columns, writes it to the sink, and returns
// ErrFatal if severity is Fatal. Non-fatal severities return nil.
//
// Rendering reads the source line from loc.File through LineBounds and
// Slice, which do not move File's read cursor, so Emit leaves the lexer's
// position untouched.
func (s *Sink) Emit(severity Severity, loc Location, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	d := Diagnostic{Severity: severity, Loc: loc, Message: msg}
	if s != nil {
		s.Emitted = append(s.Emitted, d)
		if s.Out != nil {
			fmt.Fprint(s.Out, Render(d))
		}
	}
	if severity == Fatal {
		if s != nil && s.Out != nil {
			fmt.Fprintln(s.Out, "compilation terminated.")
		}
		return ErrFatal
	}
	return nil
}

// Render produces the header + gutter + source-line + caret-underline text
// for a diagnostic, following the layout in
// original_source/src/context.c's print_compiler_error: a header line, a
// 4-wide right-aligned line-number gutter holding the source line, and a
// caret line aligned under the offending span.
func Render(d Diagnostic) string {
	var b strings.Builder

	loc := d.Loc
	path := "<unknown>"
	var line []byte
	col := 0
	if loc.File != nil {
		path = loc.File.Path
		start, end := loc.File.LineBounds(loc.Offset)
		line = loc.File.Slice(start, end-start)
		col = loc.Offset - start
	}

	fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", path, loc.Line, col, d.Severity, d.Message)
	fmt.Fprintf(&b, " %4d | %s\n", loc.Line, line)

	gutter := strings.Repeat(" ", len(" 0000 | "))
	b.WriteString(gutter)
	b.WriteString(strings.Repeat(" ", col))
	width := loc.Width
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	b.WriteString(" <- here\n")

	return b.String()
}
