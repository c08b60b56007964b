package parser

import (
	"fmt"
	"strings"

	"github.com/bcpl-lang/bcplc/pkg/diag"
)

// ParseError is one accumulated diagnostic, carrying the severity it was
// raised at so callers can distinguish a structural failure from a
// semantic default or warning.
type ParseError struct {
	Severity diag.Severity
	Loc      diag.Location
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Severity, e.Message)
}

// ParseErrors collects every diagnostic raised while parsing one file,
// fatal or not: fatalf records its diagnostic here too before panicking
// (see Parser.fatalf), so the one fatal diagnostic that ends a parse is
// still visible via Errors after Parse returns its error.
type ParseErrors struct {
	errors []ParseError
}

// Add records one diagnostic.
func (p *ParseErrors) Add(severity diag.Severity, loc diag.Location, message string) {
	p.errors = append(p.errors, ParseError{Severity: severity, Loc: loc, Message: message})
}

// HasErrors reports whether any diagnostic was recorded.
func (p *ParseErrors) HasErrors() bool { return len(p.errors) > 0 }

// Count returns the number of recorded diagnostics.
func (p *ParseErrors) Count() int { return len(p.errors) }

// Errors returns every recorded diagnostic.
func (p *ParseErrors) Errors() []ParseError { return p.errors }

// Error implements the error interface, joining every recorded diagnostic.
func (p *ParseErrors) Error() string {
	if len(p.errors) == 0 {
		return "no errors"
	}
	if len(p.errors) == 1 {
		return p.errors[0].Error()
	}
	msgs := make([]string, len(p.errors))
	for i, err := range p.errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d diagnostics:\n%s", len(p.errors), strings.Join(msgs, "\n"))
}
