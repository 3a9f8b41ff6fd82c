package configschema

import (
	"strings"

	"go.eggybyte.com/yolk/internal/errors"
)

// DiagnosticSeverity ranks a configuration problem.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityInfo    DiagnosticSeverity = "info"
)

// Diagnostic is one problem found while loading yolk.yaml. Path is the dotted
// config key ("paths.models") or the file path for file-level problems.
type Diagnostic struct {
	Severity   DiagnosticSeverity `json:"severity"`
	Message    string             `json:"message"`
	Path       string             `json:"path,omitempty"`
	Suggestion string             `json:"suggestion,omitempty"`
}

// String renders "path: message", or just the message when there is no path.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Message
	}
	return d.Path + ": " + d.Message
}

// Diagnostics accumulates problems in the order they were found.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics returns an empty collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(severity DiagnosticSeverity, message, path, suggestion string) {
	d.items = append(d.items, Diagnostic{Severity: severity, Message: message, Path: path, Suggestion: suggestion})
}

func (d *Diagnostics) AddError(message, path, suggestion string) {
	d.Add(SeverityError, message, path, suggestion)
}

func (d *Diagnostics) AddWarning(message, path, suggestion string) {
	d.Add(SeverityWarning, message, path, suggestion)
}

func (d *Diagnostics) AddInfo(message, path, suggestion string) {
	d.Add(SeverityInfo, message, path, suggestion)
}

// HasErrors reports whether loading must stop.
func (d *Diagnostics) HasErrors() bool {
	return len(d.filter(SeverityError)) > 0
}

// HasWarnings reports whether any warning was recorded.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.filter(SeverityWarning)) > 0
}

// Items returns a copy of every diagnostic.
func (d *Diagnostics) Items() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Err folds the error-level diagnostics into one INVALID_ARGUMENT error.
// It returns nil when there are none.
func (d *Diagnostics) Err() error {
	errs := d.filter(SeverityError)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, item := range errs {
		msgs[i] = item.String()
	}
	return errors.Newf(errors.CodeInvalidArgument, "invalid configuration: %s", strings.Join(msgs, "; "))
}

func (d *Diagnostics) filter(severity DiagnosticSeverity) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Severity == severity {
			out = append(out, item)
		}
	}
	return out
}
