// Package outcome carries the user-facing result of a queue command: a list of
// issues, each with a severity, a machine-readable code and a message. It is
// modeled on the FHIR OperationOutcome resource.
package outcome

import (
	"fmt"
	"strings"
)

// Issue severity levels, most severe first.
const (
	SeverityFatal       = "fatal"
	SeverityError       = "error"
	SeverityWarning     = "warning"
	SeverityInformation = "information"
)

// Issue type codes.
const (
	CodeInvalid     = "invalid"
	CodeStructure   = "structure"
	CodeRequired    = "required"
	CodeNotFound    = "not-found"
	CodeProcessing  = "processing"
	CodeException   = "exception"
	CodeCodeInvalid = "code-invalid"
	CodeTimeout     = "timeout"
	CodeInformation = "informational"
)

var severityOrder = map[string]int{
	SeverityFatal:       0,
	SeverityError:       1,
	SeverityWarning:     2,
	SeverityInformation: 3,
}

type Issue struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Diagnostics string   `json:"diagnostics"`
	Expression  []string `json:"expression,omitempty"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Severity, i.Diagnostics)
}

// Outcome is the ordered list of issues raised by one command.
type Outcome struct {
	Issues []Issue `json:"issue"`
}

func New() *Outcome {
	return &Outcome{}
}

// Add appends an issue and returns the outcome for chaining.
func (o *Outcome) Add(severity, code, diagnostics string) *Outcome {
	o.Issues = append(o.Issues, Issue{Severity: severity, Code: code, Diagnostics: diagnostics})
	return o
}

// AddWithLocation appends an issue pointing at a named field.
func (o *Outcome) AddWithLocation(severity, code, diagnostics, location string) *Outcome {
	o.Issues = append(o.Issues, Issue{
		Severity:    severity,
		Code:        code,
		Diagnostics: diagnostics,
		Expression:  []string{location},
	})
	return o
}

func (o *Outcome) Info(format string, args ...any) *Outcome {
	return o.Add(SeverityInformation, CodeInformation, fmt.Sprintf(format, args...))
}

func (o *Outcome) Warn(code, format string, args ...any) *Outcome {
	return o.Add(SeverityWarning, code, fmt.Sprintf(format, args...))
}

func (o *Outcome) Error(code, format string, args ...any) *Outcome {
	return o.Add(SeverityError, code, fmt.Sprintf(format, args...))
}

// Merge appends the issues of other, which may be nil.
func (o *Outcome) Merge(other *Outcome) *Outcome {
	if other != nil {
		o.Issues = append(o.Issues, other.Issues...)
	}
	return o
}

// HasErrors returns true if the outcome contains any error or fatal issues.
func (o *Outcome) HasErrors() bool {
	for _, issue := range o.Issues {
		if issue.Severity == SeverityError || issue.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// HasWarnings returns true if the outcome contains any warning issues.
func (o *Outcome) HasWarnings() bool {
	return len(o.BySeverity(SeverityWarning)) > 0
}

// BySeverity returns the issues with the given severity, in order.
func (o *Outcome) BySeverity(severity string) []Issue {
	var out []Issue
	for _, issue := range o.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// Worst returns the most severe severity present, or "" for an empty outcome.
func (o *Outcome) Worst() string {
	worst := ""
	for _, issue := range o.Issues {
		if worst == "" || severityOrder[issue.Severity] < severityOrder[worst] {
			worst = issue.Severity
		}
	}
	return worst
}

func (o *Outcome) String() string {
	lines := make([]string, len(o.Issues))
	for i, issue := range o.Issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

// Success creates an outcome with one informational message.
func Success(message string) *Outcome {
	return New().Add(SeverityInformation, CodeInformation, message)
}

// Warning creates an outcome with one non-fatal warning.
func Warning(message string) *Outcome {
	return New().Add(SeverityWarning, CodeProcessing, message)
}

// Validation creates an outcome for an invalid field value.
func Validation(field, message string) *Outcome {
	return New().AddWithLocation(SeverityError, CodeInvalid, fmt.Sprintf("%s: %s", field, message), field)
}

// RequiredField creates an outcome for a missing required field.
func RequiredField(field string) *Outcome {
	return New().AddWithLocation(SeverityError, CodeRequired, fmt.Sprintf("%s is required", field), field)
}

// NotFound creates an outcome for a reference to something that does not exist.
func NotFound(diagnostics string) *Outcome {
	return New().Add(SeverityError, CodeNotFound, diagnostics)
}

// Failure creates an outcome for an I/O or processing failure.
func Failure(err error) *Outcome {
	return New().Add(SeverityError, CodeException, err.Error())
}
