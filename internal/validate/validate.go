// Package validate checks populated tag registries.
//
// Validation is split in two tiers. Structural validation reports required
// tags without a non-empty value; those findings are errors and stop
// document generation. Content checks implement soft conformance heuristics
// on individual tags; their findings are warnings and never stop generation
// unless the caller opts into strict mode.
package validate

import (
	"fmt"
	"strings"

	"github.com/hupe1980/spdxtag/internal/tag"
)

// Severity indicates the severity of a validation finding.
type Severity int

const (
	// SeverityError means the section is invalid.
	SeverityError Severity = iota
	// SeverityWarning means the section may be problematic.
	SeverityWarning
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// Finding is a single validation issue.
type Finding struct {
	Severity Severity
	Section  string
	Tag      string
	Message  string
}

// Error implements the error interface.
func (f *Finding) Error() string {
	return fmt.Sprintf("[%s] %s/%s: %s", f.Severity, f.Section, f.Tag, f.Message)
}

// Result holds all findings for one section.
type Result struct {
	Section  string
	Missing  []string
	Findings []Finding
}

// Errors returns only error-severity findings.
func (r *Result) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns only warning-severity findings.
func (r *Result) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// HasErrors returns true if any error-severity findings exist.
func (r *Result) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings returns true if any warning-severity findings exist.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

func (r *Result) filter(sev Severity) []Finding {
	var out []Finding

	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}

	return out
}

// Check inspects a registry and returns soft findings. The severity of
// returned findings is forced to warning.
type Check func(reg *tag.Registry) []Finding

// Missing returns, in declaration order, the required tags of section that
// hold no non-empty value. An empty result means the section is complete.
func Missing(reg *tag.Registry, section string) []string {
	var missing []string

	for _, t := range reg.InSection(section) {
		if t.Required && !t.HasContent() {
			missing = append(missing, t.Name)
		}
	}

	return missing
}

// Section validates one section: required tags first, then content checks.
func Section(reg *tag.Registry, section string, checks ...Check) *Result {
	r := &Result{Section: section}

	r.Missing = Missing(reg, section)
	for _, name := range r.Missing {
		r.Findings = append(r.Findings, Finding{
			Severity: SeverityError,
			Section:  section,
			Tag:      name,
			Message:  "required tag is not set",
		})
	}

	for _, check := range checks {
		for _, f := range check(reg) {
			f.Severity = SeverityWarning
			if f.Section == "" {
				f.Section = section
			}

			r.Findings = append(r.Findings, f)
		}
	}

	return r
}

// FormatResult returns a human-readable string of all findings.
func FormatResult(results ...*Result) string {
	var errs, warns []Finding

	for _, r := range results {
		errs = append(errs, r.Errors()...)
		warns = append(warns, r.Warnings()...)
	}

	if len(errs) == 0 && len(warns) == 0 {
		return "Validation passed: no issues found.\n"
	}

	var sb strings.Builder

	if len(errs) > 0 {
		_, _ = fmt.Fprintf(&sb, "Errors (%d):\n", len(errs))

		for _, f := range errs {
			_, _ = fmt.Fprintf(&sb, "  - %s/%s: %s\n", f.Section, f.Tag, f.Message)
		}
	}

	if len(warns) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}

		_, _ = fmt.Fprintf(&sb, "Warnings (%d):\n", len(warns))

		for _, f := range warns {
			_, _ = fmt.Fprintf(&sb, "  - %s/%s: %s\n", f.Section, f.Tag, f.Message)
		}
	}

	return sb.String()
}
