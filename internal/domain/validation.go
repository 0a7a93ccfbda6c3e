package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// emailPattern is the loose address check used by every form
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Violations maps a field name to its error message
type Violations map[string]string

// Empty reports whether no field failed validation
func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the failing field names in stable order
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil when there are no violations, otherwise a *ValidationError
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// ValidationError carries per-field messages back to the caller
type ValidationError struct {
	Violations Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Violations[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func required(field, value, message string, v Violations) bool {
	if strings.TrimSpace(value) == "" {
		v[field] = message
		return false
	}
	return true
}

func validEmail(field, value string, v Violations) {
	if !required(field, value, "Email is required", v) {
		return
	}
	if !emailPattern.MatchString(value) {
		v[field] = "Email is invalid"
	}
}

// IsValidEmail reports whether s passes the form email check
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
