package handler

import (
	"fmt"
	"strconv"
	"strings"
)

// Validator collects request validation errors
type Validator struct {
	errors []string
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{errors: make([]string, 0)}
}

// RequireNonEmpty validates that a string field is not empty
func (v *Validator) RequireNonEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, fmt.Sprintf("%s is required", field))
	}
}

// RequireNoPathTraversal validates that a path doesn't contain ..
func (v *Validator) RequireNoPathTraversal(field, value string) {
	if strings.Contains(value, "..") {
		v.errors = append(v.errors, fmt.Sprintf("%s contains invalid path traversal", field))
	}
}

// RequireOneOf validates an optional enumerated value; empty selects the default
func (v *Validator) RequireOneOf(field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.errors = append(v.errors, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}

// RequirePosition parses a 1-based position no greater than n
func (v *Validator) RequirePosition(field, value string, n int) int {
	p, err := strconv.Atoi(value)
	if err != nil || p < 1 || p > n {
		v.errors = append(v.errors, fmt.Sprintf("%s must be a slide number between 1 and %d", field, n))
		return 0
	}
	return p
}

// IsValid returns true if there are no validation errors
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []string {
	return v.errors
}

// Error returns a single string with all errors
func (v *Validator) Error() string {
	return strings.Join(v.errors, "; ")
}
