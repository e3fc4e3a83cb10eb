package validate

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Errors maps field names to failure reasons. A nil/empty Errors means the
// input passed validation.
type Errors map[string]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for field, reason := range e {
		parts = append(parts, field+": "+reason)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// Add records a failure for a field, keeping the first reason per field.
func (e Errors) Add(field, reason string) {
	if _, seen := e[field]; !seen {
		e[field] = reason
	}
}

// AsErrors unwraps an error into Errors when it carries field detail.
func AsErrors(err error) (Errors, bool) {
	fe, ok := err.(Errors)
	return fe, ok
}

// Email reports whether s is a syntactically valid email address.
func Email(s string) bool {
	return v.Var(s, "required,email") == nil
}

// AbsoluteURL reports whether s is a syntactically valid absolute URL.
func AbsoluteURL(s string) bool {
	return v.Var(s, "required,url") == nil
}
