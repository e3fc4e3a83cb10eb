package configs

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/quill-cms/core/internal/pkg/validate"
)

// ValueType tags how a configuration's stored text is interpreted.
type ValueType string

const (
	TypeText     ValueType = "text"
	TypeTextarea ValueType = "textarea"
	TypeNumber   ValueType = "number"
	TypeBoolean  ValueType = "boolean"
	TypeEmail    ValueType = "email"
	TypeURL      ValueType = "url"
	TypeJSON     ValueType = "json"
	TypeFile     ValueType = "file"
)

// ValueTypes lists every known type in display order.
var ValueTypes = []ValueType{
	TypeText, TypeTextarea, TypeNumber, TypeBoolean,
	TypeEmail, TypeURL, TypeJSON, TypeFile,
}

var typeLabels = map[ValueType]string{
	TypeText:     "Text",
	TypeTextarea: "Text area",
	TypeNumber:   "Number",
	TypeBoolean:  "Boolean",
	TypeEmail:    "Email",
	TypeURL:      "URL",
	TypeJSON:     "JSON",
	TypeFile:     "File",
}

// Label returns the human-readable name of the type.
func (t ValueType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Known reports whether t is one of the declared value types.
func (t ValueType) Known() bool {
	_, ok := typeLabels[t]
	return ok
}

// booleanLiterals is the closed set accepted on write (case-insensitive).
var booleanLiterals = map[string]bool{
	"true": true, "false": true, "1": true, "0": true, "yes": true, "no": true,
}

// truthy values for lenient read-side conversion. Anything else is false.
var truthy = map[string]bool{
	"true": true, "1": true, "yes": true, "on": true,
}

// Validate checks raw against the type's write-time syntax rules and returns
// the reason on failure. Empty values are always acceptable here; required-ness
// is a separate entry-level rule.
func (t ValueType) Validate(raw string) (ok bool, reason string) {
	if raw == "" {
		return true, ""
	}
	switch t {
	case TypeText, TypeTextarea, TypeFile:
		return true, ""
	case TypeNumber:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return false, "invalid number"
		}
		return true, ""
	case TypeBoolean:
		if !booleanLiterals[strings.ToLower(raw)] {
			return false, "invalid boolean value, expected one of true/false/1/0/yes/no"
		}
		return true, ""
	case TypeEmail:
		if !validate.Email(raw) {
			return false, "invalid email"
		}
		return true, ""
	case TypeURL:
		if !validate.AbsoluteURL(raw) {
			return false, "invalid URL"
		}
		return true, ""
	case TypeJSON:
		if !json.Valid([]byte(raw)) {
			return false, "invalid JSON"
		}
		return true, ""
	}
	return false, "unknown configuration type"
}

// Convert interprets raw per the type for read paths. Conversion is lenient:
// malformed stored data degrades (nil for numbers, false for booleans, the
// raw string for JSON) instead of erroring, so reads never fail on stale data.
func (t ValueType) Convert(raw string) interface{} {
	switch t {
	case TypeText, TypeTextarea, TypeEmail, TypeURL, TypeFile:
		return raw
	case TypeNumber:
		if raw == "" {
			return nil
		}
		// Try int64 first so large integers keep full precision.
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		if i := int64(f); float64(i) == f {
			return i
		}
		return f
	case TypeBoolean:
		return truthy[strings.ToLower(raw)]
	case TypeJSON:
		var parsed interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return raw
		}
		return parsed
	}
	return raw
}
