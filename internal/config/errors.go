package config

import (
	"fmt"
	"strings"
)

// Conflict kinds reported by the validator.
const (
	ConflictPortInUse        = "port_in_use"
	ConflictNoDefaultServer  = "no_default_server"
	ConflictMultipleDefaults = "multiple_default_servers"
)

// SyntaxError reports a non-blank line that matches no recognized form.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at line %d: %s", e.Line, e.Text)
}

// KeyOutsideSectionError reports a key/value line before any section header.
type KeyOutsideSectionError struct {
	Line int
}

func (e *KeyOutsideSectionError) Error() string {
	return fmt.Sprintf("key-value pair at line %d outside of section", e.Line)
}

// MissingFieldError reports a required key absent from its section.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is missing required field %q", e.Entity, e.Field)
}

// InvalidValueError reports a value that failed coercion or lies outside
// its allowed set.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	msg := fmt.Sprintf("invalid value for %s: %q", e.Field, e.Value)
	if reason := strings.TrimSpace(e.Reason); reason != "" {
		msg += ": " + reason
	}
	return msg
}

// ConflictError carries explicit conflict classification metadata for
// collection-level violations (duplicate bindings, default-server count).
type ConflictError struct {
	Kind   string
	Detail string
}

func (e *ConflictError) Error() string {
	detail := strings.TrimSpace(e.Detail)
	if detail == "" {
		return e.Kind
	}
	return detail
}

// PathError reports a referenced filesystem path that is missing or of the
// wrong kind.
type PathError struct {
	Context string // what referenced the path
	Path    string
	Want    string // "file" or "directory"
	Missing bool
}

func (e *PathError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s does not exist: %s", e.Context, e.Path)
	}
	return fmt.Sprintf("%s is not a %s: %s", e.Context, e.Want, e.Path)
}
