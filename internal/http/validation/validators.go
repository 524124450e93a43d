// Package validation checks console form input before it is sent upstream.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	slugPattern = regexp.MustCompile(`^[\w-]+$`)
	euiPattern  = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)
)

// Validator checks one value and returns a message when it is invalid.
type Validator func(v string) string

// Required rejects blank values and values longer than maxLen runes.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional rejects values longer than maxLen runes; blank is allowed.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Pattern rejects non-blank values that do not match re.
func Pattern(fieldName string, re *regexp.Regexp) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" || re.MatchString(v) {
			return ""
		}
		return fieldName + " has an invalid format."
	}
}

// Slug accepts the identifier form the network server uses for names:
// letters, digits, underscores and dashes.
func Slug(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" || slugPattern.MatchString(v) {
			return ""
		}
		return fieldName + " may only contain letters, numbers, dashes and underscores."
	}
}

// EUI64 accepts a 64-bit identifier written as 16 hex digits.
func EUI64(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" || euiPattern.MatchString(v) {
			return ""
		}
		return fieldName + " must be 16 hexadecimal characters."
	}
}

// FieldValidator collects the first error of each field.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate runs validators against value in order, stopping at the first failure.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
