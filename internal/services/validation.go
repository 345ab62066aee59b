package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// checkLength trims value and verifies its rune length is within [min, max].
func checkLength(field, value string, min, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	if n < min {
		if min == 1 {
			return "", invalid(field, "is required")
		}
		return "", invalid(field, "must be at least %d characters", min)
	}
	if max > 0 && n > max {
		return "", invalid(field, "must be at most %d characters", max)
	}
	return value, nil
}

func checkPhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	if !phonePattern.MatchString(phone) {
		return "", invalid("phone", "must be a 10 digit number")
	}
	return phone, nil
}
