package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Each validator is a pure function: input string -> valid, reason.
// Reason is empty when the input is valid.

var (
	usernameRegex    = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	playerNameRegex  = regexp.MustCompile(`^[\p{L}][\p{L} '\-]*$`)
	nationalityRegex = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

const (
	maxPlayerNameLen  = 40
	maxDisplayNameLen = 40
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt input limit
)

func ValidateUsername(s string) (bool, string) {
	if !usernameRegex.MatchString(s) {
		return false, "must be 3-20 characters of letters, digits or underscore"
	}
	return true, ""
}

func ValidateEmail(s string) (bool, string) {
	if len(s) > 255 {
		return false, "must not be longer than 255 characters"
	}
	if !emailRegex.MatchString(s) {
		return false, "must be a valid email address"
	}
	return true, ""
}

func ValidatePlayerName(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, "must be provided"
	}
	if utf8.RuneCountInString(s) > maxPlayerNameLen {
		return false, "must not be longer than 40 characters"
	}
	if !playerNameRegex.MatchString(s) {
		return false, "must contain only letters, spaces, apostrophes or hyphens"
	}
	return true, ""
}

func ValidateDisplayName(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, "must be provided"
	}
	if utf8.RuneCountInString(s) > maxDisplayNameLen {
		return false, "must not be longer than 40 characters"
	}
	return true, ""
}

func ValidatePassword(s string) (bool, string) {
	if len(s) < minPasswordLen {
		return false, "must be at least 8 characters long"
	}
	if len(s) > maxPasswordLen {
		return false, "must not be longer than 72 bytes"
	}
	return true, ""
}

// ValidateNationality accepts an ISO 3166-1 alpha-2 style code in any case.
func ValidateNationality(s string) (bool, string) {
	if !nationalityRegex.MatchString(s) {
		return false, "must be a two-letter country code"
	}
	return true, ""
}

// Validator collects field errors the way handlers report them.
type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Check records reason under key when ok is false. The first failure per key wins.
func (v *Validator) Check(key string, ok bool, reason string) {
	if ok {
		return
	}
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = reason
	}
}
