// Package validate holds the local form checks that run before any API call.
package validate

import (
	"errors"
	"regexp"
	"unicode/utf16"
)

// Error is a local validation failure. Message is shown to the user verbatim.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsError reports whether err is a validation failure and returns it.
func IsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// Registration checks a sign-up form. The first failing rule wins.
func Registration(username, password, confirmation string) error {
	if password != confirmation {
		return &Error{Field: "confirm_password", Message: "Passwords do not match!"}
	}
	if length(password) < MinPasswordLength {
		return &Error{Field: "password", Message: "Password must be at least 8 characters long!"}
	}
	if n := length(username); n < MinUsernameLength || n > MaxUsernameLength {
		return &Error{Field: "username", Message: "Username must be between 3 and 20 characters!"}
	}
	if !usernamePattern.MatchString(username) {
		return &Error{Field: "username", Message: "Username can only contain letters and numbers!"}
	}
	return nil
}

// length counts UTF-16 code units, the unit browsers use for input lengths.
func length(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return &Error{Field: "email", Message: "Please enter a valid email address!"}
	}
	return nil
}

// Required fails with message when value is empty.
func Required(field, value, message string) error {
	if value == "" {
		return &Error{Field: field, Message: message}
	}
	return nil
}
