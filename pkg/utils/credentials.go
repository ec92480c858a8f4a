package utils

import (
	"net/mail"
	"strings"
	"unicode"
)

const MaxDisplayNameLength = 40

// ValidateLogin checks that both credentials are present. The demo login
// accepts anything non-empty.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	return nil
}

// ValidateSignup checks the signup form, including password confirmation.
func ValidateSignup(email, password, confirm string) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if password != confirm {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	return nil
}

// DisplayNameFromEmail derives a display name from the local part of email.
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimFunc(local, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsNumber(r))
	})
	if local == "" {
		return "Sister"
	}
	if len(local) > MaxDisplayNameLength {
		local = local[:MaxDisplayNameLength]
	}
	return local
}

// NormalizeEmail lowercases and trims email for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
