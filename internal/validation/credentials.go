package validation

import (
	"net/mail"
	"strings"
)

// ValidateEmail checks format via Go's RFC 5322 parser and the RFC 5321
// length cap.
func ValidateEmail(email string) error {
	if email == "" {
		return Error("email address is required")
	}

	if len(email) > 254 {
		return Error("email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return Error("invalid email address format")
	}

	return nil
}

// weakPatterns are substrings that disqualify a password outright.
var weakPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
}

// ValidatePassword enforces a 12 character minimum and the 72 byte bcrypt
// cap (bcrypt silently truncates beyond that), and rejects common patterns.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return Error("password must be at least 12 characters")
	}

	if len(password) > 72 {
		return Error("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, pattern := range weakPatterns {
		if strings.Contains(lower, pattern) {
			return Error("password is too common, please choose a stronger one")
		}
	}

	return nil
}
