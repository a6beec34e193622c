package bookshop

import (
	"fmt"
	"regexp"
)

const (
	// UserIDPrefix namespaces the identifiers minted for users.
	UserIDPrefix string = "u"

	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen int = 3
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type (
	missingFieldError string
	invalidFieldError string
	shortFieldError   string
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

func (m invalidFieldError) Error() string {
	return string(m) + " is not valid"
}

func (m shortFieldError) Error() string {
	return fmt.Sprintf("%s must be at least %d characters", string(m), MinPasswordLen)
}

// ValidateLoginRequest is a helper function to check if submitted credentials are usable.
func ValidateLoginRequest(email, password string) error {
	if len(email) == 0 {
		return missingFieldError("email")
	}

	if len(password) == 0 {
		return missingFieldError("password")
	}

	if !emailPattern.MatchString(email) {
		return invalidFieldError("email")
	}

	if len(password) < MinPasswordLen {
		return shortFieldError("password")
	}

	return nil
}

// ValidateSignupRequest is a helper function to check if the content of a signup request is valid.
func ValidateSignupRequest(name, email, password string) error {
	if len(name) == 0 {
		return missingFieldError("name")
	}
	return ValidateLoginRequest(email, password)
}

// ValidateEmailRequest is a helper function to check a lone email field.
func ValidateEmailRequest(email string) error {
	if len(email) == 0 {
		return missingFieldError("email")
	}

	if !emailPattern.MatchString(email) {
		return invalidFieldError("email")
	}

	return nil
}

// ValidateNewPasswordRequest is a helper function to check a replacement password.
func ValidateNewPasswordRequest(password string) error {
	if len(password) == 0 {
		return missingFieldError("password")
	}

	if len(password) < MinPasswordLen {
		return shortFieldError("password")
	}

	return nil
}

// ValidateProfileRequest is a helper function to check the content of a profile update.
func ValidateProfileRequest(name, email string) error {
	if len(name) == 0 {
		return missingFieldError("name")
	}
	return ValidateEmailRequest(email)
}

// ValidateChangePasswordRequest is a helper function to check a password change request.
// The current password is only checked for presence, the mocked backend holds
// no credential to verify it against.
func ValidateChangePasswordRequest(currentPassword, newPassword string) error {
	if len(currentPassword) == 0 {
		return missingFieldError("current password")
	}
	return ValidateNewPasswordRequest(newPassword)
}
