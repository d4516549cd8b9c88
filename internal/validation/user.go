// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"regexp"
)

var (
	nicknameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateNickname checks if a nickname meets requirements.
func ValidateNickname(nickname string) error {
	if len(nickname) < 3 {
		return fmt.Errorf("nickname must be at least 3 characters long")
	}
	if len(nickname) > 30 {
		return fmt.Errorf("nickname must not exceed 30 characters")
	}
	if !nicknameRegex.MatchString(nickname) {
		return fmt.Errorf("nickname can only contain letters, numbers, underscores, and hyphens")
	}
	if nickname[0] == '_' || nickname[0] == '-' ||
		nickname[len(nickname)-1] == '_' || nickname[len(nickname)-1] == '-' {
		return fmt.Errorf("nickname cannot start or end with underscore or hyphen")
	}
	return nil
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidatePassword bounds the password length. The hash covers the full
// input, so no character-class rules beyond length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}
