// Package validation provides pure input validators for registration and
// login data. Each validator returns nil or an error wrapping
// common.ErrValidation whose message names the exact rule that failed.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, reason)
}

// ValidateEmail checks the email shape: non-empty, at most 255 characters,
// local@domain.tld, no consecutive dots, and a local part that neither
// starts nor ends with a dot.
func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email must not be empty")
	}
	if len(email) > 255 {
		return invalid("email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return invalid("invalid email format")
	}
	if strings.Contains(email, "..") {
		return invalid("email cannot contain consecutive dots")
	}
	local := strings.SplitN(email, "@", 2)[0]
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return invalid("email local part cannot start or end with a dot")
	}
	return nil
}

// ValidateUsername checks length (3-50) and the allowed character set
// (letters, digits and underscores).
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return invalid("username must be at least 3 characters long")
	}
	if len(username) > 50 {
		return invalid("username cannot exceed 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return invalid("username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidatePassword checks password strength: at least 8 characters with one
// uppercase letter, one lowercase letter, one digit and one special
// character. The returned message names the first unmet rule.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return invalid("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return invalid("password must contain at least one uppercase letter")
	case !hasLower:
		return invalid("password must contain at least one lowercase letter")
	case !hasDigit:
		return invalid("password must contain at least one number")
	case !hasSpecial:
		return invalid("password must contain at least one special character")
	}
	return nil
}
