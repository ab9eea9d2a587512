package validation

import (
	"strings"
	"testing"

	"github.com/arcadia-platform/arcadia-auth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail_Valid(t *testing.T) {
	for _, email := range []string{
		"demo@arcadia.local",
		"user.name+tag@example.co.uk",
		"a_b-c%d@sub.domain.io",
	} {
		assert.NoError(t, ValidateEmail(email), email)
	}
}

func TestValidateEmail_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"missing at", "demo.arcadia.local"},
		{"missing tld", "demo@arcadia"},
		{"consecutive dots in local", "de..mo@arcadia.local"},
		{"consecutive dots in domain", "demo@arcadia..local"},
		{"leading dot in local", ".demo@arcadia.local"},
		{"trailing dot in local", "demo.@arcadia.local"},
		{"spaces", "de mo@arcadia.local"},
		{"too long", strings.Repeat("a", 250) + "@arcadia.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("demo_user"))
	assert.NoError(t, ValidateUsername("abc"))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", 50)))

	tests := []struct {
		name     string
		username string
		reason   string
	}{
		{"too short", "ab", "at least 3 characters"},
		{"too long", strings.Repeat("a", 51), "cannot exceed 50 characters"},
		{"dash", "demo-user", "letters, numbers, and underscores"},
		{"space", "demo user", "letters, numbers, and underscores"},
		{"unicode", "démo", "letters, numbers, and underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

// Each unmet rule must be named specifically so the caller can show
// actionable feedback.
func TestValidatePassword_NamesTheMissingRule(t *testing.T) {
	tests := []struct {
		name     string
		password string
		reason   string
	}{
		{"too short", "De1!", "at least 8 characters"},
		{"no uppercase", "demo123!", "one uppercase letter"},
		{"no lowercase", "DEMO123!", "one lowercase letter"},
		{"no digit", "Demofoo!", "one number"},
		{"no special", "Demo1234", "one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	assert.NoError(t, ValidatePassword("Demo123!"))
	assert.NoError(t, ValidatePassword("Str0ng&Passphrase"))
}
