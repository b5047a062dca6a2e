package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername_Length(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{"empty", ""},
		{"too short", "abcd"},
		{"too long", strings.Repeat("a", 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidateUsername(tt.username)
			assert.False(t, out.Valid())
			assert.Equal(t, UsernameLength, out.Violation)
		})
	}
}

func TestValidateUsername_LengthBoundaries(t *testing.T) {
	assert.True(t, ValidateUsername("abcde").Valid())               // exactly 5
	assert.True(t, ValidateUsername(strings.Repeat("a", 30)).Valid()) // exactly 30
}

func TestValidateUsername_Charset(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{"dash", "alice-bob"},
		{"dot", "alice.bob"},
		{"unicode", "alicé123"},
		{"trailing symbol", "alice123$"},
		{"leading space", " alice123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidateUsername(tt.username)
			assert.Equal(t, UsernameCharset, out.Violation)
		})
	}
}

func TestValidateUsername_UnderscorePlacement(t *testing.T) {
	assert.Equal(t, UsernameUnderscorePlacement, ValidateUsername("_leading").Violation)
	assert.Equal(t, UsernameUnderscorePlacement, ValidateUsername("trailing_").Violation)

	assert.True(t, ValidateUsername("mid_dle").Valid())
	assert.True(t, ValidateUsername("a_b_c_d").Valid())
}

func TestValidateUsername_OrderOfChecks(t *testing.T) {
	// Too short and bad charset: length is checked first.
	out := ValidateUsername("a$b")
	assert.Equal(t, UsernameLength, out.Violation)

	// Bad charset and leading underscore: charset is checked first.
	out = ValidateUsername("_alice$bob")
	assert.Equal(t, UsernameCharset, out.Violation)
}

func TestValidatePassword_Length(t *testing.T) {
	assert.Equal(t, PasswordLength, ValidatePassword("Ab1!", "alice123").Violation)
	assert.Equal(t, PasswordLength,
		ValidatePassword(strings.Repeat("Ab1!", 9), "alice123").Violation) // 36 chars

	// Boundaries pass.
	assert.True(t, ValidatePassword("Abcdef1!", "other123").Valid())            // exactly 8
	assert.True(t, ValidatePassword("Abcdef1!"+strings.Repeat("x", 24), "other123").Valid()) // exactly 32
}

func TestValidatePassword_Charset(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"missing uppercase", "abcdef1!"},
		{"missing lowercase", "ABCDEF1!"},
		{"missing digit", "Abcdefg!"},
		{"missing special", "Abcdefg1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidatePassword(tt.password, "other123")
			assert.Equal(t, PasswordCharset, out.Violation)
		})
	}
}

func TestValidatePassword_SpecialCharSet(t *testing.T) {
	// Every character of the published special set satisfies the class.
	for _, c := range "~`@#$%^&*-_=+|\\?/()<>[]{}\",.;'!" {
		pwd := "Abcdef1" + string(c)
		out := ValidatePassword(pwd, "other123")
		assert.Truef(t, out.Valid(), "special char %q not accepted", c)
	}
}

func TestValidatePassword_ContainsUsername(t *testing.T) {
	out := ValidatePassword("Xalice123!", "alice123")
	assert.Equal(t, PasswordContainsUsername, out.Violation)

	// Reversed username is rejected too.
	out = ValidatePassword("X321ecila!", "alice123")
	assert.Equal(t, PasswordContainsUsername, out.Violation)

	// Case-sensitive: a different case is not a containment.
	out = ValidatePassword("XAlice123!", "alice123")
	assert.True(t, out.Valid())
}

func TestValidatePassword_EmptyUsernameSkipsContainment(t *testing.T) {
	// The modify-password flow validates against a backend-supplied name
	// that may be empty; containment must not reject everything then.
	assert.True(t, ValidatePassword("Abcdef1!", "").Valid())
}

func TestValidatePassword_Space(t *testing.T) {
	// Space fails the charset classes only if no other special char is
	// present; with all classes satisfied the explicit space rule fires.
	out := ValidatePassword("Abcd ef1!", "other123")
	assert.Equal(t, PasswordSpace, out.Violation)
}

func TestValidateCredentials(t *testing.T) {
	out := ValidateCredentials("ab_c1", "Abcdef1!")
	assert.True(t, out.Valid())

	out = ValidateCredentials("_abcde", "Abcdef1!")
	assert.Equal(t, UsernameUnderscorePlacement, out.Violation)

	// Username rules run before password rules.
	out = ValidateCredentials("bad", "short")
	assert.Equal(t, UsernameLength, out.Violation)

	out = ValidateCredentials("alice123", "Xalice123!")
	assert.Equal(t, PasswordContainsUsername, out.Violation)
}

func TestOutcome_ZeroValueIsValid(t *testing.T) {
	var out Outcome
	assert.True(t, out.Valid())
}
