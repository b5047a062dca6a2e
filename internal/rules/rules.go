// Package rules implements the syntactic credential policy enforced
// before any request is forwarded to the identity backend. Validation is
// pure string inspection: no I/O, no logging, no mutation of inputs.
package rules

import (
	"regexp"
	"strings"
)

// Violation identifies the first credential rule a username or password
// failed. Checks run in a fixed order and stop at the first failure, so
// callers can surface the violated rule as the error reason.
type Violation string

const (
	// Username violations, in check order.
	UsernameLength              Violation = "username_length"
	UsernameCharset             Violation = "username_charset"
	UsernameUnderscorePlacement Violation = "username_underscore_placement"
	UsernameSpace               Violation = "username_space"

	// Password violations, in check order.
	PasswordLength           Violation = "password_length"
	PasswordCharset          Violation = "password_charset"
	PasswordContainsUsername Violation = "password_contains_username"
	PasswordSpace            Violation = "password_space"
)

// Username and password length bounds, inclusive.
const (
	UsernameMinLen = 5
	UsernameMaxLen = 30
	PasswordMinLen = 8
	PasswordMaxLen = 32
)

// specialChars is the exact set of password special characters accepted
// by the policy.
const specialChars = "~`@#$%^&*-_=+|\\?/()<>[]{}\",.;'!"

// usernameCharsetRe is anchored at both ends: the entire username must
// consist of permitted characters. An unanchored match would accept
// trailing garbage.
var usernameCharsetRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Outcome is the result of validating a username, a password, or both.
// The zero Outcome is valid.
type Outcome struct {
	Violation Violation
}

// Valid reports whether no rule was violated.
func (o Outcome) Valid() bool {
	return o.Violation == ""
}

func valid() Outcome {
	return Outcome{}
}

func invalid(v Violation) Outcome {
	return Outcome{Violation: v}
}

// ValidateUsername checks the username rules in order: length, charset,
// underscore placement, no space. The first violated rule is returned.
func ValidateUsername(name string) Outcome {
	if len(name) < UsernameMinLen || len(name) > UsernameMaxLen {
		return invalid(UsernameLength)
	}

	if !usernameCharsetRe.MatchString(name) {
		return invalid(UsernameCharset)
	}

	if strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_") {
		return invalid(UsernameUnderscorePlacement)
	}

	// Redundant with the charset rule for non-empty input, but kept as an
	// independent check so the rule set matches the published policy
	// one-to-one.
	if strings.Contains(name, " ") {
		return invalid(UsernameSpace)
	}

	return valid()
}

// ValidatePassword checks the password rules in order: length, character
// classes, username containment, no space. The username is only used for
// the containment rule and may be empty, in which case the containment
// rule matches nothing and passes.
func ValidatePassword(password, username string) Outcome {
	if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		return invalid(PasswordLength)
	}

	if !hasAllPasswordClasses(password) {
		return invalid(PasswordCharset)
	}

	if username != "" && containsNameOrReverse(password, username) {
		return invalid(PasswordContainsUsername)
	}

	if strings.Contains(password, " ") {
		return invalid(PasswordSpace)
	}

	return valid()
}

// ValidateCredentials runs username validation first, then password
// validation, returning the first failure encountered. This ordering is
// part of the contract, not an implementation detail.
func ValidateCredentials(username, password string) Outcome {
	if out := ValidateUsername(username); !out.Valid() {
		return out
	}
	return ValidatePassword(password, username)
}

// hasAllPasswordClasses reports whether the password contains at least
// one uppercase letter, one lowercase letter, one digit, and one special
// character. All four classes are required simultaneously.
func hasAllPasswordClasses(password string) bool {
	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(specialChars, c):
			special = true
		}
	}
	return upper && lower && digit && special
}

// containsNameOrReverse reports whether the password contains the
// username, or the username reversed, as a contiguous case-sensitive
// substring.
func containsNameOrReverse(password, username string) bool {
	return strings.Contains(password, username) ||
		strings.Contains(password, reverse(username))
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
