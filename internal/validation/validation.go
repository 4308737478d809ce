// Package validation holds the field rules shared by every write path. The
// rules are pure: they look only at their input (and the supplied clock for
// Year) and report a field-scoped InvalidInput error or nil.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "reviewhub/internal/errors"
)

const (
	// ReservedUsername may not be registered under any casing.
	ReservedUsername = "me"

	MinScore = 1
	MaxScore = 10
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Username rejects the reserved name and any character outside [A-Za-z0-9_.@+-].
// The message lists every distinct offending character in order of appearance.
func Username(name string) *apperrors.Error {
	if strings.EqualFold(name, ReservedUsername) {
		return apperrors.Invalid("username", fmt.Sprintf("%q cannot be used as a username", ReservedUsername))
	}
	if usernamePattern.MatchString(name) {
		return nil
	}
	return apperrors.Invalid("username", fmt.Sprintf(
		"username may contain only letters, digits and @/./+/-/_; invalid characters: %s",
		strings.Join(illegalChars(name), " "),
	))
}

func illegalChars(name string) []string {
	seen := make(map[rune]bool)
	var out []string
	for _, r := range name {
		if isUsernameChar(r) || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, fmt.Sprintf("%q", r))
	}
	return out
}

func isUsernameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '@', r == '+', r == '-':
		return true
	}
	return false
}

// Score checks the inclusive [MinScore, MaxScore] range.
func Score(score int) *apperrors.Error {
	if score < MinScore {
		return apperrors.Invalid("score", fmt.Sprintf("score cannot be less than %d", MinScore))
	}
	if score > MaxScore {
		return apperrors.Invalid("score", fmt.Sprintf("score cannot be greater than %d", MaxScore))
	}
	return nil
}

// Year rejects release years after the calendar year of now.
func Year(year int, now time.Time) *apperrors.Error {
	limit := now.Year()
	if year > limit {
		return apperrors.Invalid("year", fmt.Sprintf(
			"release year cannot be later than the current year %d, got %d", limit, year,
		))
	}
	return nil
}

// Slug checks the catalog natural-key alphabet.
func Slug(slug string) *apperrors.Error {
	if !slugPattern.MatchString(slug) {
		return apperrors.Invalid("slug", "slug may contain only letters, digits, hyphens and underscores")
	}
	return nil
}
