// Package validate holds the pure field rules of the registration form.
// Nothing here performs I/O or mutates its input.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ddinvest/internal/registration/models"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 72
	HandleMinLength   = 3
	HandleMaxLength   = 50
	DisplayMinLength  = 2
	DisplayMaxLength  = 50
	CodeLength        = 6
	birthDateDigits   = 8
	minBirthYear      = 1900
	maxBirthYear      = 2100
)

// SpecialChars is the set of characters that satisfy the special-character rule.
const SpecialChars = `!@#$%^&*(),.?":{}|<>`

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Password evaluates the password shape rules.
func Password(p string) models.PasswordCheck {
	var c models.PasswordCheck
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			c.HasLetter = true
		case r >= '0' && r <= '9':
			c.HasDigit = true
		case strings.ContainsRune(SpecialChars, r):
			c.HasSpecialChar = true
		}
	}
	c.HasMinLength = utf8.RuneCountInString(p) >= PasswordMinLength
	c.IsValid = c.HasLetter && c.HasDigit && c.HasSpecialChar && c.HasMinLength
	return c
}

// Email is a shape check: one @, a dot in the domain, no whitespace.
// It accepts some addresses RFC 5322 would not.
func Email(e string) bool {
	return emailShape.MatchString(e)
}

// BirthDate accepts YYYY-MM-DD or YYYYMMDD and reports whether it names a real
// calendar date with a year in [1900, 2100].
func BirthDate(raw string) bool {
	_, ok := parseBirthDate(raw)
	return ok
}

// FormatBirthDate turns a valid 8-digit date into YYYY-MM-DD. Any other input
// is returned unchanged.
func FormatBirthDate(eight string) string {
	if len(eight) != birthDateDigits {
		return eight
	}
	d, ok := parseBirthDate(eight)
	if !ok {
		return eight
	}
	return d.Format(time.DateOnly)
}

// NormalizeBirthDate returns the YYYY-MM-DD form of a valid date in either
// accepted shape, or the input unchanged.
func NormalizeBirthDate(raw string) string {
	d, ok := parseBirthDate(raw)
	if !ok {
		return raw
	}
	return d.Format(time.DateOnly)
}

func parseBirthDate(raw string) (time.Time, bool) {
	digits := strings.ReplaceAll(raw, "-", "")
	if len(digits) != birthDateDigits || !allDigits(digits) {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(digits[:4])
	month, _ := strconv.Atoi(digits[4:6])
	day, _ := strconv.Atoi(digits[6:])
	if year < minBirthYear || year > maxBirthYear {
		return time.Time{}, false
	}
	// time.Date normalizes overflow (month 13, Feb 30), so compare the round trip.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// MaskBirthDate applies the birth-date input mask: non-digits are stripped and
// an edit that would exceed 8 digits is dropped, keeping previous.
func MaskBirthDate(previous, typed string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, typed)
	if len(digits) > birthDateDigits {
		return previous
	}
	return digits
}

// VerificationCode reports whether c is exactly six ASCII digits.
func VerificationCode(c string) bool {
	return len(c) == CodeLength && allDigits(c)
}

// Length reports whether s has between lo and hi characters inclusive.
func Length(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// ParseGender maps the form value to a Gender. The empty string is not a gender.
func ParseGender(s string) (models.Gender, bool) {
	switch g := models.Gender(s); g {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return g, true
	}
	return "", false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
