package validate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		letter   bool
		digit    bool
		special  bool
		minLen   bool
	}{
		{"all rules met", "abcd123!", true, true, true, true},
		{"missing special", "abcd1234", true, true, false, true},
		{"missing digit", "abcdefg!", true, false, true, true},
		{"missing letter", "1234567!", false, true, true, true},
		{"too short", "ab1!", true, true, true, false},
		{"empty", "", false, false, false, false},
		{"non-ascii letters do not count", "한국어한국어1!", false, true, true, true},
		{"underscore is not special", "abcd1234_", true, true, false, true},
		{"quote and braces are special", `Pass1"{}`, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Password(tt.password)
			assert.Equal(t, tt.letter, got.HasLetter)
			assert.Equal(t, tt.digit, got.HasDigit)
			assert.Equal(t, tt.special, got.HasSpecialChar)
			assert.Equal(t, tt.minLen, got.HasMinLength)
			assert.Equal(t, tt.letter && tt.digit && tt.special && tt.minLen, got.IsValid)
		})
	}

	t.Run("every listed special character qualifies", func(t *testing.T) {
		for _, r := range SpecialChars {
			assert.True(t, Password("abcdefg1"+string(r)).IsValid, "special %q", r)
		}
	})
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last+tag@example.co.kr", "x@y.z"}
	invalid := []string{"", "plain", "a@b", "a@@b.com", "a b@c.com", "@b.com", "a@.com"}

	for _, e := range valid {
		assert.True(t, Email(e), e)
	}
	for _, e := range invalid {
		assert.False(t, Email(e), e)
	}
}

func TestBirthDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"20230228", true},
		{"20230230", false},
		{"20240229", true},
		{"20230229", false},
		{"19000101", true},
		{"21001231", true},
		{"18991231", false},
		{"21010101", false},
		{"20231301", false},
		{"20230132", false},
		{"20230001", false},
		{"20230100", false},
		{"20230431", false},
		{"1990-05-15", true},
		{"1990-02-30", false},
		{"1990051", false},
		{"199005155", false},
		{"1990O515", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, BirthDate(tt.input))
		})
	}
}

// TestBirthDate_RoundTripProperty checks every day of a leap and a common
// year plus overflowed days against the calendar.
func TestBirthDate_RoundTripProperty(t *testing.T) {
	for _, year := range []int{1899, 1900, 2023, 2024, 2100, 2101} {
		for month := 1; month <= 13; month++ {
			for day := 0; day <= 32; day++ {
				d := fmt.Sprintf("%04d%02d%02d", year, month, day)
				ref := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				want := year >= 1900 && year <= 2100 &&
					ref.Year() == year && int(ref.Month()) == month && ref.Day() == day
				assert.Equal(t, want, BirthDate(d), d)
			}
		}
	}
}

func TestFormatBirthDate(t *testing.T) {
	assert.Equal(t, "2023-02-28", FormatBirthDate("20230228"))
	assert.Equal(t, "20230230", FormatBirthDate("20230230"))
	assert.Equal(t, "1990-05-15", FormatBirthDate("1990-05-15"))
	assert.Equal(t, "abc", FormatBirthDate("abc"))
	assert.Equal(t, "", FormatBirthDate(""))
}

func TestNormalizeBirthDate(t *testing.T) {
	assert.Equal(t, "2023-02-28", NormalizeBirthDate("20230228"))
	assert.Equal(t, "2023-02-28", NormalizeBirthDate("2023-02-28"))
	assert.Equal(t, "2023022", NormalizeBirthDate("2023022"))
}

func TestMaskBirthDate(t *testing.T) {
	assert.Equal(t, "1990", MaskBirthDate("", "1990"))
	assert.Equal(t, "199005", MaskBirthDate("1990", "1990/05"))
	assert.Equal(t, "19900515", MaskBirthDate("1990051", "19900515"))
	assert.Equal(t, "19900515", MaskBirthDate("19900515", "199005151"), "ninth digit is dropped")
	assert.Equal(t, "19900515", MaskBirthDate("", "1990-05-15"))
	assert.Equal(t, "", MaskBirthDate("1", "abc"))
}

func TestVerificationCode(t *testing.T) {
	assert.True(t, VerificationCode("123456"))
	assert.False(t, VerificationCode("12345"))
	assert.False(t, VerificationCode("1234567"))
	assert.False(t, VerificationCode("12a456"))
	assert.False(t, VerificationCode(""))
}

func TestLengthAndGender(t *testing.T) {
	assert.False(t, Length("ab", HandleMinLength, HandleMaxLength))
	assert.True(t, Length("abc", HandleMinLength, HandleMaxLength))
	assert.True(t, Length("한글", DisplayMinLength, DisplayMaxLength), "counted in characters")

	g, ok := ParseGender("female")
	assert.True(t, ok)
	assert.EqualValues(t, "female", g)
	_, ok = ParseGender("")
	assert.False(t, ok)
}
