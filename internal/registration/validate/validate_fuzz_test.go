package validate

import "testing"

// FuzzBirthDate checks that the validator never panics and that accepted
// dates always format to a value that is itself accepted.
func FuzzBirthDate(f *testing.F) {
	f.Add("20230228")
	f.Add("1990-05-15")
	f.Add("99999999")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		if !BirthDate(input) {
			return
		}
		formatted := NormalizeBirthDate(input)
		if len(formatted) != 10 || !BirthDate(formatted) {
			t.Errorf("accepted %q but normalized to %q", input, formatted)
		}
	})
}
