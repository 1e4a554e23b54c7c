package setup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	usernameMinLength = 4
	usernameMaxLength = 15
	bioMaxLength      = 200
)

var repeatedSpacesPattern = regexp.MustCompile(" {2,}")

// stripAllSpaces removes every space character, interior ones included. Only
// the length and charset checks look at this form; it is never stored.
func stripAllSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// trimEdges removes leading and trailing whitespace while keeping interior
// single spaces. This is the form that gets stored.
func trimEdges(s string) string {
	return strings.TrimSpace(s)
}

// ValidateUsername checks a candidate display name. On success it returns the
// accepted value: the original name with its edges trimmed. The checks run in
// a fixed order so the first violation is the one reported.
func ValidateUsername(name string, hasImage bool) (string, error) {
	if !hasImage {
		return "", &ValidationError{Field: "profileImage", Kind: MissingImage}
	}

	stripped := stripAllSpaces(name)

	if stripped == "" {
		return "", &ValidationError{Field: "name", Kind: Empty}
	}

	if utf8.RuneCountInString(stripped) < usernameMinLength {
		return "", &ValidationError{Field: "name", Kind: TooShort}
	}

	if utf8.RuneCountInString(stripped) > usernameMaxLength {
		return "", &ValidationError{Field: "name", Kind: TooLong}
	}

	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return "", &ValidationError{Field: "name", Kind: InvalidCharacters}
		}
	}

	accepted := trimEdges(name)
	if repeatedSpacesPattern.MatchString(accepted) {
		return "", &ValidationError{Field: "name", Kind: RepeatedSpaces}
	}

	return accepted, nil
}

// ValidateBio allows anything up to 200 characters, counted as Unicode code
// points. An empty bio is valid.
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > bioMaxLength {
		return &ValidationError{Field: "bio", Kind: BioTooLong}
	}
	return nil
}
