package setup

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		hasImage bool
		wantKind ValidationKind
		accepted string
	}{
		{"valid simple", "Anna", true, "", "Anna"},
		{"valid interior space", "John Smith", true, "", "John Smith"},
		{"edges trimmed on success", "  John Smith  ", true, "", "John Smith"},
		{"missing image checked first", "Anna", false, MissingImage, ""},
		{"missing image beats bad name", "a", false, MissingImage, ""},
		{"empty", "", true, Empty, ""},
		{"only spaces", "    ", true, Empty, ""},
		{"too short", "ab", true, TooShort, ""},
		{"too short after stripping spaces", "a b c", true, TooShort, ""},
		{"exactly four letters", "Abcd", true, "", "Abcd"},
		{"too long", "Abcdefghijklmnop", true, TooLong, ""},
		{"fifteen letters ok", "Abcdefghijklmno", true, "", "Abcdefghijklmno"},
		{"digits rejected", "ab12", true, InvalidCharacters, ""},
		{"punctuation rejected", "John!", true, InvalidCharacters, ""},
		{"unicode letters allowed", "José", true, "", "José"},
		{"cjk letters allowed", "田中太郎", true, "", "田中太郎"},
		{"repeated interior spaces", "John  Smith", true, RepeatedSpaces, ""},
		{"tab in name rejected as charset", "John\tDoe", true, InvalidCharacters, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, err := ValidateUsername(tt.input, tt.hasImage)

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("ValidateUsername(%q, %v) = %v, want success", tt.input, tt.hasImage, err)
				}
				if accepted != tt.accepted {
					t.Errorf("accepted value = %q, want %q", accepted, tt.accepted)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateUsername(%q, %v) = %v, want *ValidationError", tt.input, tt.hasImage, err)
			}
			if verr.Kind != tt.wantKind {
				t.Errorf("violation kind = %q, want %q", verr.Kind, tt.wantKind)
			}
		})
	}
}

// Validation is a pure function of its inputs: calling twice must give the
// same verdict.
func TestValidateUsernameDeterministic(t *testing.T) {
	inputs := []string{"Anna", "ab", "John  Smith", "  Pad  ", "ab12"}
	for _, input := range inputs {
		a1, e1 := ValidateUsername(input, true)
		a2, e2 := ValidateUsername(input, true)
		if a1 != a2 {
			t.Errorf("accepted value changed between calls for %q: %q vs %q", input, a1, a2)
		}
		if (e1 == nil) != (e2 == nil) {
			t.Errorf("verdict changed between calls for %q", input)
		}
	}
}

func TestValidateBio(t *testing.T) {
	if err := ValidateBio(""); err != nil {
		t.Errorf("empty bio should be valid, got %v", err)
	}

	exactly200 := strings.Repeat("a", 200)
	if err := ValidateBio(exactly200); err != nil {
		t.Errorf("200-character bio should be valid, got %v", err)
	}

	over := strings.Repeat("a", 201)
	var verr *ValidationError
	if err := ValidateBio(over); !errors.As(err, &verr) || verr.Kind != BioTooLong {
		t.Errorf("201-character bio: got %v, want BioTooLong", err)
	}

	// The limit counts code points, not bytes.
	multibyte := strings.Repeat("日", 200)
	if err := ValidateBio(multibyte); err != nil {
		t.Errorf("200 multibyte characters should be valid, got %v", err)
	}
	if err := ValidateBio(multibyte + "本"); err == nil {
		t.Error("201 multibyte characters should be rejected")
	}
}
