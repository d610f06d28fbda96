package main

import "testing"

func TestTokenMatchesPhrase(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		phrase string
		want   bool
	}{
		{"exact match", "Allow", "Allow", true},
		{"case insensitive", "ALLOW", "allow", true},
		{"surrounding whitespace", "  Allow  ", "Allow", true},
		{"token contains phrase", "Allow]", "Allow", true},
		{"phrase contains token", "Allo", "Allow", true},
		{"digit-for-letter misread", "A11ow", "Allow", true},
		{"mixed misread", "Al1ow", "Allow", true},
		{"zero-for-o misread", "All0w", "Allow", true},
		{"unrelated word", "Cancel", "Allow", false},
		{"empty token", "", "Allow", false},
		{"empty phrase", "Allow", "", false},
		{"multi-word phrase, one word present", "wants", "Copilot wants access", true},
		{"multi-word phrase, no word present", "Deny", "Copilot wants access", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenMatchesPhrase(tt.token, tt.phrase); got != tt.want {
				t.Errorf("tokenMatchesPhrase(%q, %q) = %v, want %v", tt.token, tt.phrase, got, tt.want)
			}
		})
	}
}

func TestNormalizeConfusions(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a11ow", "allow"},
		{"all0w", "allow"},
		{"a1l0w", "allow"},
		{"allow", "allow"},
		{"2025", "2o25"},
	}
	for _, tt := range tests {
		if got := normalizeConfusions(tt.in); got != tt.want {
			t.Errorf("normalizeConfusions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
