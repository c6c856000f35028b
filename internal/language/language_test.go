package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"en_US", "en_US"},
		{"en-us", "en_US"},
		{" de_DE.UTF-8 ", "de_DE"},
		{"pl", "pl"},
		{"PT_br", "pt_BR"},
		{"eng", "en"},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.input)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, input := range []string{"not a language", "und", "x_12345"} {
		if _, err := Normalize(input); err == nil {
			t.Errorf("Normalize(%q) expected error", input)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "Unknown"},
		{"???", "Unknown"},
		{"de", "German"},
		{"en_US", "American English"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
