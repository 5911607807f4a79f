package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Nabila Rahman", "Nabila Rahman"},
		{"  Nabila Rahman  ", "Nabila Rahman"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	if got := Role("  Student "); got != "student" {
		t.Errorf("Role = %q, want %q", got, "student")
	}
}

func TestInterests(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"dedup", []string{"NLP", "nlp", "Vision"}, []string{"nlp", "vision"}},
		{"drops empties", []string{"", "  ", "ml"}, []string{"ml"}},
		{"preserves order", []string{"b", "a", "b"}, []string{"b", "a"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interests(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Interests(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
