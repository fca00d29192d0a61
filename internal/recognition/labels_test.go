package recognition

import (
	"strings"
	"testing"
)

func TestLabelFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"plain", "alice.jpg", "alice"},
		{"uppercase", "ALICE.JPG", "alice"},
		{"with path", "/data/uploads/bob.png", "bob"},
		{"diacritics", "Tomáš Kozák.jpeg", "tomas-kozak"},
		{"czech", "Růžena.png", "ruzena"},
		{"spaces", "mary jane.jpg", "mary-jane"},
		{"dots kept", "john.r.smith.jpg", "john.r.smith"},
		{"underscores kept", "jane_doe.png", "jane_doe"},
		{"unsafe chars", "a!b@c#d.jpg", "a-b-c-d"},
		{"leading dashes trimmed", "--alice--.jpg", "alice"},
		{"no extension", "alice", "alice"},
		{"only symbols", "!!!.jpg", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := LabelFromFilename(tc.filename)
			if got != tc.expected {
				t.Errorf("LabelFromFilename(%q) = %q, want %q", tc.filename, got, tc.expected)
			}
		})
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "alice", "alice"},
		{"uppercase", "Alice", "alice"},
		{"diacritics", "Jiří", "jiri"},
		{"traversal", "a/../../evil", "a-..-..-evil"},
		{"parent dir", "../evil", "evil"},
		{"nested path", "nested/evil", "nested-evil"},
		{"backslash", `back\slash`, "back-slash"},
		{"dot dot", "..", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeLabel(tc.input)
			if got != tc.expected {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tc.input, got, tc.expected)
			}
			if strings.ContainsAny(got, `/\`) {
				t.Errorf("SanitizeLabel(%q) = %q still contains a path separator", tc.input, got)
			}
		})
	}
}
