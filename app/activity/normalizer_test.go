package activity

import (
	"testing"
)

func TestCleanStripsTags(t *testing.T) {
	input := `<a href="https://jira.example.com/browse/ABC-1">John Doe</a> commented on <span class="issue">ABC-1</span>`
	expected := "John Doe commented on ABC-1"

	result := Clean(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	input := "John  Doe \t changed   the status"
	expected := "John Doe changed the status"

	result := Clean(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestCleanTrims(t *testing.T) {
	input := "  \n  John Doe resolved ABC-1  \n "
	expected := "John Doe resolved ABC-1"

	result := Clean(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestCleanEmptyInput(t *testing.T) {
	if result := Clean(""); result != "" {
		t.Errorf("Expected empty string, got '%s'", result)
	}
	if result := Clean("<br/><p></p>"); result != "" {
		t.Errorf("Expected empty string for tag-only input, got '%s'", result)
	}
}

func TestCleanDecodesEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`line one\nline two`, "line one\nline two"},
		{`tab\there`, "tab\there"},
		{`it\'s quoted`, "it's quoted"},
		{`a \"word\"`, `a "word"`},
		{`double\\backslash`, `double\backslash`},
	}

	for _, tt := range tests {
		result := Clean(tt.input)
		if result != tt.expected {
			t.Errorf("Clean(%q): expected %q, got %q", tt.input, tt.expected, result)
		}
	}
}

func TestCleanDecodesUnicodeEscapes(t *testing.T) {
	// The source text carries a literal backslash-u sequence.
	input := "backslash " + `\` + "u0041" + `\` + "u0042 end"
	expected := "backslash AB end"

	result := Clean(input)
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
}

func TestCleanDecodesHexEscapes(t *testing.T) {
	input := "hex " + `\` + "x41 end"
	expected := "hex A end"

	result := Clean(input)
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}
}

func TestCleanKeepsInvalidEscapes(t *testing.T) {
	// An escape that does not form a valid sequence stays verbatim.
	input := `path \q end`
	expected := `path \q end`

	result := Clean(input)
	if result != expected {
		t.Errorf("Expected %q, got %q", expected, result)
	}

	// Truncated unicode escape at end of string.
	input = "trailing " + `\` + "u12"
	result = Clean(input)
	if result != input {
		t.Errorf("Expected %q, got %q", input, result)
	}
}
