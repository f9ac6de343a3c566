package activity

import (
	"testing"
)

func TestParseHumanDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1h 30m", 5400},
		{"45m", 2700},
		{"2h", 7200},
		{"30s", 30},
		{"1d", 86400},
		{"1w", 604800},
		{"1w 2d 3h 30m 15s", 790215},
		{"1H 30M", 5400},
		{"1h30m", 5400},
		{"", 0},
		{"no duration here", 0},
	}

	for _, tt := range tests {
		result := ParseHumanDuration(tt.input)
		if result != tt.expected {
			t.Errorf("ParseHumanDuration(%q): expected %d, got %d", tt.input, tt.expected, result)
		}
	}
}

func TestExtractLogged(t *testing.T) {
	human, seconds, ok := ExtractLogged("John Doe logged '2h 30m' on ABC-1")
	if !ok {
		t.Fatal("Expected logged time to be extracted")
	}
	if human != "2h 30m" {
		t.Errorf("Expected human time '2h 30m', got '%s'", human)
	}
	if seconds != 9000 {
		t.Errorf("Expected 9000 seconds, got %d", seconds)
	}
}

func TestExtractLoggedCaseInsensitive(t *testing.T) {
	_, seconds, ok := ExtractLogged("John Doe Logged '1h' and updated the estimate")
	if !ok {
		t.Fatal("Expected logged time to be extracted")
	}
	if seconds != 3600 {
		t.Errorf("Expected 3600 seconds, got %d", seconds)
	}
}

func TestExtractLoggedNoMarker(t *testing.T) {
	if _, _, ok := ExtractLogged("John Doe commented on ABC-1"); ok {
		t.Error("Expected no logged time without the marker")
	}
}

func TestExtractLoggedZeroDuration(t *testing.T) {
	// A marker whose token parses to zero seconds counts as not logged.
	if _, _, ok := ExtractLogged("John Doe logged '0m' on ABC-1"); ok {
		t.Error("Expected zero-duration log to be dropped")
	}
	if _, _, ok := ExtractLogged("John Doe logged 'some text' on ABC-1"); ok {
		t.Error("Expected unparseable token to be dropped")
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{5400, "1h 30m"},
		{2700, "45m"},
		{90, "1m 30s"},
		{86400, "1d"},
		{608400, "1w 1h"},
		{0, "0m"},
		{-10, "0m"},
	}

	for _, tt := range tests {
		result := FormatSeconds(tt.input)
		if result != tt.expected {
			t.Errorf("FormatSeconds(%d): expected '%s', got '%s'", tt.input, tt.expected, result)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	inputs := []string{"1h 30m", "45m", "1w 2d", "1m 30s"}

	for _, input := range inputs {
		formatted := FormatSeconds(ParseHumanDuration(input))
		if formatted != input {
			t.Errorf("Round trip of '%s' produced '%s'", input, formatted)
		}
	}
}
