package organize

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Honza", "Honza"},
		{"Jiří", "Jiri"},
		{"café", "cafe"},
		{"naïve", "naive"},
		{"Žluťoučký kůň", "Zlutoucky kun"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := RemoveDiacritics(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeDirName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jan Novák", "jan_novak"},
		{"jan-novak", "jan_novak"},
		{"JOHN DOE", "john_doe"},
		{"  spaced  out  ", "spaced_out"},
		{"trailing-", "trailing"},
		{"émile/zola", "emile_zola"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := SanitizeDirName(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeDirName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
