package utils

import (
	"strings"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"spaces trimmed", " a , b ,c ", []string{"a", "b", "c"}},
		{"empties dropped", "a,,b,", []string{"a", "b"}},
		{"empty input", "", nil},
		{"only separators", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAndTrim(tt.input, ",")
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("SplitAndTrim(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer string than allowed", 10, "a longe..."},
		{"abc", 3, "abc"},
		{"héllo wörld, läng tëxt", 10, "héllo w..."},
		{"日本語のテキストです", 6, "日本語..."},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d): got %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}
