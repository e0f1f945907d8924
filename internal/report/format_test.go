package report

import (
	"strings"
	"testing"
)

func TestFormatSection(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string // substrings that must survive
		drop []string // substrings that must not
	}{
		{
			name: "clean content passes through",
			raw:  "Line one.\nLine two.",
			want: []string{"Line one.", "Line two."},
		},
		{
			name: "protocol lines stripped",
			raw:  "Action: search\nObservation: some data\nKept line.",
			want: []string{"Kept line."},
			drop: []string{"Action:", "Observation:"},
		},
		{
			name: "indented protocol lines stripped",
			raw:  "  Action: search\nKept line.",
			want: []string{"Kept line."},
			drop: []string{"Action:"},
		},
		{
			name: "meta-commentary stripped mid-line",
			raw:  "Sure, I'll search for salary data.\nSalaries range widely.",
			want: []string{"Salaries range widely."},
			drop: []string{"I'll search for"},
		},
		{
			name: "need-to-search phrasing stripped",
			raw:  "I need to search for more details.\nDetails here.",
			want: []string{"Details here."},
			drop: []string{"I need to search"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := formatSection(tc.raw, "Test Section")
			if !strings.HasPrefix(got, "# Test Section\n\n") {
				t.Errorf("missing heading: %q", got)
			}
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("lost %q in %q", w, got)
				}
			}
			for _, d := range tc.drop {
				if strings.Contains(got, d) {
					t.Errorf("kept %q in %q", d, got)
				}
			}
		})
	}
}

func TestFormatSection_EmptyInput(t *testing.T) {
	got := formatSection("", "Empty")
	if got != "# Empty\n\n" {
		t.Errorf("got %q", got)
	}
}
