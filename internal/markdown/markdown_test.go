package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"emphasis", "*hi* there", "<em>hi</em>"},
		{"strikethrough", "~~old~~", "<del>old</del>"},
		{"autolink", "see https://example.com", `<a href="https://example.com">`},
		{"hard wrap", "one\ntwo", "<br>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.in)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToHTMLDropsRawHTML(t *testing.T) {
	got, err := ToHTML(`<script>alert(1)</script> and <b onclick="x()">bold</b>`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") || strings.Contains(got, "onclick") {
		t.Errorf("raw HTML leaked into output: %q", got)
	}
}

func TestToHTMLDropsDangerousLinks(t *testing.T) {
	got, err := ToHTML(`[click](javascript:alert(1))`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("dangerous link kept: %q", got)
	}
}
