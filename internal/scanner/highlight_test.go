package scanner

import (
	"strings"
	"testing"
)

func TestExtractHighlights(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantCount  int
		wantTexts  []string
		wantPrefix []string
	}{
		{
			name:       "simple span",
			text:       "Hello <World>!",
			wantCount:  1,
			wantTexts:  []string{"World"},
			wantPrefix: []string{""},
		},
		{
			name:      "closing tag excluded",
			text:      "a </closed> b",
			wantCount: 0,
		},
		{
			name:      "comment marker excluded",
			text:      "a <!-- note --> b",
			wantCount: 0,
		},
		{
			name:       "heading prefix kept outside",
			text:       "<## Section title>",
			wantCount:  1,
			wantTexts:  []string{"Section title"},
			wantPrefix: []string{"## "},
		},
		{
			name:       "list prefix kept outside",
			text:       "<- first item>\n<2. second item>",
			wantCount:  2,
			wantTexts:  []string{"first item", "second item"},
			wantPrefix: []string{"- ", "2. "},
		},
		{
			name:      "span may not cross lines",
			text:      "a <no\nclose> b",
			wantCount: 0,
		},
		{
			name:       "image syntax passes through and highlights",
			text:       "<![alt](img.png)>",
			wantCount:  1,
			wantTexts:  []string{"![alt](img.png)"},
			wantPrefix: []string{""},
		},
		{
			name:      "empty span ignored",
			text:      "a <> b",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resid, spans := ExtractHighlights(tt.text)
			if len(spans) != tt.wantCount {
				t.Fatalf("got %d spans, want %d (residual %q)", len(spans), tt.wantCount, resid)
			}
			for i, s := range spans {
				if s.Index != i {
					t.Errorf("span %d has index %d", i, s.Index)
				}
				if s.Text != tt.wantTexts[i] {
					t.Errorf("span %d text = %q, want %q", i, s.Text, tt.wantTexts[i])
				}
				if s.Prefix != tt.wantPrefix[i] {
					t.Errorf("span %d prefix = %q, want %q", i, s.Prefix, tt.wantPrefix[i])
				}
			}
			if tt.wantCount == 0 && resid != tt.text {
				t.Errorf("residual changed with no spans: %q", resid)
			}
		})
	}
}

func TestExtractHighlightsSentinels(t *testing.T) {
	resid, spans := ExtractHighlights("say <hi> there")
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	want := "say " + HighlightOpen(0) + "hi" + HighlightClose() + " there"
	if resid != want {
		t.Errorf("residual = %q, want %q", resid, want)
	}
	if strings.Contains(resid, "<hi>") {
		t.Error("marker left in residual")
	}
}
