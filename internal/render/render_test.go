package render

import (
	"strings"
	"testing"
)

func TestRenderLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string // substrings that must appear, in order
	}{
		{
			name: "heading levels",
			text: "# Top\n### Deep",
			want: []string{"<h1>Top</h1>", "<h3>Deep</h3>"},
		},
		{
			name: "paragraph with emphasis",
			text: "some **bold** and *soft* and ~~gone~~ text",
			want: []string{"<p>", "<strong>bold</strong>", "<em>soft</em>", "<del>gone</del>", "</p>"},
		},
		{
			name: "inline code wins over emphasis",
			text: "run `a_b_c` now",
			want: []string{"<code>a_b_c</code>"},
		},
		{
			name: "unordered list",
			text: "- one\n- two\n\nafter",
			want: []string{"<ul>", "<li>one</li>", "<li>two</li>", "</ul>", "<p>after</p>"},
		},
		{
			name: "ordered list",
			text: "1. first\n2. second",
			want: []string{"<ol>", "<li>first</li>", "<li>second</li>", "</ol>"},
		},
		{
			name: "blockquote",
			text: "> wise\n> words",
			want: []string{"<blockquote><p>wise words</p></blockquote>"},
		},
		{
			name: "link and image",
			text: "see [docs](https://example.com) and ![logo](logo.png)",
			want: []string{`<a href="https://example.com">docs</a>`, `<img src="logo.png" alt="logo">`},
		},
		{
			name: "code fence escapes content",
			text: "```go\nif a < b && c > d {\n}\n```",
			want: []string{`<pre><code class="language-go">`, "if a &lt; b &amp;&amp; c &gt; d {", "</code></pre>"},
		},
		{
			name: "table",
			text: "| a | b |\n|---|---|\n| 1 | 2 |",
			want: []string{"<table>", "<th>a</th>", "<th>b</th>", "<td>1</td>", "<td>2</td>", "</table>"},
		},
		{
			name: "html in prose is escaped",
			text: "a <b>bold</b> claim",
			want: []string{"a &lt;b&gt;bold&lt;/b&gt; claim"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, nil)
			pos := 0
			for _, w := range tt.want {
				idx := strings.Index(got[pos:], w)
				if idx < 0 {
					t.Fatalf("output missing %q (in order):\n%s", w, got)
				}
				pos += idx + len(w)
			}
		})
	}
}

func TestChunkFinishesHighlights(t *testing.T) {
	text := "Hello \x010\x01World\x01/\x01!"
	got := Chunk(text, nil)
	want := `<span class="df-highlight" data-highlight="0">World</span>`
	if !strings.Contains(got, want) {
		t.Errorf("output = %q, missing %q", got, want)
	}
	if strings.Contains(got, "\x01") {
		t.Error("sentinel left in output")
	}
}

func TestChunkHighlightInsideHeading(t *testing.T) {
	got := Chunk("## \x010\x01Section\x01/\x01", nil)
	if !strings.Contains(got, "<h2>") {
		t.Errorf("heading prefix outside the highlight must still render: %q", got)
	}
	if !strings.Contains(got, `data-highlight="0">Section</span>`) {
		t.Errorf("highlight wrapper missing: %q", got)
	}
}

func TestChunkCards(t *testing.T) {
	cards := []Card{{Params: map[string]string{"bg": "black", "shadow": "lg"}}}
	text := CardOpen(0) + "\ninside\n" + CardClose()
	got := Chunk(text, cards)
	if !strings.Contains(got, `<div class="df-card" style="background:black;box-shadow:var(--df-shadow-lg)">`) {
		t.Errorf("card open not rendered: %q", got)
	}
	if !strings.Contains(got, "</div>") {
		t.Errorf("card close not rendered: %q", got)
	}
}

func TestChunkCardAutoClose(t *testing.T) {
	got := Chunk(CardOpen(0)+"\nleft open", []Card{{}})
	if strings.Count(got, "<div") != strings.Count(got, "</div>") {
		t.Errorf("unclosed card not balanced: %q", got)
	}
}
