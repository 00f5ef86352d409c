package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deckfold/deckfold/internal/compiler"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/registry"
)

func buildDeck(t *testing.T, source string) (*models.Deck, *registry.Registry) {
	t.Helper()
	deck := &models.Deck{Title: "Test Deck", Source: source}
	reg := compiler.Build(deck)
	return deck, reg
}

func TestSlideHTMLChunksAndEffects(t *testing.T) {
	deck, reg := buildDeck(t, "# Hello\n\nFirst.\n<!-- step: fade -->\nSecond.\n")

	out := SlideHTML(deck.Slides[0], reg, false)
	if !strings.Contains(out, `data-chunk="0"`) || !strings.Contains(out, `data-chunk="1"`) {
		t.Errorf("Expected two chunk divs:\n%s", out)
	}
	if !strings.Contains(out, `data-effect="fade"`) {
		t.Errorf("Expected fade effect on second chunk:\n%s", out)
	}
	// Only the first chunk starts visible.
	if strings.Count(out, "df-visible") != 1 {
		t.Errorf("Expected exactly one visible chunk:\n%s", out)
	}
}

func TestSlideHTMLRevealAll(t *testing.T) {
	deck, reg := buildDeck(t, "A.\n<!-- step -->\nB.\n<!-- step -->\nC.\n")

	out := SlideHTML(deck.Slides[0], reg, true)
	if strings.Count(out, "df-visible") != 3 {
		t.Errorf("Expected all chunks visible:\n%s", out)
	}
}

func TestDeckHTMLIsStandalone(t *testing.T) {
	deck, reg := buildDeck(t, "# One\n\n---\n\n# Two\n")

	page := DeckHTML(deck, reg)
	if !strings.Contains(page, "<title>Test Deck</title>") {
		t.Error("Expected deck title in page")
	}
	if strings.Count(page, "<section") != 2 {
		t.Errorf("Expected 2 slide sections:\n%s", page)
	}
	if !strings.Contains(page, "<script>") || !strings.Contains(page, "<style>") {
		t.Error("Expected embedded style and script")
	}
}

func TestSlideHTMLComponentOverlay(t *testing.T) {
	source := `<!-- define: badge, position=top-right -->
slide {{$slideNumber}}
<!-- enddefine -->
---global

# Only

<!-- @badge -->
Body.
`
	deck := &models.Deck{Title: "T", Source: source}
	reg := compiler.Build(deck)

	out := SlideHTML(deck.Slides[0], reg, true)
	if !strings.Contains(out, "df-component") {
		t.Fatalf("Expected component overlay:\n%s", out)
	}
	if !strings.Contains(out, "slide 1") {
		t.Errorf("Expected expanded built-in:\n%s", out)
	}
	if !strings.Contains(out, "top:1rem;right:1rem;") {
		t.Errorf("Expected top-right placement:\n%s", out)
	}
}

func TestWriteSite(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deckfold-export-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	deck := &models.Deck{Title: "Site", Source: "# Slide\n\n---\n\n# Another\n"}
	reg := compiler.Build(deck)

	outDir := filepath.Join(tempDir, "site")
	if err := WriteSite(deck, reg, outDir); err != nil {
		t.Fatalf("WriteSite failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("Expected index.html: %v", err)
	}
	if !strings.Contains(string(data), "<title>Site</title>") {
		t.Error("Exported page missing title")
	}

	for _, name := range []string{"slide-1.html", "slide-2.html"} {
		page, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("Expected %s: %v", name, err)
		}
		if !strings.Contains(string(page), "df-visible") {
			t.Errorf("%s should be fully revealed", name)
		}
	}
}
