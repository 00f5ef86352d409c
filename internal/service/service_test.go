package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDeck = `# Intro

Welcome.
<!-- step -->
More.

---

# Middle

Point one.
<!-- step -->
Point two.

---

# Closing

Thanks.
`

func setupService(t *testing.T) (*Service, string) {
	tempDir, err := os.MkdirTemp("", "deckfold-service-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	t.Setenv("DECKFOLD_DIR", tempDir)

	svc, err := NewService()
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	path := filepath.Join(tempDir, "talk.md")
	if err := os.WriteFile(path, []byte(sampleDeck), 0644); err != nil {
		t.Fatalf("Failed to write deck: %v", err)
	}
	return svc, path
}

func TestOpenCompilesDeck(t *testing.T) {
	svc, path := setupService(t)

	deck, err := svc.Open(path)
	if err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}
	if len(deck.Slides) != 3 {
		t.Fatalf("Expected 3 slides, got %d", len(deck.Slides))
	}
	if deck.Slides[0].Heading != "Intro" {
		t.Errorf("Expected heading 'Intro', got '%s'", deck.Slides[0].Heading)
	}
	if svc.CurrentSlide() != 0 {
		t.Errorf("Expected to start on slide 0, got %d", svc.CurrentSlide())
	}
}

func TestNextAdvancesThroughChunksThenSlides(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	// Slide 0 has two chunks, so the first Next stays on it.
	if !svc.Next() {
		t.Fatal("Expected first Next to succeed")
	}
	if svc.CurrentSlide() != 0 {
		t.Errorf("Expected to stay on slide 0, got %d", svc.CurrentSlide())
	}
	if svc.VisibleChunks() != 2 {
		t.Errorf("Expected 2 visible chunks, got %d", svc.VisibleChunks())
	}

	// Slide 0 is fully revealed; the next step moves to slide 1.
	if !svc.Next() {
		t.Fatal("Expected Next onto slide 1 to succeed")
	}
	if svc.CurrentSlide() != 1 {
		t.Errorf("Expected slide 1, got %d", svc.CurrentSlide())
	}
	if svc.VisibleChunks() != 1 {
		t.Errorf("New slide should start at its first chunk, got %d", svc.VisibleChunks())
	}
}

func TestNextStopsAtEnd(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	for svc.Next() {
	}
	if svc.CurrentSlide() != 2 {
		t.Errorf("Expected to end on slide 2, got %d", svc.CurrentSlide())
	}
	if svc.Next() {
		t.Error("Next at the very end should return false")
	}
}

func TestPrevEntersPreviousSlideFullyRevealed(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	svc.GotoSlide(1)
	if !svc.Prev() {
		t.Fatal("Expected Prev to succeed")
	}
	if svc.CurrentSlide() != 0 {
		t.Errorf("Expected slide 0, got %d", svc.CurrentSlide())
	}
	if svc.VisibleChunks() != 2 {
		t.Errorf("Previous slide should be fully revealed, got %d chunks", svc.VisibleChunks())
	}
}

func TestGotoSlideDirection(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	// Forward jump starts the target at its first step.
	if !svc.GotoSlide(1) {
		t.Fatal("Expected forward jump to succeed")
	}
	if svc.VisibleChunks() != 1 {
		t.Errorf("Forward jump should reset target, got %d chunks", svc.VisibleChunks())
	}

	svc.GotoSlide(2)
	// Backward jump shows the target fully revealed.
	if !svc.GotoSlide(1) {
		t.Fatal("Expected backward jump to succeed")
	}
	if svc.VisibleChunks() != 2 {
		t.Errorf("Backward jump should reveal target, got %d chunks", svc.VisibleChunks())
	}

	if svc.GotoSlide(99) {
		t.Error("Jump past the deck should fail")
	}
}

func TestReloadRestoresPosition(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}
	svc.GotoSlide(1)
	svc.Next()

	// Unchanged file keeps state without recompiling.
	deck1 := svc.Deck()
	if _, err := svc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if svc.Deck() != deck1 {
		t.Error("Reload of an unchanged file should keep the deck")
	}

	// Edit the file and reload; position survives.
	edited := strings.Replace(sampleDeck, "Welcome.", "Hello.", 1)
	if err := os.WriteFile(path, []byte(edited), 0644); err != nil {
		t.Fatalf("Failed to edit deck: %v", err)
	}
	if _, err := svc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if svc.CurrentSlide() != 1 {
		t.Errorf("Expected to stay on slide 1, got %d", svc.CurrentSlide())
	}
	if svc.VisibleChunks() != 2 {
		t.Errorf("Expected micro-step restored, got %d chunks", svc.VisibleChunks())
	}
}

func TestReloadClampsRemovedSlides(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}
	svc.GotoSlide(2)

	if err := os.WriteFile(path, []byte("# Only one\n\nLeft.\n"), 0644); err != nil {
		t.Fatalf("Failed to edit deck: %v", err)
	}
	if _, err := svc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if svc.CurrentSlide() != 0 {
		t.Errorf("Expected clamp to slide 0, got %d", svc.CurrentSlide())
	}
}

func TestSearchSlides(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	all := svc.SearchSlides("")
	if len(all) != 3 {
		t.Errorf("Empty query should return all slides, got %d", len(all))
	}

	results := svc.SearchSlides("closing")
	if len(results) == 0 || results[0].Heading != "Closing" {
		t.Errorf("Expected 'Closing' as top match, got %+v", results)
	}
}

func TestOverlaysRenderComponents(t *testing.T) {
	svc, path := setupService(t)

	deckSrc := `<!-- define: footer, position=bottom-center -->
{{event}} — {{$slideNumber}}/{{$totalSlides}}
<!-- enddefine -->
<!-- vars: event="DemoConf" -->
<!-- @footer -->
---global

# One

---

# Two
`
	if err := os.WriteFile(path, []byte(deckSrc), 0644); err != nil {
		t.Fatalf("Failed to write deck: %v", err)
	}
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	overlays := svc.Overlays(1)
	if len(overlays) != 1 {
		t.Fatalf("Expected 1 overlay, got %d", len(overlays))
	}
	if !strings.Contains(overlays[0].Text, "DemoConf — 2/2") {
		t.Errorf("Unexpected overlay text %q", overlays[0].Text)
	}
	if overlays[0].Anchor != "bottom-center" {
		t.Errorf("Expected bottom-center anchor, got %q", overlays[0].Anchor)
	}
}

func TestVisibleText(t *testing.T) {
	svc, path := setupService(t)
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}

	text := svc.VisibleText()
	if !strings.Contains(text, "Welcome.") {
		t.Errorf("Expected first chunk text, got %q", text)
	}
	if strings.Contains(text, "More.") {
		t.Errorf("Hidden chunk should not appear, got %q", text)
	}

	svc.Next()
	text = svc.VisibleText()
	if !strings.Contains(text, "More.") {
		t.Errorf("Second chunk should appear after advancing, got %q", text)
	}
}
