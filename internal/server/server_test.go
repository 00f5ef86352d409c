package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deckfold/deckfold/internal/service"
)

func setupServer(t *testing.T) *DeckServer {
	tempDir, err := os.MkdirTemp("", "deckfold-server-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	t.Setenv("DECKFOLD_DIR", tempDir)

	svc, err := service.NewService()
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	path := filepath.Join(tempDir, "talk.md")
	deck := "# Intro\n\nHello.\n<!-- step -->\nWorld.\n\n---\n\n# End\n"
	if err := os.WriteFile(path, []byte(deck), 0644); err != nil {
		t.Fatalf("Failed to write deck: %v", err)
	}
	if _, err := svc.Open(path); err != nil {
		t.Fatalf("Failed to open deck: %v", err)
	}
	return NewDeckServer(svc, 0)
}

func TestHandleIndex(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.handleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<section") {
		t.Errorf("Expected slide sections in page:\n%s", body)
	}
	if strings.Count(body, "<section") != 2 {
		t.Errorf("Expected 2 slides, got:\n%s", body)
	}
}

func TestHandleSlide(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest("GET", "/slide/1", nil)
	rec := httptest.NewRecorder()
	s.handleSlide(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "World.") {
		t.Errorf("Slide endpoint should reveal every chunk:\n%s", body)
	}
}

func TestHandleSlideOutOfRange(t *testing.T) {
	s := setupServer(t)

	for _, path := range []string{"/slide/0", "/slide/9", "/slide/x"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		s.handleSlide(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for %s, got %d", path, rec.Code)
		}
	}
}

func TestHandleDeckJSON(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest("GET", "/api/deck", nil)
	rec := httptest.NewRecorder()
	s.handleDeckJSON(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var out deckJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(out.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(out.Slides))
	}
	if out.Slides[0].Steps != 2 {
		t.Errorf("Expected 2 steps on slide 0, got %d", out.Slides[0].Steps)
	}
	if len(out.Slides[0].Chunks) != 2 {
		t.Errorf("Expected 2 chunks on slide 0, got %d", len(out.Slides[0].Chunks))
	}
}

func TestHandleHealth(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}
}

func TestNoDeckOpen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deckfold-server-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)
	t.Setenv("DECKFOLD_DIR", tempDir)

	svc, err := service.NewService()
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	s := NewDeckServer(svc, 0)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	s.handleIndex(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a deck, got %d", rec.Code)
	}
}
