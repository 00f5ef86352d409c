package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deckfold/deckfold/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, string) {
	tempDir, err := os.MkdirTemp("", "deckfold-storage-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	s, err := NewStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := s.InitLibrary(); err != nil {
		t.Fatalf("Failed to init library: %v", err)
	}
	return s, tempDir
}

func TestInitLibrary(t *testing.T) {
	_, tempDir := setupTestStorage(t)

	for _, dir := range []string{"decks", "exports", ".deckfold"} {
		path := filepath.Join(tempDir, dir)
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist", dir)
		}
	}
}

func TestLoadDeckWithFrontmatter(t *testing.T) {
	s, tempDir := setupTestStorage(t)

	content := `---
title: Launch Talk
author: Jo
theme: dracula
---
# First slide

Body text.

---

# Second slide
`
	path := filepath.Join(tempDir, "decks", "launch.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}

	deck, err := s.LoadDeck(path)
	if err != nil {
		t.Fatalf("Failed to load deck: %v", err)
	}
	if deck.Title != "Launch Talk" {
		t.Errorf("Expected title 'Launch Talk', got '%s'", deck.Title)
	}
	if deck.Author != "Jo" {
		t.Errorf("Expected author 'Jo', got '%s'", deck.Author)
	}
	if deck.Theme != "dracula" {
		t.Errorf("Expected theme 'dracula', got '%s'", deck.Theme)
	}
	if !strings.HasPrefix(deck.Source, "# First slide") {
		t.Errorf("Body should start at first slide, got %q", deck.Source[:min(30, len(deck.Source))])
	}
	if !strings.Contains(deck.Source, "\n---\n") {
		t.Error("Slide separator inside body should be preserved")
	}
	if deck.ContentHash == "" {
		t.Error("Expected content hash to be set")
	}
	if deck.FilePath != path {
		t.Errorf("Expected file path %s, got %s", path, deck.FilePath)
	}
}

func TestLoadDeckWithoutFrontmatter(t *testing.T) {
	s, tempDir := setupTestStorage(t)

	content := "# Only slide\n\nNo metadata here.\n"
	path := filepath.Join(tempDir, "decks", "plain.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}

	deck, err := s.LoadDeck(path)
	if err != nil {
		t.Fatalf("Failed to load deck: %v", err)
	}
	if deck.Source != content {
		t.Errorf("Expected body to equal file content, got %q", deck.Source)
	}
	if deck.Title != "plain" {
		t.Errorf("Expected title from filename, got '%s'", deck.Title)
	}
}

func TestLoadDeckInvalidFrontmatter(t *testing.T) {
	s, tempDir := setupTestStorage(t)

	content := "---\ntitle: [unclosed\n---\nbody\n"
	path := filepath.Join(tempDir, "decks", "broken.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}

	if _, err := s.LoadDeck(path); err == nil {
		t.Error("Expected error for invalid frontmatter")
	}
}

func TestLoadDeckRelativePath(t *testing.T) {
	s, tempDir := setupTestStorage(t)

	path := filepath.Join(tempDir, "decks", "rel.md")
	if err := os.WriteFile(path, []byte("# Rel\n"), 0644); err != nil {
		t.Fatalf("Failed to write deck file: %v", err)
	}

	deck, err := s.LoadDeck(filepath.Join("decks", "rel.md"))
	if err != nil {
		t.Fatalf("Failed to load deck by relative path: %v", err)
	}
	if deck.Title != "rel" {
		t.Errorf("Expected title 'rel', got '%s'", deck.Title)
	}
}

func TestSaveAndReloadDeck(t *testing.T) {
	s, _ := setupTestStorage(t)

	deck := &models.Deck{
		Title:    "Roundtrip",
		Author:   "Sam",
		Source:   "# Hello\n\nWorld.\n",
		FilePath: filepath.Join("decks", "roundtrip.md"),
	}
	if err := s.SaveDeck(deck); err != nil {
		t.Fatalf("Failed to save deck: %v", err)
	}

	loaded, err := s.LoadDeck(filepath.Join("decks", "roundtrip.md"))
	if err != nil {
		t.Fatalf("Failed to reload deck: %v", err)
	}
	if loaded.Title != "Roundtrip" {
		t.Errorf("Expected title 'Roundtrip', got '%s'", loaded.Title)
	}
	if loaded.Author != "Sam" {
		t.Errorf("Expected author 'Sam', got '%s'", loaded.Author)
	}
	if loaded.Source != deck.Source {
		t.Errorf("Body changed on roundtrip: %q", loaded.Source)
	}
}

func TestListDecks(t *testing.T) {
	s, tempDir := setupTestStorage(t)

	for _, name := range []string{"a.md", "b.md", "sub/c.md"} {
		path := filepath.Join(tempDir, "decks", name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("# "+name+"\n"), 0644); err != nil {
			t.Fatalf("Failed to write deck: %v", err)
		}
	}
	// Non-markdown files are ignored.
	if err := os.WriteFile(filepath.Join(tempDir, "decks", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	decks, err := s.ListDecks()
	if err != nil {
		t.Fatalf("Failed to list decks: %v", err)
	}
	if len(decks) != 3 {
		t.Errorf("Expected 3 decks, got %d", len(decks))
	}
}

func TestListDecksEmptyLibrary(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deckfold-empty-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s, err := NewStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	decks, err := s.ListDecks()
	if err != nil {
		t.Fatalf("Failed to list decks: %v", err)
	}
	if len(decks) != 0 {
		t.Errorf("Expected no decks, got %d", len(decks))
	}
}
