// Package service provides the business logic tying storage, the
// compiler, and disclosure state together for the UI surfaces.
package service

import (
	"fmt"
	"os"
	"sync"

	"github.com/deckfold/deckfold/internal/compiler"
	"github.com/deckfold/deckfold/internal/config"
	"github.com/deckfold/deckfold/internal/disclosure"
	apperrors "github.com/deckfold/deckfold/internal/errors"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/registry"
	"github.com/deckfold/deckfold/internal/storage"
	"github.com/sahilm/fuzzy"
)

// Service owns the current deck and its presentation state. All
// navigation from the TUI and HTTP surfaces goes through it so a
// rebuild can restore the presenter's position safely.
type Service struct {
	storage *storage.Storage
	config  *config.Config

	mu           sync.Mutex
	deck         *models.Deck
	registry     *registry.Registry
	machine      *disclosure.Machine
	currentSlide int
}

// NewService creates a service backed by the default library root, or
// DECKFOLD_DIR when set.
func NewService() (*Service, error) {
	rootPath := os.Getenv("DECKFOLD_DIR")
	store, err := storage.NewStorage(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cfg, err := config.NewConfig(store.GetBaseDir())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	return &Service{
		storage: store,
		config:  cfg,
	}, nil
}

// InitLibrary creates the library directory structure.
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// Config returns the loaded viewer configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Storage returns the underlying storage layer.
func (s *Service) Storage() *storage.Storage {
	return s.storage
}

// Open loads a deck file, compiles it, and makes it current.
func (s *Service) Open(path string) (*models.Deck, error) {
	deck, err := s.storage.LoadDeck(path)
	if err != nil {
		return nil, err
	}

	reg := compiler.Build(deck)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deck = deck
	s.registry = reg
	s.machine = disclosure.NewMachine(deck)
	s.currentSlide = 0
	return deck, nil
}

// Reload re-reads the current deck from disk and recompiles it,
// keeping the presenter as close as possible to where they were. When
// the file content is unchanged the current state is kept as is.
func (s *Service) Reload() (*models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil {
		return nil, apperrors.NotFoundError("open deck")
	}

	deck, err := s.storage.LoadDeck(s.deck.FilePath)
	if err != nil {
		return nil, err
	}
	if deck.ContentHash == s.deck.ContentHash {
		return s.deck, nil
	}

	reg := compiler.Build(deck)

	// Restore the position: clamp the slide index to the new deck,
	// and replay the micro-step on the slide we land on.
	prevSlide := s.currentSlide
	prevStep := 0
	if state, ok := s.machine.State(prevSlide); ok {
		prevStep = state.CurrentMicroStep()
	}

	s.deck = deck
	s.registry = reg
	s.machine = disclosure.NewMachine(deck)
	s.currentSlide = prevSlide
	if s.currentSlide >= len(deck.Slides) {
		s.currentSlide = len(deck.Slides) - 1
	}
	if s.currentSlide < 0 {
		s.currentSlide = 0
	}
	s.machine.GotoMicroStep(s.currentSlide, prevStep)
	return deck, nil
}

// Registry returns the component registry of the current deck.
func (s *Service) Registry() *registry.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry
}

// Overlays returns the rendered component texts for a slide. The
// compiler already materialized global usages onto each slide, so
// slide.Usages is the complete set.
func (s *Service) Overlays(slideIndex int) []models.Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil || slideIndex < 0 || slideIndex >= len(s.deck.Slides) {
		return nil
	}
	slide := s.deck.Slides[slideIndex]

	var overlays []models.Overlay
	for _, u := range slide.Usages {
		text, ok := s.registry.Render(u)
		if !ok {
			continue
		}
		overlays = append(overlays, models.Overlay{Anchor: u.Position, Text: text})
	}
	return overlays
}

// Deck returns the current deck, or nil when none is open.
func (s *Service) Deck() *models.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck
}

// CurrentSlide returns the zero-based index of the active slide.
func (s *Service) CurrentSlide() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSlide
}

// Slide returns the active slide, or nil when no deck is open.
func (s *Service) Slide() *models.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil || s.currentSlide >= len(s.deck.Slides) {
		return nil
	}
	return s.deck.Slides[s.currentSlide]
}

// Next advances one micro-step, moving to the next slide once the
// current one is fully revealed. Returns false at the very end.
func (s *Service) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return false
	}
	if s.machine.Advance(s.currentSlide) {
		return true
	}
	if s.currentSlide+1 < len(s.deck.Slides) {
		s.currentSlide++
		s.machine.ResetToFirst(s.currentSlide)
		return true
	}
	return false
}

// Prev steps one micro-step back, moving to the previous slide fully
// revealed once the current one is at its first step.
func (s *Service) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return false
	}
	if s.machine.Retreat(s.currentSlide) {
		return true
	}
	if s.currentSlide > 0 {
		s.currentSlide--
		s.machine.RevealAll(s.currentSlide)
		return true
	}
	return false
}

// GotoSlide jumps to a slide by index. Jumping forward starts the
// target at its first step; jumping backward shows it fully revealed.
func (s *Service) GotoSlide(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil || index < 0 || index >= len(s.deck.Slides) {
		return false
	}
	if index >= s.currentSlide {
		s.machine.ResetToFirst(index)
	} else {
		s.machine.RevealAll(index)
	}
	s.currentSlide = index
	return true
}

// RevealAll shows everything on the current slide.
func (s *Service) RevealAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return false
	}
	return s.machine.RevealAll(s.currentSlide)
}

// State returns the disclosure state of the current slide.
func (s *Service) State() (*disclosure.SlideState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return nil, false
	}
	return s.machine.State(s.currentSlide)
}

// VisibleChunks returns how many chunks of the current slide to show.
func (s *Service) VisibleChunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.machine == nil {
		return 0
	}
	return s.machine.VisibleChunks(s.currentSlide)
}

// SearchSlides filters the deck's slides with a fuzzy query over
// headings and body text. An empty query returns every slide.
func (s *Service) SearchSlides(query string) []*models.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil {
		return nil
	}
	if query == "" {
		return s.deck.Slides
	}

	var searchStrings []string
	for _, sl := range s.deck.Slides {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s", sl.Heading, sl.RawText))
	}

	matches := fuzzy.Find(query, searchStrings)

	var results []*models.Slide
	for _, match := range matches {
		results = append(results, s.deck.Slides[match.Index])
	}
	return results
}

// ListDecks returns every deck in the library.
func (s *Service) ListDecks() ([]*models.Deck, error) {
	return s.storage.ListDecks()
}

// VisibleText returns the plain text of the chunks currently revealed
// on the active slide, for copying to the clipboard.
func (s *Service) VisibleText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck == nil || s.currentSlide >= len(s.deck.Slides) {
		return ""
	}
	slide := s.deck.Slides[s.currentSlide]
	visible := s.machine.VisibleChunks(s.currentSlide)
	var text string
	for i := 0; i < visible && i < len(slide.Chunks); i++ {
		if i > 0 {
			text += "\n"
		}
		text += slide.Chunks[i].RawText
	}
	return text
}
