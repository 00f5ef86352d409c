// Package server exposes a deck over HTTP so a browser can follow the
// presentation alongside the terminal viewer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/deckfold/deckfold/internal/export"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/service"
	"github.com/deckfold/deckfold/internal/watcher"
)

// DeckServer serves a single deck over HTTP.
type DeckServer struct {
	service       *service.Service
	port          int
	watchInterval time.Duration
	watch         bool
}

// NewDeckServer creates a server for the service's current deck.
func NewDeckServer(svc *service.Service, port int) *DeckServer {
	return &DeckServer{
		service:       svc,
		port:          port,
		watchInterval: 500 * time.Millisecond,
		watch:         true,
	}
}

// SetWatch enables or disables rebuilding when the deck file changes.
func (s *DeckServer) SetWatch(enabled bool) {
	s.watch = enabled
}

// SetWatchInterval configures the deck file poll interval.
func (s *DeckServer) SetWatchInterval(interval time.Duration) {
	s.watchInterval = interval
}

// Start begins serving HTTP requests and blocks until the listener
// fails or the context is cancelled.
func (s *DeckServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/slide/", s.handleSlide)
	mux.HandleFunc("/api/deck", s.handleDeckJSON)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("deck server starting on http://localhost%s", addr)
	log.Printf("  http://localhost%s/ - full deck", addr)
	log.Printf("  http://localhost%s/slide/1 - single slide", addr)
	log.Printf("  http://localhost%s/api/deck - deck as JSON", addr)

	if s.watch {
		if deck := s.service.Deck(); deck != nil {
			w := watcher.New(deck.FilePath, s.watchInterval, func() {
				if _, err := s.service.Reload(); err != nil {
					log.Printf("reload failed: %v", err)
				}
			})
			go w.Watch(ctx)
		}
	}

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleIndex serves the whole deck as a standalone page.
func (s *DeckServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, "not found", http.StatusNotFound)
		return
	}
	deck := s.service.Deck()
	if deck == nil {
		s.writeError(w, "no deck open", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, export.DeckHTML(deck, s.service.Registry()))
}

// handleSlide serves one slide, fully revealed, by 1-based number.
func (s *DeckServer) handleSlide(w http.ResponseWriter, r *http.Request) {
	deck := s.service.Deck()
	if deck == nil {
		s.writeError(w, "no deck open", http.StatusServiceUnavailable)
		return
	}

	numStr := strings.TrimPrefix(r.URL.Path, "/slide/")
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 1 || n > len(deck.Slides) {
		s.writeError(w, fmt.Sprintf("slide number must be between 1 and %d", len(deck.Slides)), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, export.SlideHTML(deck.Slides[n-1], s.service.Registry(), true))
}

// deckJSON is the wire shape of /api/deck.
type deckJSON struct {
	Title       string              `json:"title"`
	Author      string              `json:"author,omitempty"`
	Theme       string              `json:"theme,omitempty"`
	Slides      []slideJSON         `json:"slides"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

type slideJSON struct {
	Index      int      `json:"index"`
	Heading    string   `json:"heading,omitempty"`
	Layout     string   `json:"layout,omitempty"`
	Transition string   `json:"transition,omitempty"`
	Chunks     []string `json:"chunks"`
	Highlights int      `json:"highlights"`
	Steps      int      `json:"steps"`
}

func (s *DeckServer) handleDeckJSON(w http.ResponseWriter, r *http.Request) {
	deck := s.service.Deck()
	if deck == nil {
		s.writeError(w, "no deck open", http.StatusServiceUnavailable)
		return
	}

	out := deckJSON{
		Title:       deck.Title,
		Author:      deck.Author,
		Theme:       deck.Theme,
		Diagnostics: deck.Diagnostics,
	}
	for _, slide := range deck.Slides {
		sj := slideJSON{
			Index:      slide.Index,
			Heading:    slide.Heading,
			Layout:     slide.Layout,
			Transition: slide.Transition,
			Steps:      slide.TotalMicroSteps(),
		}
		for _, c := range slide.Chunks {
			sj.Chunks = append(sj.Chunks, c.HTML)
			sj.Highlights += c.HighlightCount()
		}
		out.Slides = append(out.Slides, sj)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *DeckServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "deckfold",
	})
}

func (s *DeckServer) writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
