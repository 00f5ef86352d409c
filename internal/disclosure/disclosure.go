// Package disclosure tracks progressive reveal state per slide.
//
// Navigation is in micro-steps: one chunk reveal or one highlight reveal.
// The canonical ordering for a slide is chunk1-content, chunk1-hl1,
// chunk1-hl2, …, chunk2-content, … and the cursor is always the 1-based
// rank of the current (chunk, highlight) pair in that ordering. The one
// deliberate exception is RevealAll, which parks the cursor on the last
// micro-step while leaving no highlight active; that asymmetry matches
// jumping backward onto a slide, where the whole slide should show
// without a mid-highlight focus.
package disclosure

import (
	"github.com/deckfold/deckfold/internal/models"
)

// SlideState is the disclosure cursor for one slide. It is created when
// the slide is first built and mutated only through Machine operations.
type SlideState struct {
	CurrentChunk       int   // 1-based
	CurrentHighlight   int   // 0 = none
	HighlightActive    bool  // false after RevealAll/ResetToFirst even when CurrentHighlight > 0
	TotalChunks        int
	HighlightsPerChunk []int
}

// newSlideState builds the initial state (first chunk visible, nothing
// highlighted) for a slide.
func newSlideState(slide *models.Slide) *SlideState {
	highlights := make([]int, len(slide.Chunks))
	for i, c := range slide.Chunks {
		highlights[i] = c.HighlightCount()
	}
	return &SlideState{
		CurrentChunk:       1,
		TotalChunks:        len(slide.Chunks),
		HighlightsPerChunk: highlights,
	}
}

// TotalMicroSteps returns Σ(1 + highlights per chunk).
func (s *SlideState) TotalMicroSteps() int {
	total := 0
	for _, h := range s.HighlightsPerChunk {
		total += 1 + h
	}
	return total
}

// CurrentMicroStep returns the 1-based rank of the cursor in the
// canonical micro-step ordering.
func (s *SlideState) CurrentMicroStep() int {
	step := 0
	for i := 0; i < s.CurrentChunk-1; i++ {
		step += 1 + s.HighlightsPerChunk[i]
	}
	return step + 1 + s.CurrentHighlight
}

// HasNext reports whether a forward micro-step remains. Pure.
func (s *SlideState) HasNext() bool {
	return s.CurrentMicroStep() < s.TotalMicroSteps()
}

// HasPrevious reports whether a backward micro-step remains. Pure.
func (s *SlideState) HasPrevious() bool {
	return s.CurrentMicroStep() > 1
}

// ActiveHighlight returns the 0-based index of the active highlight in
// the current chunk, or -1 when none is active.
func (s *SlideState) ActiveHighlight() int {
	if !s.HighlightActive || s.CurrentHighlight == 0 {
		return -1
	}
	return s.CurrentHighlight - 1
}

// Progress reports the cursor position for display. Pure.
type Progress struct {
	Chunk           int `json:"chunk"`
	TotalChunks     int `json:"total_chunks"`
	Highlight       int `json:"highlight"`
	TotalHighlights int `json:"total_highlights"`
	MicroStep       int `json:"micro_step"`
	TotalMicroSteps int `json:"total_micro_steps"`
}

// Progress returns the current chunk/highlight/micro-step counters.
func (s *SlideState) Progress() Progress {
	totalHl := 0
	if s.CurrentChunk >= 1 && s.CurrentChunk <= len(s.HighlightsPerChunk) {
		totalHl = s.HighlightsPerChunk[s.CurrentChunk-1]
	}
	return Progress{
		Chunk:           s.CurrentChunk,
		TotalChunks:     s.TotalChunks,
		Highlight:       s.CurrentHighlight,
		TotalHighlights: totalHl,
		MicroStep:       s.CurrentMicroStep(),
		TotalMicroSteps: s.TotalMicroSteps(),
	}
}

// Machine owns one SlideState per slide, keyed by slide index. The map
// is rebuilt wholesale on every document rebuild.
type Machine struct {
	states map[int]*SlideState
}

// NewMachine builds fresh disclosure state for every slide of a deck.
func NewMachine(deck *models.Deck) *Machine {
	m := &Machine{states: make(map[int]*SlideState, len(deck.Slides))}
	for i, slide := range deck.Slides {
		m.states[i] = newSlideState(slide)
	}
	return m
}

// State returns the state for a slide index. ok is false for an index
// with no recorded state; callers treat that as a no-op, never an error.
func (m *Machine) State(slide int) (*SlideState, bool) {
	s, ok := m.states[slide]
	return s, ok
}

// Advance moves one micro-step forward on the given slide: the next
// highlight of the current chunk if one remains, else the next chunk.
// Returns false when there are no more steps (or no such slide).
func (m *Machine) Advance(slide int) bool {
	s, ok := m.states[slide]
	if !ok || s.TotalChunks == 0 {
		return false
	}
	if s.CurrentHighlight < s.HighlightsPerChunk[s.CurrentChunk-1] {
		s.CurrentHighlight++
		s.HighlightActive = true
		return true
	}
	if s.CurrentChunk < s.TotalChunks {
		s.CurrentChunk++
		s.CurrentHighlight = 0
		s.HighlightActive = false
		return true
	}
	return false
}

// Retreat moves one micro-step backward: the previous highlight of the
// current chunk if one is active, else back into the previous chunk.
// Retreating into a chunk restores it fully highlighted, with its last
// highlight active, so Retreat exactly inverts Advance. Returns false at
// the first micro-step (or for an unknown slide).
func (m *Machine) Retreat(slide int) bool {
	s, ok := m.states[slide]
	if !ok || s.TotalChunks == 0 {
		return false
	}
	if s.CurrentHighlight > 0 {
		s.CurrentHighlight--
		s.HighlightActive = s.CurrentHighlight > 0
		return true
	}
	if s.CurrentChunk > 1 {
		s.CurrentChunk--
		s.CurrentHighlight = s.HighlightsPerChunk[s.CurrentChunk-1]
		s.HighlightActive = s.CurrentHighlight > 0
		return true
	}
	return false
}

// ResetToFirst shows only the first chunk with no highlight active and
// parks the cursor on the first micro-step.
func (m *Machine) ResetToFirst(slide int) bool {
	s, ok := m.states[slide]
	if !ok {
		return false
	}
	s.CurrentChunk = 1
	s.CurrentHighlight = 0
	s.HighlightActive = false
	return true
}

// RevealAll shows every chunk with no highlight active and parks the
// cursor on the last micro-step. The cursor position and the inactive
// highlight are intentionally asymmetric with forward traversal; see the
// package comment.
func (m *Machine) RevealAll(slide int) bool {
	s, ok := m.states[slide]
	if !ok {
		return false
	}
	s.CurrentChunk = s.TotalChunks
	if s.TotalChunks > 0 {
		s.CurrentHighlight = s.HighlightsPerChunk[s.TotalChunks-1]
	} else {
		s.CurrentChunk = 1
		s.CurrentHighlight = 0
	}
	s.HighlightActive = false
	return true
}

// GotoMicroStep replays the canonical ordering to land on the 1-based
// micro-step n, clamped to the valid range. Used to restore a position
// after a rebuild.
func (m *Machine) GotoMicroStep(slide, n int) bool {
	s, ok := m.states[slide]
	if !ok {
		return false
	}
	m.ResetToFirst(slide)
	if n > s.TotalMicroSteps() {
		n = s.TotalMicroSteps()
	}
	for i := 1; i < n; i++ {
		m.Advance(slide)
	}
	return true
}

// VisibleChunks returns how many chunks of the slide are currently
// shown, which is always the current chunk position.
func (m *Machine) VisibleChunks(slide int) int {
	s, ok := m.states[slide]
	if !ok {
		return 0
	}
	return s.CurrentChunk
}
