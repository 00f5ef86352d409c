package models

import (
	"strconv"
	"strings"
	"time"
)

// Deck represents a fully built presentation: deck-level metadata parsed
// from YAML frontmatter plus the ordered slides produced by the compiler.
type Deck struct {
	// Frontmatter fields
	Title      string                 `yaml:"title"`
	Author     string                 `yaml:"author,omitempty"`
	Theme      string                 `yaml:"theme,omitempty"`
	Transition string                 `yaml:"transition,omitempty"`
	Metadata   map[string]interface{} `yaml:"metadata,omitempty"`
	CreatedAt  time.Time              `yaml:"created_at,omitempty"`
	UpdatedAt  time.Time              `yaml:"updated_at,omitempty"`

	// Build output
	Slides      []*Slide     `yaml:"-"`
	Diagnostics []Diagnostic `yaml:"-"`

	// Source fields
	Source      string `yaml:"-"` // The annotated markdown body after frontmatter
	FilePath    string `yaml:"-"` // Path to the deck file
	ContentHash string `yaml:"-"` // SHA256 hash of the file contents
}

// TotalSlides returns the number of slides in the deck.
func (d *Deck) TotalSlides() int {
	return len(d.Slides)
}

// Slide is one slide region of the document after directive extraction:
// per-slide metadata, the anchored component usages, and the ordered
// content chunks that drive progressive disclosure.
type Slide struct {
	Index                int
	Heading              string // first heading in the slide, used for finders and exports
	Layout               string
	LayoutCols           int
	Styles               map[string]string
	Transition           string
	TransitionDurationMs int
	Media                []MediaRef
	Cards                []map[string]string // card block params, indexed by card sentinel
	Code                 []CodeRef
	Math                 []string
	Usages               []*ComponentUsage
	Chunks               []*ContentChunk
	RawText              string // residual slide text with directives removed
}

// MediaRef is a media directive recorded on a slide.
type MediaRef struct {
	Src  string
	Type string
}

// CodeRef is a code directive annotating the following fence.
type CodeRef struct {
	Lang  string
	Lines string
}

// TotalMicroSteps returns the number of navigation steps the slide
// contributes: one per chunk plus one per highlight.
func (s *Slide) TotalMicroSteps() int {
	total := 0
	for _, c := range s.Chunks {
		total += 1 + c.HighlightCount()
	}
	return total
}

// FilterValue returns the value used for filtering in lists
func (s Slide) FilterValue() string {
	return cleanString(s.Heading)
}

// Title satisfies the list.Item interface
func (s Slide) Title() string {
	if s.Heading != "" {
		return cleanString(s.Heading)
	}
	return "Slide " + strconv.Itoa(s.Index+1)
}

// Description satisfies the list.Item interface
func (s Slide) Description() string {
	var parts []string
	if s.Layout != "" {
		parts = append(parts, "layout: "+s.Layout)
	}
	parts = append(parts, strconv.Itoa(len(s.Chunks))+" steps")
	return strings.Join(parts, " • ")
}

// cleanString removes control characters that would corrupt list rendering.
func cleanString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= 32 || r == '\t' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
