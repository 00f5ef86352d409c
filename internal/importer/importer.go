// Package importer converts plain markdown documents into deck
// sources by splitting them into slides.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deckfold/deckfold/internal/models"
)

// MarkdownImporter turns ordinary markdown files into decks.
type MarkdownImporter struct {
	baseDir string
}

// NewMarkdownImporter creates an importer writing into baseDir.
func NewMarkdownImporter(baseDir string) *MarkdownImporter {
	return &MarkdownImporter{baseDir: baseDir}
}

// ImportOptions configures the import process
type ImportOptions struct {
	Path       string // Source markdown file
	Title      string // Deck title; defaults to the first heading or filename
	SplitLevel int    // Heading level that starts a new slide (default 2)
}

// Import reads a markdown file and produces a deck whose slides are
// split at headings. Writing the deck into the library is the
// caller's decision.
func (i *MarkdownImporter) Import(options ImportOptions) (*models.Deck, error) {
	content, err := os.ReadFile(options.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", options.Path, err)
	}

	splitLevel := options.SplitLevel
	if splitLevel <= 0 {
		splitLevel = 2
	}

	deck := &models.Deck{
		Title:     options.Title,
		Source:    splitAtHeadings(string(content), splitLevel),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if deck.Title == "" {
		deck.Title = firstHeadingTitle(string(content))
	}
	if deck.Title == "" {
		base := filepath.Base(options.Path)
		deck.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	name := sanitizeFilename(deck.Title) + ".md"
	deck.FilePath = filepath.Join(i.baseDir, "decks", name)
	return deck, nil
}

// splitAtHeadings inserts slide separators before each heading at or
// above the split level. Headings inside code fences stay untouched.
func splitAtHeadings(content string, level int) string {
	lines := strings.Split(content, "\n")
	var out []string
	inFence := false
	seen := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
		if !inFence && isSplitHeading(trimmed, level) {
			if seen {
				out = append(out, "", "---", "")
			}
			seen = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// isSplitHeading matches headings from level 1 up to the split level.
func isSplitHeading(line string, level int) bool {
	for l := 1; l <= level; l++ {
		if strings.HasPrefix(line, strings.Repeat("#", l)+" ") {
			return true
		}
	}
	return false
}

func firstHeadingTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return ""
}

func sanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "imported-deck"
	}
	return name
}
