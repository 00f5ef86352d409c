package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/service"
)

// Finder is the fuzzy slide-jump modal.
type Finder struct {
	service *service.Service
	input   textinput.Model
	matches []*models.Slide
	cursor  int
	width   int
	height  int
}

// NewFinder creates the finder modal.
func NewFinder(svc *service.Service) *Finder {
	ti := textinput.New()
	ti.Placeholder = "type to filter slides"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Focus()

	return &Finder{
		service: svc,
		input:   ti,
	}
}

// SetSize updates the modal dimensions.
func (f *Finder) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.input.Width = width - 8
}

// Reset clears the query and refreshes the match list.
func (f *Finder) Reset() {
	f.input.SetValue("")
	f.cursor = 0
	f.matches = f.service.SearchSlides("")
}

// Selected returns the slide under the cursor.
func (f *Finder) Selected() (*models.Slide, bool) {
	if f.cursor < 0 || f.cursor >= len(f.matches) {
		return nil, false
	}
	return f.matches[f.cursor], true
}

// Update handles key input while the finder is open.
func (f *Finder) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyUp:
		if f.cursor > 0 {
			f.cursor--
		}
		return nil
	case tea.KeyDown:
		if f.cursor+1 < len(f.matches) {
			f.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.matches = f.service.SearchSlides(f.input.Value())
	if f.cursor >= len(f.matches) {
		f.cursor = 0
	}
	return cmd
}

// View renders the finder modal.
func (f *Finder) View() string {
	var b strings.Builder
	b.WriteString(f.input.View())
	b.WriteString("\n\n")

	limit := f.height - 8
	if limit < 1 {
		limit = len(f.matches)
	}
	for i, slide := range f.matches {
		if i >= limit {
			b.WriteString(progressStyle.Render(fmt.Sprintf("… %d more", len(f.matches)-limit)))
			break
		}
		line := fmt.Sprintf("%2d  %s", slide.Index+1, slide.Title())
		if i == f.cursor {
			line = titleStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(f.matches) == 0 {
		b.WriteString(progressStyle.Render("no slides match"))
	}

	return modalStyle.Render(b.String())
}
