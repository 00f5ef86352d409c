// Package ui implements the terminal slide viewer.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/deckfold/deckfold/internal/clipboard"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/service"
	"github.com/muesli/termenv"
)

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Environment variable override wins.
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	hasDarkBg := lipgloss.HasDarkBackground()

	var styleOption glamour.TermRendererOption
	if hasDarkBg {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("dark")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	} else {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("light")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// ViewMode represents which surface the viewer is showing.
type ViewMode int

const (
	ViewSlides ViewMode = iota
	ViewFinder
	ViewHelp
)

// KeyMap defines the viewer key bindings.
type KeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	NextSlide key.Binding
	PrevSlide key.Binding
	First     key.Binding
	Last      key.Binding
	Reveal    key.Binding
	Finder    key.Binding
	Reload    key.Binding
	Copy      key.Binding
	Help      key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Finder, k.Help, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.NextSlide, k.PrevSlide},
		{k.First, k.Last, k.Reveal, k.Finder},
		{k.Reload, k.Copy, k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("right", "l", " "),
		key.WithHelp("→/space", "next step"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous step"),
	),
	NextSlide: key.NewBinding(
		key.WithKeys("down", "j", "pgdown"),
		key.WithHelp("↓/j", "next slide"),
	),
	PrevSlide: key.NewBinding(
		key.WithKeys("up", "k", "pgup"),
		key.WithHelp("↑/k", "previous slide"),
	),
	First: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first slide"),
	),
	Last: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last slide"),
	),
	Reveal: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "reveal slide"),
	),
	Finder: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find slide"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload deck"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy visible text"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Messages for async operations.
type reloadMsg struct {
	deck *models.Deck
	err  error
}

type watchTickMsg time.Time

type statusExpiredMsg struct{}

// Model is the viewer's bubbletea model.
type Model struct {
	service  *service.Service
	viewMode ViewMode

	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	finder   *Finder

	glamourRenderer *glamour.TermRenderer

	width  int
	height int

	statusMsg string
	err       error
}

// NewModel creates a viewer for the service's current deck.
func NewModel(svc *service.Service) (*Model, error) {
	initializeColors()
	initializeStyles()

	renderer, err := createGlamourRenderer(80)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	m := &Model{
		service:         svc,
		viewMode:        ViewSlides,
		viewport:        viewport.New(80, 24),
		help:            help.New(),
		keys:            keys,
		glamourRenderer: renderer,
	}
	m.finder = NewFinder(svc)
	m.refreshContent()
	return m, nil
}

// Init starts the deck file watcher tick.
func (m *Model) Init() tea.Cmd {
	return watchTick(m.service.Config().WatchInterval())
}

func watchTick(intervalMs int) tea.Cmd {
	return tea.Tick(time.Duration(intervalMs)*time.Millisecond, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func reloadCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		deck, err := svc.Reload()
		return reloadMsg{deck: deck, err: err}
	}
}

func statusExpireCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		if r, err := createGlamourRenderer(msg.Width - 4); err == nil {
			m.glamourRenderer = r
		}
		m.finder.SetSize(msg.Width, msg.Height)
		m.refreshContent()
		return m, nil

	case watchTickMsg:
		// The reload is cheap when the file is unchanged; the content
		// hash short-circuits it.
		return m, tea.Batch(reloadCmd(m.service), watchTick(m.service.Config().WatchInterval()))

	case reloadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.refreshContent()
		return m, nil

	case statusExpiredMsg:
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ViewFinder:
			return m.updateFinder(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.viewMode = ViewSlides
			}
			return m, nil
		default:
			return m.updateSlides(msg)
		}
	}

	return m, nil
}

func (m *Model) updateSlides(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.service.Next()
	case key.Matches(msg, m.keys.Prev):
		m.service.Prev()
	case key.Matches(msg, m.keys.NextSlide):
		m.service.GotoSlide(m.service.CurrentSlide() + 1)
	case key.Matches(msg, m.keys.PrevSlide):
		m.service.GotoSlide(m.service.CurrentSlide() - 1)
	case key.Matches(msg, m.keys.First):
		m.service.GotoSlide(0)
	case key.Matches(msg, m.keys.Last):
		if deck := m.service.Deck(); deck != nil {
			m.service.GotoSlide(len(deck.Slides) - 1)
		}
	case key.Matches(msg, m.keys.Reveal):
		m.service.RevealAll()
	case key.Matches(msg, m.keys.Finder):
		m.viewMode = ViewFinder
		m.finder.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, reloadCmd(m.service)
	case key.Matches(msg, m.keys.Copy):
		if !clipboard.Available() {
			m.statusMsg = "no clipboard utility found"
			return m, statusExpireCmd()
		}
		if err := clipboard.Copy(m.service.VisibleText()); err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", err)
		} else {
			m.statusMsg = "Copied to clipboard!"
		}
		return m, statusExpireCmd()
	case key.Matches(msg, m.keys.Help):
		m.viewMode = ViewHelp
		return m, nil
	default:
		return m, nil
	}
	m.refreshContent()
	return m, nil
}

func (m *Model) updateFinder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.viewMode = ViewSlides
		return m, nil
	case msg.Type == tea.KeyEnter:
		if slide, ok := m.finder.Selected(); ok {
			m.service.GotoSlide(slide.Index)
			m.refreshContent()
		}
		m.viewMode = ViewSlides
		return m, nil
	}
	cmd := m.finder.Update(msg)
	return m, cmd
}

// refreshContent re-renders the visible chunks of the current slide
// into the viewport.
func (m *Model) refreshContent() {
	slide := m.service.Slide()
	if slide == nil {
		m.viewport.SetContent("No deck open.")
		return
	}

	state, _ := m.service.State()
	visible := m.service.VisibleChunks()

	var parts []string
	for i := 0; i < visible && i < len(slide.Chunks); i++ {
		text := slide.Chunks[i].RawText
		if state != nil && i == visible-1 {
			text = emphasizeHighlight(slide.Chunks[i], state.ActiveHighlight())
		}
		parts = append(parts, text)
	}
	markdown := strings.Join(parts, "\n")

	rendered, err := m.glamourRenderer.Render(markdown)
	if err != nil {
		rendered = markdown
	}
	m.viewport.SetContent(m.composeSlide(rendered))
	m.viewport.GotoBottom()
}

// emphasizeHighlight wraps the active highlight span in bold markers
// so glamour renders it emphasized.
func emphasizeHighlight(chunk *models.ContentChunk, active int) string {
	if active < 0 || active >= len(chunk.Highlights) {
		return chunk.RawText
	}
	span := chunk.Highlights[active].Text
	if span == "" {
		return chunk.RawText
	}
	return strings.Replace(chunk.RawText, span, "**"+span+"**", 1)
}

// composeSlide places component overlays around the rendered body.
func (m *Model) composeSlide(body string) string {
	overlays := m.service.Overlays(m.service.CurrentSlide())
	if len(overlays) == 0 {
		return body
	}

	var top, bottom []string
	for _, o := range overlays {
		line := overlayStyle.Render(strings.TrimSpace(o.Text))
		line = placeOverlay(line, o.Anchor, m.width)
		if strings.HasPrefix(string(o.Anchor), "top") {
			top = append(top, line)
		} else {
			bottom = append(bottom, line)
		}
	}

	var b strings.Builder
	for _, l := range top {
		b.WriteString(l + "\n")
	}
	b.WriteString(body)
	for _, l := range bottom {
		b.WriteString("\n" + l)
	}
	return b.String()
}

// placeOverlay aligns an overlay line by its anchor column.
func placeOverlay(line string, anchor models.AnchorPosition, width int) string {
	if width <= 0 {
		return line
	}
	pos := lipgloss.Right
	switch {
	case strings.HasSuffix(string(anchor), "left"):
		pos = lipgloss.Left
	case strings.HasSuffix(string(anchor), "center"):
		pos = lipgloss.Center
	}
	return lipgloss.PlaceHorizontal(width, pos, line)
}

// View renders the UI
func (m *Model) View() string {
	switch m.viewMode {
	case ViewFinder:
		return m.finder.View()
	case ViewHelp:
		return modalStyle.Render(m.help.FullHelpView(m.keys.FullHelp()))
	}
	return m.viewport.View() + "\n" + m.statusBar()
}

// statusBar renders the bottom bar with position and progress.
func (m *Model) statusBar() string {
	deck := m.service.Deck()
	if deck == nil {
		return statusBarStyle.Render("deckfold")
	}

	left := titleStyle.Render(deck.Title)

	var middle string
	if m.statusMsg != "" {
		middle = statusMsgStyle.Render(m.statusMsg)
	} else if m.err != nil {
		middle = diagStyle.Render(m.err.Error())
	} else if n := len(deck.Diagnostics); n > 0 {
		middle = diagStyle.Render(fmt.Sprintf("%d diagnostics", n))
	}

	right := ""
	if state, ok := m.service.State(); ok {
		p := state.Progress()
		right = progressStyle.Render(fmt.Sprintf("slide %d/%d · step %d/%d",
			m.service.CurrentSlide()+1, len(deck.Slides), p.MicroStep, p.TotalMicroSteps))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	pad := strings.Repeat(" ", gap/2)
	return statusBarStyle.Width(m.width).Render(left + pad + middle + pad + right)
}
