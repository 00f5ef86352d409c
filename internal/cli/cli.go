// Package cli provides the headless command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/deckfold/deckfold/internal/clipboard"
	"github.com/deckfold/deckfold/internal/export"
	"github.com/deckfold/deckfold/internal/importer"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/service"
)

// CLI executes deck commands without the TUI.
type CLI struct {
	service *service.Service
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{service: svc}
}

// ExecuteCommand processes a CLI command and returns the result
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return c.printUsage()
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "list", "ls":
		return c.listDecks(commandArgs)
	case "build", "check":
		return c.buildDeck(commandArgs)
	case "render", "show":
		return c.renderSlide(commandArgs)
	case "export":
		return c.exportDeck(commandArgs)
	case "import":
		return c.importMarkdown(commandArgs)
	case "copy":
		return c.copySlide(commandArgs)
	case "help":
		return c.printUsage()
	default:
		return fmt.Errorf("unknown command: %s. Use 'help' for usage information", command)
	}
}

// listDecks lists every deck in the library.
func (c *CLI) listDecks(args []string) error {
	format := flagValue(args, "--format", "-f")

	decks, err := c.service.ListDecks()
	if err != nil {
		return fmt.Errorf("failed to list decks: %w", err)
	}

	if format == "json" {
		type deckInfo struct {
			Title  string `json:"title"`
			Path   string `json:"path"`
			Slides int    `json:"slides"`
		}
		var infos []deckInfo
		for _, d := range decks {
			infos = append(infos, deckInfo{Title: d.Title, Path: d.FilePath, Slides: countSlides(d)})
		}
		return printJSON(infos)
	}

	for _, d := range decks {
		fmt.Printf("%-30s %s\n", d.Title, d.FilePath)
	}
	return nil
}

// buildDeck compiles a deck and reports its shape and diagnostics.
// Diagnostics never fail the build; the exit status reflects only
// whether the file could be read.
func (c *CLI) buildDeck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("build requires a deck file")
	}
	deck, err := c.service.Open(args[0])
	if err != nil {
		return err
	}

	if flagValue(args, "--format", "-f") == "json" {
		return printJSON(newBuildReport(deck))
	}

	fmt.Printf("%s: %d slides\n", deck.Title, len(deck.Slides))
	for _, slide := range deck.Slides {
		fmt.Printf("  %2d  %-28s %d chunks, %d steps\n",
			slide.Index+1, slide.Heading, len(slide.Chunks), slide.TotalMicroSteps())
	}
	for _, d := range deck.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s\n", d.String())
	}
	return nil
}

// renderSlide prints a slide's HTML, fully revealed.
func (c *CLI) renderSlide(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("render requires a deck file and a slide number")
	}
	deck, err := c.service.Open(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 || n > len(deck.Slides) {
		return fmt.Errorf("slide number must be between 1 and %d", len(deck.Slides))
	}

	slide := deck.Slides[n-1]
	if flagValue(args, "--format", "-f") == "text" {
		fmt.Println(slide.RawText)
		return nil
	}
	fmt.Println(export.SlideHTML(slide, c.service.Registry(), true))
	return nil
}

// exportDeck writes the deck as a standalone HTML site.
func (c *CLI) exportDeck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("export requires a deck file")
	}
	deck, err := c.service.Open(args[0])
	if err != nil {
		return err
	}

	outDir := flagValue(args, "--output", "-o")
	if outDir == "" {
		outDir = "deckfold-site"
	}
	if err := export.WriteSite(deck, c.service.Registry(), outDir); err != nil {
		return err
	}
	fmt.Printf("Exported %d slides to %s\n", len(deck.Slides), outDir)
	return nil
}

// importMarkdown converts a plain markdown file into a library deck.
func (c *CLI) importMarkdown(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires a markdown file")
	}

	imp := importer.NewMarkdownImporter(c.service.Storage().GetBaseDir())
	deck, err := imp.Import(importer.ImportOptions{
		Path:  args[0],
		Title: flagValue(args, "--title", "-t"),
	})
	if err != nil {
		return err
	}
	if err := c.service.Storage().SaveDeck(deck); err != nil {
		return err
	}
	fmt.Printf("Imported '%s' to %s\n", deck.Title, deck.FilePath)
	return nil
}

// copySlide copies a slide's plain text to the clipboard.
func (c *CLI) copySlide(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("copy requires a deck file and a slide number")
	}
	deck, err := c.service.Open(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 || n > len(deck.Slides) {
		return fmt.Errorf("slide number must be between 1 and %d", len(deck.Slides))
	}
	if err := clipboard.Copy(deck.Slides[n-1].RawText); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Println("Copied to clipboard!")
	return nil
}

func (c *CLI) printUsage() error {
	fmt.Print(`deckfold commands:
  list, ls                       List decks in the library
  build <file> [--format json]   Compile a deck and print its shape
  render <file> <n> [--format text]
                                 Print one slide, fully revealed
  export <file> [--output dir]   Write the deck as a static HTML site
  import <file> [--title t]      Convert plain markdown into a deck
  copy <file> <n>                Copy a slide's text to the clipboard
  help                           Show this help
`)
	return nil
}

// buildReport is the JSON shape of a build.
type buildReport struct {
	Title       string              `json:"title"`
	Slides      []slideReport       `json:"slides"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

type slideReport struct {
	Index   int    `json:"index"`
	Heading string `json:"heading,omitempty"`
	Chunks  int    `json:"chunks"`
	Steps   int    `json:"steps"`
}

func newBuildReport(deck *models.Deck) buildReport {
	report := buildReport{Title: deck.Title, Diagnostics: deck.Diagnostics}
	for _, s := range deck.Slides {
		report.Slides = append(report.Slides, slideReport{
			Index:   s.Index,
			Heading: s.Heading,
			Chunks:  len(s.Chunks),
			Steps:   s.TotalMicroSteps(),
		})
	}
	return report
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// flagValue scans args for a flag and returns the value after it.
func flagValue(args []string, names ...string) string {
	for i, arg := range args {
		for _, name := range names {
			if arg == name && i+1 < len(args) {
				return args[i+1]
			}
			if strings.HasPrefix(arg, name+"=") {
				return strings.TrimPrefix(arg, name+"=")
			}
		}
	}
	return ""
}

func countSlides(d *models.Deck) int {
	if len(d.Slides) > 0 {
		return len(d.Slides)
	}
	// Library listings are not compiled; estimate from separators.
	return strings.Count("\n"+d.Source, "\n---\n") + 1
}
