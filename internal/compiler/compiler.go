// Package compiler turns an annotated markdown document into slides.
//
// One Build is one pass over the whole document: protect code spans,
// split off the definitions region, register components, split slides,
// extract each slide's directives, cut the residual text into chunks at
// step markers, and render every chunk. The compiler owns the registry
// for the build; both are discarded and rebuilt wholesale on the next
// build. Nothing in here fails on document content: every anomaly
// degrades and lands in the deck's diagnostics.
package compiler

import (
	"strconv"
	"strings"

	"github.com/deckfold/deckfold/internal/errors"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/registry"
	"github.com/deckfold/deckfold/internal/render"
	"github.com/deckfold/deckfold/internal/scanner"
	"github.com/deckfold/deckfold/internal/validation"
)

// globalSeparator splits the definitions region from the slide regions.
const globalSeparator = "---global"

// Build compiles deck.Source, filling deck.Slides and deck.Diagnostics.
// It returns the registry built for this document so callers can render
// component usages.
func Build(deck *models.Deck) *registry.Registry {
	c := &compilation{
		protected: scanner.Protect(deck.Source),
		reg:       registry.New(),
	}

	defsRegion, slidesRegion := splitGlobal(c.protected.Text)
	c.buildDefinitions(defsRegion)

	slideTexts := splitSlides(slidesRegion)
	totalSlides := len(slideTexts)
	slides := make([]*models.Slide, 0, totalSlides)
	for i, text := range slideTexts {
		slides = append(slides, c.buildSlide(text, i, totalSlides))
	}

	deck.Slides = slides
	deck.Diagnostics = append(c.diags, c.reg.Diagnostics()...)
	return c.reg
}

type compilation struct {
	protected *scanner.Protected
	reg       *registry.Registry
	diags     []models.Diagnostic
}

// splitGlobal splits the document at the first line exactly `---global`:
// everything before is the definitions region, everything after holds
// the slide regions. Without the separator the whole document is slides.
func splitGlobal(text string) (defs, slides string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == globalSeparator {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", text
}

// splitSlides cuts the slide regions at separator lines matching only
// `---` (surrounding whitespace tolerated). Regions that are entirely
// blank are dropped.
func splitSlides(text string) []string {
	lines := strings.Split(text, "\n")
	var regions []string
	var current []string
	flush := func() {
		region := strings.Join(current, "\n")
		if strings.TrimSpace(region) != "" {
			regions = append(regions, region)
		}
		current = current[:0]
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return regions
}

// buildDefinitions processes the definitions region: component blocks,
// document-wide variables, and global component usages.
func (c *compilation) buildDefinitions(text string) {
	residual := c.reg.ExtractDefinitions(text)

	// Templates were captured from the protected text; put code spans
	// back so rendered components carry them instead of placeholders.
	for _, def := range c.reg.Definitions() {
		def.Template = c.protected.Restore(def.Template)
	}

	varDirs, residual := scanner.Scan(residual, scanner.CommentGrammar("vars"))
	for _, d := range varDirs {
		for k, v := range scanner.ParseParams(d.RawParams) {
			c.reg.SetGlobal(k, v)
		}
	}

	// Usages declared here apply to every slide; the slide binding is
	// recomputed on each visit.
	_, usages := c.reg.ResolveUsages(residual, -1, 0)
	for _, u := range usages {
		c.reg.AddGlobalUsage(u)
	}
}

// buildSlide extracts one slide's directives and cuts it into chunks.
func (c *compilation) buildSlide(text string, index, totalSlides int) *models.Slide {
	slide := &models.Slide{Index: index, Styles: make(map[string]string)}

	text = c.extractLayout(slide, text)
	text = c.extractStyles(slide, text)
	text = c.extractTransition(slide, text)
	text = c.extractMedia(slide, text)
	text = c.extractCode(slide, text)
	text = c.extractMath(slide, text)
	text = c.extractCards(slide, text)

	var usages []*models.ComponentUsage
	text, usages = c.reg.ResolveUsages(text, index, totalSlides)
	slide.Usages = append(usages, c.reg.GlobalUsages(index, totalSlides)...)

	residual := c.splitChunks(slide, text)

	slide.RawText = stripSentinels(c.protected.Restore(residual))
	slide.Heading = firstHeading(slide.RawText)
	return slide
}

// extractLayout records the last layout directive on the slide.
func (c *compilation) extractLayout(slide *models.Slide, text string) string {
	dirs, residual := scanner.Scan(text, scanner.CommentGrammar("layout"))
	for _, d := range dirs {
		name, params := splitLeadingName(d.RawParams)
		slide.Layout = name
		slide.LayoutCols = atoiOr(params["cols"], 0)
		c.validate("layout", params, slide.Index)
	}
	return residual
}

// extractStyles merges every style directive into the slide style map,
// later directives winning per key.
func (c *compilation) extractStyles(slide *models.Slide, text string) string {
	dirs, residual := scanner.Scan(text, scanner.CommentGrammar("style"))
	for _, d := range dirs {
		params := scanner.ParseParams(d.RawParams)
		for k, v := range params {
			slide.Styles[k] = v
		}
		c.validate("style", params, slide.Index)
	}
	return residual
}

func (c *compilation) extractTransition(slide *models.Slide, text string) string {
	dirs, residual := scanner.Scan(text, scanner.CommentGrammar("transition"))
	for _, d := range dirs {
		name, params := splitLeadingName(d.RawParams)
		slide.Transition = name
		slide.TransitionDurationMs = atoiOr(params["duration"], 0)
		c.validate("transition", params, slide.Index)
	}
	return residual
}

func (c *compilation) extractMedia(slide *models.Slide, text string) string {
	dirs, residual := scanner.Scan(text, scanner.CommentGrammar("media"))
	for _, d := range dirs {
		params := scanner.ParseParams(d.RawParams)
		if params["src"] == "" {
			c.diags = append(c.diags, errors.Diagnostic(models.DiagWarning, slide.Index,
				"media directive without src dropped"))
			continue
		}
		slide.Media = append(slide.Media, models.MediaRef{Src: params["src"], Type: params["type"]})
		c.validate("media", params, slide.Index)
	}
	return residual
}

func (c *compilation) extractCode(slide *models.Slide, text string) string {
	dirs, residual := scanner.Scan(text, scanner.CommentGrammar("code"))
	for _, d := range dirs {
		params := scanner.ParseParams(d.RawParams)
		slide.Code = append(slide.Code, models.CodeRef{Lang: params["lang"], Lines: params["lines"]})
		c.validate("code", params, slide.Index)
	}
	return residual
}

// extractMath records each math directive and passes its text through
// inline in place of the marker.
func (c *compilation) extractMath(slide *models.Slide, text string) string {
	dirs, _ := scanner.Scan(text, scanner.CommentGrammar("math"))
	if len(dirs) == 0 {
		return text
	}
	return replaceSpans(text, dirs, func(_ int, d models.Directive) string {
		slide.Math = append(slide.Math, d.RawParams)
		return d.RawParams
	})
}

// extractCards replaces card/endcard markers with structural boundary
// sentinels the renderer turns into containers. Pairing and auto-close
// happen in the renderer, per chunk.
func (c *compilation) extractCards(slide *models.Slide, text string) string {
	opens, _ := scanner.Scan(text, scanner.CommentGrammar("card"))
	text = replaceSpans(text, opens, func(i int, d models.Directive) string {
		params := scanner.ParseParams(d.RawParams)
		slide.Cards = append(slide.Cards, params)
		c.validate("card", params, slide.Index)
		return render.CardOpen(i)
	})
	ends, _ := scanner.Scan(text, scanner.CommentGrammar("endcard"))
	return replaceSpans(text, ends, func(int, models.Directive) string {
		return render.CardClose()
	})
}

// splitChunks cuts the residual slide text at step markers and renders
// each chunk. The first chunk reveals with effect "none"; marker N's
// effect and duration apply to chunk N+1, the chunk that follows it.
// It returns the slide text with the step spans removed.
func (c *compilation) splitChunks(slide *models.Slide, text string) string {
	steps, residual := scanner.Scan(text, scanner.CommentGrammar("step"))

	cards := make([]render.Card, len(slide.Cards))
	for i, p := range slide.Cards {
		cards[i] = render.Card{Params: p}
	}

	makeChunk := func(raw, effect string, duration int) {
		sentinelText, spans := scanner.ExtractHighlights(raw)
		restored := c.protected.Restore(sentinelText)
		slide.Chunks = append(slide.Chunks, &models.ContentChunk{
			RawText:          stripSentinels(restored),
			RevealEffect:     effect,
			RevealDurationMs: duration,
			Highlights:       spans,
			HTML:             render.Chunk(restored, cards),
		})
	}

	pos := 0
	effect := "none"
	duration := 0
	for _, d := range steps {
		makeChunk(text[pos:d.SpanStart], effect, duration)
		var params map[string]string
		effect, params = splitLeadingName(d.RawParams)
		if effect == "" {
			effect = "none"
		}
		duration = atoiOr(params["duration"], 0)
		c.validate("step", params, slide.Index)
		pos = d.SpanEnd
	}
	makeChunk(text[pos:], effect, duration)
	return residual
}

func (c *compilation) validate(directive string, params map[string]string, slideIndex int) {
	schema, ok := validation.SchemaFor(directive)
	if !ok {
		return
	}
	c.diags = append(c.diags, schema.Check(params, slideIndex)...)
}

// replaceSpans rebuilds text with each directive's span replaced by the
// value repl returns for it. The directive spans must be in text's own
// coordinates, as produced by a Scan over text.
func replaceSpans(text string, dirs []models.Directive, repl func(i int, d models.Directive) string) string {
	var out strings.Builder
	out.Grow(len(text))
	pos := 0
	for i, d := range dirs {
		out.WriteString(text[pos:d.SpanStart])
		out.WriteString(repl(i, d))
		pos = d.SpanEnd
	}
	out.WriteString(text[pos:])
	return out.String()
}

// splitLeadingName splits a raw parameter string whose first segment is
// a positional name rather than a key=value pair, as in
// `slide-left, duration=500`.
func splitLeadingName(raw string) (string, map[string]string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", map[string]string{}
	}
	head := raw
	rest := ""
	if i := strings.IndexByte(raw, ','); i >= 0 {
		head, rest = raw[:i], raw[i+1:]
	}
	head = strings.TrimSpace(head)
	if strings.Contains(head, "=") {
		// No positional name, only key=value pairs.
		return "", scanner.ParseParams(raw)
	}
	return head, scanner.ParseParams(rest)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// stripSentinels removes highlight and card sentinels, leaving clean
// markdown for terminal rendering and exports.
var sentinelStripper = strings.NewReplacer("\x01/\x01", "", "\x02/\x02", "")

func stripSentinels(text string) string {
	text = sentinelStripper.Replace(text)
	var out strings.Builder
	out.Grow(len(text))
	i := 0
	for i < len(text) {
		ch := text[i]
		if ch == '\x01' || ch == '\x02' {
			// Skip the whole \x01N\x01 token.
			j := i + 1
			for j < len(text) && text[j] != ch {
				j++
			}
			if j < len(text) {
				i = j + 1
				continue
			}
		}
		out.WriteByte(ch)
		i++
	}
	return out.String()
}

// firstHeading returns the text of the first markdown heading, used as
// the slide's display title.
func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if title != "" {
				return title
			}
		}
	}
	return ""
}
