// Package registry stores the component definitions declared in a
// document's definitions region and resolves component usages against
// them. A Registry lives for exactly one build: the compiler creates a
// fresh one per document and never updates definitions incrementally.
package registry

import (
	"sort"
	"strconv"
	"strings"

	"github.com/deckfold/deckfold/internal/errors"
	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/scanner"
	"github.com/deckfold/deckfold/internal/template"
)

// Registry owns the component definition store, the document's global
// template variables, and the usages declared in the definitions region.
type Registry struct {
	defs         map[string]*models.ComponentDefinition
	globals      map[string]string
	globalUsages []*models.ComponentUsage
	diags        []models.Diagnostic
}

// New creates an empty registry for one build.
func New() *Registry {
	return &Registry{
		defs:    make(map[string]*models.ComponentDefinition),
		globals: make(map[string]string),
	}
}

// ExtractDefinitions scans the definitions region for
// `<!-- define: name[, position=anchor] --> … <!-- enddefine -->` blocks,
// registers each block's body as a component template, and returns the
// region text with the blocks removed. On a name collision the last
// definition wins. A define without an enddefine auto-closes at the end
// of the region; a stray enddefine is dropped with a diagnostic.
func (r *Registry) ExtractDefinitions(text string) string {
	defines, _ := scanner.Scan(text, scanner.CommentGrammar("define"))
	ends, _ := scanner.Scan(text, scanner.CommentGrammar("enddefine"))

	var out strings.Builder
	out.Grow(len(text))
	pos := 0
	endIdx := 0
	for _, def := range defines {
		if def.SpanStart < pos {
			// Inside the previous block's template; already consumed.
			continue
		}
		out.WriteString(text[pos:def.SpanStart])

		// Pair with the next enddefine after this define.
		closeStart, closeEnd := len(text), len(text)
		for endIdx < len(ends) && ends[endIdx].SpanStart < def.SpanEnd {
			r.diags = append(r.diags, errors.Diagnostic(models.DiagWarning, -1,
				"enddefine without matching define dropped"))
			endIdx++
		}
		if endIdx < len(ends) {
			closeStart, closeEnd = ends[endIdx].SpanStart, ends[endIdx].SpanEnd
			endIdx++
		}

		name, anchor, ok := parseDefineParams(def.RawParams)
		if !ok {
			r.diags = append(r.diags, errors.Diagnostic(models.DiagWarning, -1,
				"define block without a component name dropped"))
			pos = closeEnd
			continue
		}
		r.defs[name] = &models.ComponentDefinition{
			Name:     name,
			Template: strings.Trim(text[def.SpanEnd:closeStart], "\n"),
			Anchor:   anchor,
		}
		pos = closeEnd
	}
	if pos < len(text) {
		tail := text[pos:]
		// Drop any remaining stray enddefine markers from the tail.
		for ; endIdx < len(ends); endIdx++ {
			if ends[endIdx].SpanStart < pos {
				continue
			}
			r.diags = append(r.diags, errors.Diagnostic(models.DiagWarning, -1,
				"enddefine without matching define dropped"))
		}
		_, tail = scanner.Scan(tail, scanner.CommentGrammar("enddefine"))
		out.WriteString(tail)
	}
	return out.String()
}

// parseDefineParams splits `name[, key=value...]` define parameters.
func parseDefineParams(raw string) (name string, anchor models.AnchorPosition, ok bool) {
	anchor = models.AnchorBottomRight
	head := raw
	rest := ""
	if i := strings.IndexByte(raw, ','); i >= 0 {
		head, rest = raw[:i], raw[i+1:]
	}
	name = strings.TrimSpace(head)
	if name == "" || strings.ContainsAny(name, "= \t") {
		return "", anchor, false
	}
	params := scanner.ParseParams(rest)
	if p, found := params["position"]; found {
		if a, valid := models.ParseAnchor(p); valid {
			anchor = a
		}
	}
	return name, anchor, true
}

// ResolveUsages scans text for `<!-- @name[: params] -->` markers,
// resolves each against the definition store, and returns the residual
// text plus one ComponentUsage per resolved marker. Unknown component
// names are dropped with a diagnostic; the marker is removed either way.
// Templates are not expanded here; that happens at render time.
func (r *Registry) ResolveUsages(text string, slideIndex, totalSlides int) (string, []*models.ComponentUsage) {
	dirs, residual := scanner.Scan(text, scanner.Grammar{
		Open: "<!--", Close: "-->", NamePrefix: "@",
	})

	var usages []*models.ComponentUsage
	for _, d := range dirs {
		name := strings.TrimPrefix(d.Name, "@")
		def, found := r.defs[name]
		if !found {
			r.diags = append(r.diags, errors.Diagnostic(models.DiagWarning, slideIndex,
				"usage of unknown component %q dropped", name))
			continue
		}
		def.UsageCount++

		params := scanner.ParseParams(d.RawParams)
		position := def.Anchor
		if p, found := params["position"]; found {
			if a, valid := models.ParseAnchor(p); valid {
				position = a
			} else {
				r.diags = append(r.diags, errors.Diagnostic(models.DiagWarning, slideIndex,
					"unknown anchor %q on component %q, using %q", p, name, def.Anchor))
			}
		}
		usages = append(usages, &models.ComponentUsage{
			ComponentName: name,
			Params:        params,
			Position:      position,
			SlideIndex:    slideIndex,
			TotalSlides:   totalSlides,
		})
	}
	return residual, usages
}

// AddGlobalUsage records a usage declared in the definitions region.
// Global usages keep their position and params across the whole deck but
// are instantiated per slide so their built-in variables track the slide
// being rendered.
func (r *Registry) AddGlobalUsage(u *models.ComponentUsage) {
	r.globalUsages = append(r.globalUsages, u)
}

// GlobalUsages materializes the global usages for one slide visit.
func (r *Registry) GlobalUsages(slideIndex, totalSlides int) []*models.ComponentUsage {
	if len(r.globalUsages) == 0 {
		return nil
	}
	out := make([]*models.ComponentUsage, 0, len(r.globalUsages))
	for _, g := range r.globalUsages {
		out = append(out, &models.ComponentUsage{
			ComponentName: g.ComponentName,
			Params:        g.Params,
			Position:      g.Position,
			SlideIndex:    slideIndex,
			TotalSlides:   totalSlides,
		})
	}
	return out
}

// SetGlobal registers a document-wide template variable.
func (r *Registry) SetGlobal(key, value string) {
	r.globals[key] = value
}

// Render expands a usage's template. Variable precedence, lowest to
// highest: document globals, per-usage params, built-ins. Built-ins win
// so a usage cannot spoof `$slideNumber` and friends.
func (r *Registry) Render(u *models.ComponentUsage) (string, bool) {
	def, found := r.defs[u.ComponentName]
	if !found {
		return "", false
	}
	vars := make(map[string]string, len(r.globals)+len(u.Params)+3)
	for k, v := range r.globals {
		vars[k] = v
	}
	for k, v := range u.Params {
		vars[k] = v
	}
	vars["$slideIndex"] = strconv.Itoa(u.SlideIndex)
	vars["$slideNumber"] = strconv.Itoa(u.SlideIndex + 1)
	vars["$totalSlides"] = strconv.Itoa(u.TotalSlides)
	return template.Expand(def.Template, vars), true
}

// Lookup returns a definition by name.
func (r *Registry) Lookup(name string) (*models.ComponentDefinition, bool) {
	def, found := r.defs[name]
	return def, found
}

// Definitions returns all registered definitions sorted by name.
func (r *Registry) Definitions() []*models.ComponentDefinition {
	out := make([]*models.ComponentDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Diagnostics returns the anomalies recorded during extraction and
// resolution, in the order they were observed.
func (r *Registry) Diagnostics() []models.Diagnostic {
	return r.diags
}
