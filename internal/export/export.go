// Package export renders a compiled deck as a standalone HTML site.
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/registry"
)

// anchorCSS maps anchors to their placement rules.
var anchorCSS = map[models.AnchorPosition]string{
	models.AnchorTopLeft:      "top:1rem;left:1rem;",
	models.AnchorTopCenter:    "top:1rem;left:50%;transform:translateX(-50%);",
	models.AnchorTopRight:     "top:1rem;right:1rem;",
	models.AnchorCenterLeft:   "top:50%;left:1rem;transform:translateY(-50%);",
	models.AnchorCenter:       "top:50%;left:50%;transform:translate(-50%,-50%);",
	models.AnchorCenterRight:  "top:50%;right:1rem;transform:translateY(-50%);",
	models.AnchorBottomLeft:   "bottom:1rem;left:1rem;",
	models.AnchorBottomCenter: "bottom:1rem;left:50%;transform:translateX(-50%);",
	models.AnchorBottomRight:  "bottom:1rem;right:1rem;",
}

// SlideHTML renders one slide as a section element. With revealAll
// every chunk is visible; otherwise chunks carry their reveal effect
// as data attributes for the viewer script.
func SlideHTML(slide *models.Slide, reg *registry.Registry, revealAll bool) string {
	var b strings.Builder

	attrs := fmt.Sprintf(` class="df-slide" data-slide="%d"`, slide.Index)
	if slide.Layout != "" {
		attrs += fmt.Sprintf(` data-layout="%s"`, html.EscapeString(slide.Layout))
		if slide.LayoutCols > 0 {
			attrs += fmt.Sprintf(` data-cols="%d"`, slide.LayoutCols)
		}
	}
	if slide.Transition != "" {
		attrs += fmt.Sprintf(` data-transition="%s"`, html.EscapeString(slide.Transition))
		if slide.TransitionDurationMs > 0 {
			attrs += fmt.Sprintf(` data-transition-duration="%d"`, slide.TransitionDurationMs)
		}
	}
	if style := inlineStyle(slide.Styles); style != "" {
		attrs += fmt.Sprintf(` style="%s"`, style)
	}
	b.WriteString("<section" + attrs + ">\n")

	for i, chunk := range slide.Chunks {
		cls := "df-chunk"
		if revealAll || i == 0 {
			cls += " df-visible"
		}
		b.WriteString(fmt.Sprintf(`<div class="%s" data-chunk="%d" data-effect="%s"`,
			cls, i, html.EscapeString(chunk.RevealEffect)))
		if chunk.RevealDurationMs > 0 {
			b.WriteString(fmt.Sprintf(` data-duration="%d"`, chunk.RevealDurationMs))
		}
		b.WriteString(">\n")
		b.WriteString(chunk.HTML)
		b.WriteString("\n</div>\n")
	}

	for _, m := range slide.Media {
		b.WriteString(mediaHTML(m))
	}

	if reg != nil {
		for _, u := range slide.Usages {
			text, ok := reg.Render(u)
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf(`<div class="df-component" style="position:absolute;%s">%s</div>`,
				anchorCSS[u.Position], html.EscapeString(strings.TrimSpace(text))))
			b.WriteString("\n")
		}
	}

	b.WriteString("</section>\n")
	return b.String()
}

// DeckHTML renders the whole deck as one self-contained page with a
// small script driving progressive disclosure.
func DeckHTML(deck *models.Deck, reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(deck.Title)))
	b.WriteString("<style>\n" + baseCSS + "</style>\n</head>\n<body>\n")
	for _, slide := range deck.Slides {
		b.WriteString(SlideHTML(slide, reg, false))
	}
	b.WriteString("<script>\n" + viewerJS + "</script>\n</body>\n</html>\n")
	return b.String()
}

// WriteSite writes the deck under dir: index.html with the interactive
// viewer plus one fully revealed slide-N.html per slide.
func WriteSite(deck *models.Deck, reg *registry.Registry, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	index := filepath.Join(dir, "index.html")
	if err := os.WriteFile(index, []byte(DeckHTML(deck, reg)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", index, err)
	}

	for _, slide := range deck.Slides {
		page := slidePage(deck, slide, reg)
		out := filepath.Join(dir, fmt.Sprintf("slide-%d.html", slide.Index+1))
		if err := os.WriteFile(out, []byte(page), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
	}
	return nil
}

// slidePage wraps one revealed slide in a minimal standalone page.
func slidePage(deck *models.Deck, slide *models.Slide, reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString(fmt.Sprintf("<title>%s — %d</title>\n", html.EscapeString(deck.Title), slide.Index+1))
	b.WriteString("<style>\n" + baseCSS + ".df-slide{display:block}\n</style>\n</head>\n<body>\n")
	b.WriteString(SlideHTML(slide, reg, true))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func inlineStyle(styles map[string]string) string {
	if len(styles) == 0 {
		return ""
	}
	var parts []string
	for k, v := range styles {
		parts = append(parts, html.EscapeString(k)+":"+html.EscapeString(v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func mediaHTML(m models.MediaRef) string {
	src := html.EscapeString(m.Src)
	switch m.Type {
	case "video":
		return fmt.Sprintf("<video class=\"df-media\" src=\"%s\" controls></video>\n", src)
	case "audio":
		return fmt.Sprintf("<audio class=\"df-media\" src=\"%s\" controls></audio>\n", src)
	default:
		return fmt.Sprintf("<img class=\"df-media\" src=\"%s\">\n", src)
	}
}

const baseCSS = `body{margin:0;font-family:sans-serif;background:#111;color:#eee}
.df-slide{display:none;position:relative;min-height:100vh;padding:3rem;box-sizing:border-box}
.df-slide.df-active{display:block}
.df-chunk{visibility:hidden}
.df-chunk.df-visible{visibility:visible}
.df-card{border:1px solid #444;border-radius:8px;padding:1rem;margin:1rem 0}
.df-highlight{background:#554400}
.df-component{font-size:0.8rem;color:#aaa}
.df-media{max-width:100%}
`

const viewerJS = `var slides=document.querySelectorAll('.df-slide');
var cur=0,chunk=0;
function show(){
  slides.forEach(function(s,i){s.classList.toggle('df-active',i===cur);});
  var chunks=slides[cur].querySelectorAll('.df-chunk');
  chunks.forEach(function(c,i){c.classList.toggle('df-visible',i<=chunk);});
}
document.addEventListener('keydown',function(e){
  var chunks=slides[cur].querySelectorAll('.df-chunk');
  if(e.key==='ArrowRight'||e.key===' '){
    if(chunk+1<chunks.length){chunk++;}
    else if(cur+1<slides.length){cur++;chunk=0;}
  }else if(e.key==='ArrowLeft'){
    if(chunk>0){chunk--;}
    else if(cur>0){cur--;chunk=slides[cur].querySelectorAll('.df-chunk').length-1;}
  }
  show();
});
if(slides.length)show();
`
