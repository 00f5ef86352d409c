package models

// ContentChunk is one progressively revealed unit of a slide. The first
// chunk is visible on slide entry; later chunks appear one per forward
// step, using the reveal effect declared on the step marker before them.
type ContentChunk struct {
	RawText          string // residual markdown for the chunk, highlight markers removed
	RevealEffect     string // "none" when the preceding marker carried no effect
	RevealDurationMs int
	Highlights       []HighlightSpan
	HTML             string // rendered fragment, highlight wrappers included
}

// HighlightCount returns the number of nested highlight reveals the
// chunk contributes to navigation.
func (c *ContentChunk) HighlightCount() int {
	return len(c.Highlights)
}

// HighlightSpan is a marked sub-region of a chunk that reveals as its own
// micro-step. Index is 0-based and unique within the chunk, in document
// order.
type HighlightSpan struct {
	Index  int
	Text   string // highlighted text, block prefix excluded
	Prefix string // markdown block prefix kept outside the wrapper, if any
}
