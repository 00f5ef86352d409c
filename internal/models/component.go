package models

// AnchorPosition names one of the nine fixed placements for a rendered
// component instance.
type AnchorPosition string

const (
	AnchorTopLeft      AnchorPosition = "top-left"
	AnchorTopCenter    AnchorPosition = "top-center"
	AnchorTopRight     AnchorPosition = "top-right"
	AnchorCenterLeft   AnchorPosition = "center-left"
	AnchorCenter       AnchorPosition = "center"
	AnchorCenterRight  AnchorPosition = "center-right"
	AnchorBottomLeft   AnchorPosition = "bottom-left"
	AnchorBottomCenter AnchorPosition = "bottom-center"
	AnchorBottomRight  AnchorPosition = "bottom-right"
)

// anchorNames lists every valid anchor for validation.
var anchorNames = map[AnchorPosition]bool{
	AnchorTopLeft:      true,
	AnchorTopCenter:    true,
	AnchorTopRight:     true,
	AnchorCenterLeft:   true,
	AnchorCenter:       true,
	AnchorCenterRight:  true,
	AnchorBottomLeft:   true,
	AnchorBottomCenter: true,
	AnchorBottomRight:  true,
}

// ParseAnchor validates an anchor name from a directive parameter. The
// second return value is false for an unknown name.
func ParseAnchor(s string) (AnchorPosition, bool) {
	a := AnchorPosition(s)
	if anchorNames[a] {
		return a, true
	}
	return AnchorBottomRight, false
}

// ComponentDefinition is a named, reusable template registered from the
// definitions region. UsageCount is diagnostic only; it counts resolved
// usages since the definition was registered.
type ComponentDefinition struct {
	Name       string
	Template   string
	Anchor     AnchorPosition
	UsageCount int
}

// ComponentUsage is one instantiation of a component on a slide. Usages
// are ephemeral: the compiler produces a fresh set on every build.
type ComponentUsage struct {
	ComponentName string
	Params        map[string]string
	Position      AnchorPosition
	SlideIndex    int
	TotalSlides   int
}

// Overlay is a fully expanded component instance ready to draw on a
// slide at its anchor.
type Overlay struct {
	Anchor AnchorPosition
	Text   string
}
