package models

import "fmt"

// Directive is one extracted inline marker: its name, the raw parameter
// string after the colon, and the byte span it occupied in the scanned
// text. Source holds the literal marker text so a caller can reinsert it
// at SpanStart and reconstruct the original input exactly.
type Directive struct {
	Name      string
	RawParams string
	SpanStart int
	SpanEnd   int
	Source    string
}

// DiagnosticSeverity classifies build diagnostics.
type DiagnosticSeverity string

const (
	DiagInfo    DiagnosticSeverity = "info"
	DiagWarning DiagnosticSeverity = "warning"
	DiagError   DiagnosticSeverity = "error"
)

// Diagnostic is a non-fatal anomaly observed during a build. Builds never
// fail; anything recoverable degrades and is reported here instead.
type Diagnostic struct {
	Severity   DiagnosticSeverity `json:"severity"`
	Message    string             `json:"message"`
	SlideIndex int                `json:"slide_index"` // -1 for the definitions region
}

func (d Diagnostic) String() string {
	if d.SlideIndex < 0 {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] slide %d: %s", d.Severity, d.SlideIndex+1, d.Message)
}
