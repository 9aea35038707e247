// Package render turns generated plans into text for a specific surface.
// Plan generation never depends on this package.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Skufu/pedtox/internal/toxplan"
)

const (
	// Placeholder is shown before any patient details have been submitted.
	Placeholder = "Enter patient details and generate a plan to get recommendations."

	Disclaimer = "Doses from pediatric toxicology guidelines. Verify with local protocols; not a substitute for specialist advice."
)

type Renderer interface {
	Render(w io.Writer, plan *toxplan.Plan) error
	ContentType() string
}

// New returns the renderer for format: "markdown", "pretty" or "terminal".
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return Markdown{}, nil
	case "pretty":
		return Pretty{WordWrap: 100}, nil
	case "terminal", "term", "":
		return Terminal{}, nil
	default:
		return nil, fmt.Errorf("unknown render format %q", format)
	}
}

func marker(s toxplan.Severity) string {
	switch s {
	case toxplan.SeveritySuccess:
		return "✅"
	case toxplan.SeverityWarning:
		return "⚠️"
	case toxplan.SeverityError:
		return "🚨"
	default:
		return "ℹ️"
	}
}
