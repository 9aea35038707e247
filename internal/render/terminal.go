package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Skufu/pedtox/internal/toxplan"
)

var (
	colorInfo    = lipgloss.Color("#2196F3")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
)

// Terminal renders a plan with severity-coloured badges.
type Terminal struct{}

func (Terminal) ContentType() string { return "text/plain; charset=utf-8" }

func (Terminal) Render(w io.Writer, plan *toxplan.Plan) error {
	heading := lipgloss.NewStyle().Bold(true).Underline(true)
	section := lipgloss.NewStyle().Bold(true).MarginTop(1)
	detail := lipgloss.NewStyle().PaddingLeft(4)
	footer := lipgloss.NewStyle().Faint(true).Italic(true).MarginTop(1)

	var b strings.Builder
	b.WriteString(heading.Render(plan.Heading()))
	b.WriteString("\n")
	for i, group := range plan.ByStage() {
		b.WriteString(section.Render(fmt.Sprintf("%d. %s", i+1, group.Stage.Title())))
		b.WriteString("\n")
		for _, rec := range group.Recommendations {
			b.WriteString(badge(rec.Severity))
			b.WriteString(" ")
			b.WriteString(rec.Title)
			b.WriteString("\n")
			for _, line := range rec.Details {
				b.WriteString(detail.Render("- " + line))
				b.WriteString("\n")
			}
		}
	}
	b.WriteString(footer.Render(Disclaimer))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func badge(s toxplan.Severity) string {
	c := colorInfo
	switch s {
	case toxplan.SeveritySuccess:
		c = colorSuccess
	case toxplan.SeverityWarning:
		c = colorWarning
	case toxplan.SeverityError:
		c = colorError
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(c).
		Render(fmt.Sprintf("[%s]", strings.ToUpper(string(s))))
}
