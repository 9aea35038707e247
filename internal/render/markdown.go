package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/Skufu/pedtox/internal/toxplan"
)

type Markdown struct{}

func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

func (Markdown) Render(w io.Writer, plan *toxplan.Plan) error {
	var buf bytes.Buffer
	writeMarkdown(&buf, plan)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeMarkdown(buf *bytes.Buffer, plan *toxplan.Plan) {
	fmt.Fprintf(buf, "## %s\n", plan.Heading())
	for i, group := range plan.ByStage() {
		fmt.Fprintf(buf, "\n### %d. %s\n\n", i+1, group.Stage.Title())
		for _, rec := range group.Recommendations {
			fmt.Fprintf(buf, "- %s **%s**\n", marker(rec.Severity), rec.Title)
			for _, line := range rec.Details {
				fmt.Fprintf(buf, "  - %s\n", line)
			}
		}
	}
	fmt.Fprintf(buf, "\n---\n\n_%s_\n", Disclaimer)
}

// Pretty renders the markdown form through glamour for ANSI terminals.
type Pretty struct {
	WordWrap int
}

func (Pretty) ContentType() string { return "text/plain; charset=utf-8" }

func (p Pretty) Render(w io.Writer, plan *toxplan.Plan) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.WordWrap),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	var buf bytes.Buffer
	writeMarkdown(&buf, plan)
	out, err := r.RenderBytes(buf.Bytes())
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = w.Write(out)
	return err
}
