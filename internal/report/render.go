package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders reports as a Markdown document with one table per run.
func Markdown(reports []Report) []byte {
	var b bytes.Buffer
	b.WriteString("# Conversion report\n")
	for _, r := range reports {
		fmt.Fprintf(&b, "\n## %s\n\n", escapeCell(r.Source))
		fmt.Fprintf(&b, "- Run: `%s`\n", r.ID)
		fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "- Duration: %s\n", r.Duration().Round(time.Millisecond))
		fmt.Fprintf(&b, "- Header rewrite: %s\n", r.Rewrite)
		if r.BoundingBox != nil {
			fmt.Fprintf(&b, "- Bounding box: `%s` (%d x %d)\n", r.BoundingBox, r.BoundingBox.Width(), r.BoundingBox.Height())
		}
		if r.Orientation != "" {
			fmt.Fprintf(&b, "- Orientation: %s\n", r.Orientation)
		}
		if len(r.Results) == 0 {
			continue
		}
		b.WriteString("\n| Format | Outcome | Output | Diagnostic |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, res := range r.Results {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				res.Format, res.Outcome, escapeCell(res.OutputPath), escapeCell(res.Diagnostic))
		}
	}
	return b.Bytes()
}

// HTML renders the Markdown summary of reports to HTML.
func HTML(reports []Report) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var out bytes.Buffer
	if err := md.Convert(Markdown(reports), &out); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return out.Bytes(), nil
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
