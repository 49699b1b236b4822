// Package console renders a finished review to a writer, usually the
// terminal. It is the sink for branch reviews, where there is no pull
// request to post to.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mfinn/llmreview/internal/usecase/review"
)

// Printer implements the review Sink port on top of an io.Writer.
type Printer struct {
	out   io.Writer
	title string
}

// NewPrinter constructs a printer. An empty title suppresses the
// heading line.
func NewPrinter(out io.Writer, title string) *Printer {
	return &Printer{out: out, title: title}
}

// Publish renders the summary followed by the inline findings with
// their file and diff position.
func (p *Printer) Publish(ctx context.Context, pub review.Publication) (review.PublishResult, error) {
	var sb strings.Builder

	if p.title != "" {
		sb.WriteString("## " + p.title + "\n\n")
	}
	sb.WriteString(pub.SummaryBody)
	if !strings.HasSuffix(pub.SummaryBody, "\n") {
		sb.WriteString("\n")
	}

	if len(pub.Inline) > 0 {
		sb.WriteString("\n### Inline Findings\n")
		for _, ic := range pub.Inline {
			fmt.Fprintf(&sb, "\n**%s** (position %d)\n\n%s\n", ic.Path, ic.Position, ic.Body)
		}
	}

	if _, err := io.WriteString(p.out, sb.String()); err != nil {
		return review.PublishResult{}, fmt.Errorf("write review output: %w", err)
	}
	return review.PublishResult{Posted: 1 + len(pub.Inline)}, nil
}

var _ review.Sink = (*Printer)(nil)
