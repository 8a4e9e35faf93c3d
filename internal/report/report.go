// Package report renders audit progress and results as the plain-text
// knowledge base audit report.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/kbaudit/internal/audit"
	"github.com/dbsmedya/kbaudit/internal/corpus"
)

// Title is the report banner text.
const Title = "KNOWLEDGE BASE AUDIT REPORT"

// minBannerWidth is the narrowest banner rule.
const minBannerWidth = 40

// Options controls report rendering.
type Options struct {
	Color        bool
	RecordCounts bool
}

// Reporter writes the report. It implements audit.Observer so sections
// stream while the run progresses.
type Reporter struct {
	w    io.Writer
	opts Options
}

// New creates a Reporter writing to w.
func New(w io.Writer, opts Options) *Reporter {
	return &Reporter{w: w, opts: opts}
}

// Header prints the banner.
func (r *Reporter) Header() {
	rule := banner(Title)
	fmt.Fprintln(r.w, rule)
	fmt.Fprintf(r.w, "  %s\n", r.paint(color.Bold, Title))
	fmt.Fprintln(r.w, rule)
}

// CheckStarted is a no-op; sections are printed once their result is known.
func (r *Reporter) CheckStarted(int, audit.Check) {}

// CheckFinished prints the section for one check. The parse check (n == 0)
// is printed only when it fails, as an unnumbered warning section.
func (r *Reporter) CheckFinished(n int, res audit.Result) {
	if n == 0 {
		if res.Passed {
			return
		}
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "%s %s\n", r.paint(color.Yellow, "[!]"), res.Title)
	} else {
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "[%d] %s\n", n, res.Title)
	}

	if res.Passed {
		fmt.Fprintf(r.w, "  %s %s\n", r.paint(color.Green, "[PASS]"), res.PassMessage)
		return
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(r.w, "  %s %s\n", r.paint(color.Red, "[FAIL]"), d)
	}
}

// Summary prints the aggregate verdict.
func (r *Reporter) Summary(s *audit.Summary) {
	rule := banner(Title)
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, rule)
	if s.Passed() {
		fmt.Fprintf(r.w, "  %s\n", r.paint(color.Green, "ALL CHECKS PASSED"))
	} else {
		fmt.Fprintf(r.w, "  %s\n", r.paint(color.Red, fmt.Sprintf("%d CHECK(S) FAILED - see above", s.Failed)))
	}
	fmt.Fprintln(r.w, rule)
}

// RecordCounts prints the size of every document in id order.
func (r *Reporter) RecordCounts(c *corpus.Corpus) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "RECORD COUNTS:")
	for _, doc := range c.Documents() {
		fmt.Fprintf(r.w, "  %s: %s\n", doc.ID, describe(doc))
	}
}

func describe(doc *corpus.Document) string {
	switch doc.Value.Kind {
	case corpus.KindSequence:
		return fmt.Sprintf("%d records", doc.Value.Len())
	case corpus.KindObject:
		return "single object"
	default:
		return "malformed"
	}
}

func (r *Reporter) paint(style color.Color, s string) string {
	if !r.opts.Color {
		return s
	}
	return style.Sprint(s)
}

func banner(title string) string {
	width := runewidth.StringWidth(title) + 4
	if width < minBannerWidth {
		width = minBannerWidth
	}
	return strings.Repeat("=", width)
}
