// Package render prints query outcomes, comparisons, plans, history and
// generation progress as terminal tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/TFMV/querylab/pkg/evaluator"
)

// DefaultMaxRows caps the result grid.
const DefaultMaxRows = 100

// maxSQLWidth is where SQL text is cut in list views.
const maxSQLWidth = 60

// Renderer writes tables to an output stream.
type Renderer struct {
	out     io.Writer
	printer *message.Printer
	color   bool
	maxRows int
}

// Option configures a Renderer.
type Option func(r *Renderer)

// WithColor enables ANSI colour for classified values.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithLanguage selects the locale used for number formatting.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
	}
}

// WithMaxRows caps the number of result rows printed.
func WithMaxRows(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxRows = n
		}
	}
}

// New creates a renderer writing to out.
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:     out,
		printer: message.NewPrinter(language.English),
		maxRows: DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// number formats n with locale grouping.
func (r *Renderer) number(n int64) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Renderer) optNumber(n *int64, absent string) string {
	if n == nil {
		return absent
	}
	return r.number(*n)
}

var toneCodes = map[evaluator.Tone]string{
	evaluator.ToneGreen:  "\033[32m",
	evaluator.ToneYellow: "\033[33m",
	evaluator.ToneRed:    "\033[31m",
	evaluator.ToneGray:   "\033[90m",
	evaluator.ToneBlue:   "\033[34m",
}

// paint wraps s in the tone's colour when colour is enabled.
func (r *Renderer) paint(tone evaluator.Tone, s string) string {
	code, ok := toneCodes[tone]
	if !r.color || !ok {
		return s
	}
	return code + s + "\033[0m"
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width]) + "..."
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func indexLabel(s *string) string {
	if s == nil || *s == "" {
		return "None"
	}
	return *s
}
