// Package render lays a contract record out for printing, as plain text for
// terminals and as a standalone HTML page for the browser print dialog.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/starford/contractviewer/internal/contract"
)

// Title heads every printout.
const Title = "Contract Data Viewer"

// Banner texts.
const (
	scoreLabel  = "Kwaliteit Score"
	reviewLabel = "Handmatige controle aanbevolen"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/print.html.tmpl"))

// Banner is the confidence summary shown above the fields.
type Banner struct {
	Score       string
	Quality     string
	Details     string
	NeedsReview bool
}

// NewBanner returns nil when meta carries no score.
func NewBanner(meta *contract.Metadata) *Banner {
	if meta == nil || meta.Score == nil {
		return nil
	}
	return &Banner{
		Score:       strconv.FormatFloat(*meta.Score, 'f', -1, 64) + "%",
		Quality:     meta.Quality(),
		Details:     meta.Details,
		NeedsReview: meta.NeedsReview,
	}
}

type row struct {
	Label     string
	Value     string
	Multiline bool
}

type section struct {
	Title string
	Rows  []row
}

type page struct {
	Title    string
	Banner   *Banner
	Sections []section
}

func layout(r contract.Record, meta *contract.Metadata) page {
	p := page{Title: Title, Banner: NewBanner(meta)}
	for _, s := range contract.Sections {
		sec := section{Title: s.Title}
		for _, f := range s.Fields {
			sec.Rows = append(sec.Rows, row{Label: f.Label, Value: r.Get(f.Name), Multiline: f.Multiline})
		}
		p.Sections = append(p.Sections, sec)
	}
	return p
}

// HTML writes a printable page for r.
func HTML(w io.Writer, r contract.Record, meta *contract.Metadata) error {
	if err := pageTemplate.Execute(w, layout(r, meta)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Text writes r as aligned label/value columns, one block per section.
// Multiline values continue on indented lines under their label.
func Text(w io.Writer, r contract.Record, meta *contract.Metadata) error {
	p := layout(r, meta)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, p.Title)
	fmt.Fprintln(tw, strings.Repeat("=", len(p.Title)))
	if b := p.Banner; b != nil {
		fmt.Fprintf(tw, "%s: %s (%s)\n", scoreLabel, b.Score, b.Quality)
		if b.Details != "" {
			fmt.Fprintln(tw, b.Details)
		}
		if b.NeedsReview {
			fmt.Fprintf(tw, "! %s\n", reviewLabel)
		}
	}

	for _, s := range p.Sections {
		fmt.Fprintf(tw, "\n%s\n", s.Title)
		for _, rw := range s.Rows {
			lines := strings.Split(rw.Value, "\n")
			fmt.Fprintf(tw, "  %s:\t%s\n", rw.Label, lines[0])
			for _, l := range lines[1:] {
				fmt.Fprintf(tw, "  \t%s\n", l)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return nil
}
