package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/nonibytes/contactrank/contactrank"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatNames  OutputFormat = "names"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatPretty, FormatNames, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want pretty|names|json)", s)
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// ColorEnabled resolves --color for w. "auto" colors only terminals and
// honors NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer renders contacts in one output format.
type Printer struct {
	w      io.Writer
	format OutputFormat

	label *color.Color
	key   *color.Color
	dim   *color.Color
}

func NewPrinter(w io.Writer, format OutputFormat, colorMode string) *Printer {
	p := &Printer{
		w:      w,
		format: format,
		label:  color.New(color.FgCyan, color.Bold),
		key:    color.New(color.FgYellow),
		dim:    color.New(color.Faint),
	}
	enabled := ColorEnabled(colorMode, w)
	for _, c := range []*color.Color{p.label, p.key, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type explainedMatch struct {
	Contact  contactrank.Contact `json:"contact"`
	Priority int                 `json:"priority"`
	Tier     string              `json:"tier"`
	SortKey  string              `json:"sort_key"`
	Distance int                 `json:"distance"`
}

// Matches prints ranked search results. explain adds the priority tier,
// sort key and distance of each match.
func (p *Printer) Matches(matches []contactrank.Match, explain bool) {
	switch p.format {
	case FormatJSON:
		if explain {
			out := make([]explainedMatch, 0, len(matches))
			for _, m := range matches {
				out = append(out, explainedMatch{
					Contact:  m.Contact,
					Priority: int(m.Priority),
					Tier:     m.Priority.String(),
					SortKey:  m.SortKey.String(),
					Distance: m.Distance,
				})
			}
			PrintJSON(p.w, out)
			return
		}
		out := make([]contactrank.Contact, 0, len(matches))
		for _, m := range matches {
			out = append(out, m.Contact)
		}
		PrintJSON(p.w, out)
	case FormatNames:
		for _, m := range matches {
			fmt.Fprintln(p.w, m.Contact.Label())
		}
	default:
		for i, m := range matches {
			if i > 0 {
				fmt.Fprintln(p.w)
			}
			p.label.Fprint(p.w, m.Contact.Label())
			if explain {
				p.dim.Fprintf(p.w, "  (priority %d %s, key %q, distance %d)",
					m.Priority, m.Priority, m.SortKey.String(), m.Distance)
			}
			fmt.Fprintln(p.w)
			p.fields(m.Contact)
		}
	}
}

// Records prints stored contacts with their ids.
func (p *Printer) Records(recs []contactrank.Record) {
	switch p.format {
	case FormatJSON:
		if recs == nil {
			recs = []contactrank.Record{}
		}
		PrintJSON(p.w, recs)
	case FormatNames:
		for _, r := range recs {
			fmt.Fprintln(p.w, r.Contact.Label())
		}
	default:
		for _, r := range recs {
			p.dim.Fprint(p.w, r.ID)
			fmt.Fprint(p.w, "  ")
			p.label.Fprintln(p.w, r.Contact.Label())
		}
	}
}

func (p *Printer) fields(c contactrank.Contact) {
	for _, k := range c.Keys() {
		fmt.Fprint(p.w, "  ")
		p.key.Fprint(p.w, k)
		fmt.Fprintf(p.w, ": %s\n", c[k])
	}
}
