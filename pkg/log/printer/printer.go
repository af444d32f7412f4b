// Package printer writes entries and JSON documents for the command line.
package printer

import (
	"fmt"
	"io"
	"text/template"

	"github.com/bascanada/logexplorer/pkg/datasource"
)

// DefaultTemplate prints the time, the level field when present and the raw line.
const DefaultTemplate = `{{Dim (Format .Timestamp "15:04:05")}} {{with Field .Fields "level"}}{{Level .}} {{end}}{{.Line}}`

// EntryPrinter renders entries through a text/template.
type EntryPrinter struct {
	tmpl *template.Template
}

// NewEntryPrinter parses text, DefaultTemplate when empty.
func NewEntryPrinter(text string) (*EntryPrinter, error) {
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("entry").Funcs(TemplateFuncs()).Parse(text + "\n")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &EntryPrinter{tmpl: tmpl}, nil
}

func (p *EntryPrinter) Print(w io.Writer, entries []datasource.Entry) error {
	for _, e := range entries {
		if err := p.tmpl.Execute(w, e); err != nil {
			return err
		}
	}
	return nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	s, err := PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
