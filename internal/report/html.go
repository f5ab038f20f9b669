package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/userreport/internal/core"
	"github.com/a-h/templ"
)

// SummaryPage renders the summary of records as a standalone HTML page.
// Every value taken from the records is escaped.
func SummaryPage(records []core.UserRecord, p Params) templ.Component {
	s := Summarize(records, p)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pw := &pageWriter{w: w}

		pw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		pw.raw(`<title>User report</title></head><body><main>`)
		pw.raw(`<h1>User report</h1><dl>`)
		pw.term("Total users", strconv.Itoa(s.Total))
		pw.term(fmt.Sprintf("Aged %d or older", s.Params.MinAge), strconv.Itoa(s.Filtered))
		pw.term("Average age", FormatAverage(s.Average))
		pw.raw(`</dl>`)

		pw.countsTable("Users per country", "Country", s.ByCountry)

		pw.heading(fmt.Sprintf("Top %d oldest users", s.Params.TopN))
		pw.raw(`<ol>`)
		for _, u := range s.Oldest {
			pw.raw(`<li>`)
			pw.text(u.Name)
			pw.raw(` (`)
			pw.text(u.Age)
			pw.raw(`)</li>`)
		}
		pw.raw(`</ol>`)

		pw.countsTable("Users per region", "Region", s.ByRegion)

		pw.raw(`</main></body></html>`)
		return pw.err
	})
}

// pageWriter keeps the first write error so the page body reads as a
// straight sequence of writes.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *pageWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *pageWriter) heading(s string) {
	p.raw(`<h2>`)
	p.text(s)
	p.raw(`</h2>`)
}

func (p *pageWriter) term(label, value string) {
	p.raw(`<dt>`)
	p.text(label)
	p.raw(`</dt><dd>`)
	p.text(value)
	p.raw(`</dd>`)
}

func (p *pageWriter) countsTable(title, keyHeader string, counts core.Counts) {
	p.heading(title)
	p.raw(`<table><thead><tr><th>`)
	p.text(keyHeader)
	p.raw(`</th><th>Users</th></tr></thead><tbody>`)
	for _, c := range counts {
		p.raw(`<tr><td>`)
		p.text(c.Key)
		p.raw(`</td><td>`)
		p.text(strconv.Itoa(c.Value))
		p.raw(`</td></tr>`)
	}
	p.raw(`</tbody></table>`)
}
