package renderer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	md "github.com/nao1215/markdown"
)

// Markdown renders the report as a markdown document. Pages are separated
// by horizontal rules and end with their page number.
func Markdown(r *tracker.Report, opts Options) string {
	signature := ""
	if opts.SignaturePath != "" {
		if _, err := os.Stat(opts.SignaturePath); err != nil {
			opts.warn(fmt.Errorf("signature skipped: %w", err))
		} else {
			signature = opts.SignaturePath
		}
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	pages := paginate(tables(r), opts.rowsPerPage())
	for i, p := range pages {
		if i > 0 {
			doc.HorizontalRule()
		}
		writePage(doc, r, p, i+1, len(pages), signature)
	}
	return doc.String()
}

// writePage writes one page. signature is an image URL printed on the last page.
func writePage(doc *md.Markdown, r *tracker.Report, p page, number, of int, signature string) {
	if number == 1 {
		doc.H1(r.Title)
		if !r.Range.IsZero() {
			doc.PlainText(fmt.Sprintf("Period: %s", r.Range))
		}
		doc.PlainText(counts(r))

		doc.H2("Budget summary")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"", fmt.Sprintf("Amount (%s)", r.Currency)},
			Rows:      summary(r),
		})
	}

	for _, part := range p.parts {
		title := part.table.title
		if part.continued {
			title += " (continued)"
		}
		doc.H2(title)
		doc.Table(md.TableSet{
			Alignment: part.table.align,
			Header:    part.table.header,
			Rows:      part.rows,
		})
	}

	if number == of && signature != "" {
		doc.H2("Signature")
		doc.PlainText(md.Image("signature", signature))
	}
	doc.PlainText(md.Italic(footer(r, number, of)))
}
