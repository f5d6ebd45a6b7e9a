package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/etnz/tracker"
	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1em; }
th, td { border: 1px solid #444; padding: 4px 8px; }
th { background: #96b753; }
section.page { page-break-after: always; }
section.page:last-child { page-break-after: auto; }
section.page > p:last-child { text-align: center; color: #666; }
img { max-height: 6em; }
</style>
</head>
<body>
{{range .Pages}}<section class="page">
{{.}}</section>
{{end}}</body>
</html>
`))

// HTML renders the report as a printable HTML document, one section per
// page with a page break after each.
func HTML(r *tracker.Report, opts Options) (string, error) {
	signature := ""
	if opts.SignaturePath != "" {
		uri, err := dataURI(opts.SignaturePath)
		if err != nil {
			opts.warn(fmt.Errorf("signature skipped: %w", err))
		}
		signature = uri
	}

	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	pages := paginate(tables(r), opts.rowsPerPage())
	var data struct {
		Title string
		Pages []template.HTML
	}
	data.Title = r.Title
	for i, p := range pages {
		var src bytes.Buffer
		doc := md.NewMarkdown(&src)
		writePage(doc, r, p, i+1, len(pages), signature)

		var out bytes.Buffer
		if err := conv.Convert([]byte(doc.String()), &out); err != nil {
			return "", fmt.Errorf("cannot convert page %d: %w", i+1, err)
		}
		data.Pages = append(data.Pages, template.HTML(out.String()))
	}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("cannot render html report: %w", err)
	}
	return buf.String(), nil
}

// dataURI inlines an image file.
func dataURI(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(content)
	switch mime {
	case "image/png", "image/jpeg", "image/gif":
	default:
		return "", fmt.Errorf("%s is not an image: %s", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content), nil
}
