package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/mailer"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	format    string
	output    string
	period    string
	date      string
	rows      int
	signature string
	title     string
	mailTo    string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "export the expense report" }
func (*reportCmd) Usage() string {
	return `dtr report [-f md|html|xlsx] [-o <file>] [-p <period> [-d <date>]] [-signature <image>] [-mail-to <addresses>]

  Exports a paginated report: the budget summary and one table per kind of
  record. Markdown is displayed in the terminal unless -o is given.

  With -p, only the records of the day, week, month or year containing -d
  are reported.

  With -mail-to, the report is also sent by email, configured with the
  DTR_SMTP_HOST, DTR_SMTP_PORT, DTR_SMTP_USERNAME, DTR_SMTP_PASSWORD and
  DTR_SMTP_FROM environment variables.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "md", "Format: md, html or xlsx")
	f.StringVar(&c.output, "o", "", "Output file")
	f.StringVar(&c.period, "p", "", "Restrict to a period: day, week, month or year")
	f.StringVar(&c.date, "d", "", "Date within the period, today by default")
	f.IntVar(&c.rows, "rows", renderer.DefaultRowsPerPage, "Table rows per page")
	f.StringVar(&c.signature, "signature", "", "PNG or JPEG signature printed at the end")
	f.StringVar(&c.title, "title", tracker.DefaultReportTitle, "Report title")
	f.StringVar(&c.mailTo, "mail-to", "", "Comma separated email addresses to send the report to")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := time.Now()
	var period date.Range
	if c.period != "" {
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		on := date.Of(now)
		if c.date != "" {
			if on, err = date.Parse(c.date); err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
				return subcommands.ExitUsageError
			}
		}
		period = date.NewRange(on, p)
	}

	return withStore(ctx, func(s *tracker.Store) subcommands.ExitStatus {
		r := tracker.NewReport(s.Snapshot(), now, period)
		r.Title = c.title
		opts := renderer.Options{
			RowsPerPage:   c.rows,
			SignaturePath: c.signature,
			Warn:          func(err error) { fmt.Fprintf(os.Stderr, "Warning: %v\n", err) },
		}

		content, err := render(r, c.format, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting report: %v\n", err)
			return subcommands.ExitFailure
		}

		switch {
		case c.output != "":
			if err := os.WriteFile(c.output, content, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
				return subcommands.ExitFailure
			}
			fmt.Printf("Report written to %s\n", c.output)
		case c.format == "md" || c.format == "markdown":
			printMarkdown(string(content))
		case c.mailTo == "":
			os.Stdout.Write(content)
		}

		if c.mailTo != "" {
			if err := c.mail(r, content, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error mailing report: %v\n", err)
				return subcommands.ExitFailure
			}
			fmt.Printf("Report sent to %s\n", c.mailTo)
		}
		return subcommands.ExitSuccess
	})
}

// render exports the report in a format.
func render(r *tracker.Report, format string, opts renderer.Options) ([]byte, error) {
	switch format {
	case "md", "markdown":
		return []byte(renderer.Markdown(r, opts)), nil
	case "html":
		html, err := renderer.HTML(r, opts)
		return []byte(html), err
	case "xlsx":
		var buf bytes.Buffer
		err := renderer.XLSX(&buf, r, opts)
		return buf.Bytes(), err
	default:
		return nil, fmt.Errorf("unknown format %q, want md, html or xlsx", format)
	}
}

// mail sends the report as an attachment, with its HTML rendering as body.
func (c *reportCmd) mail(r *tracker.Report, content []byte, opts renderer.Options) error {
	cfg, err := mailer.FromEnv()
	if err != nil {
		return err
	}
	body, err := renderer.HTML(r, opts)
	if err != nil {
		return err
	}
	name := c.output
	if name == "" {
		name = "report." + c.format
	}
	var to []string
	for _, addr := range strings.Split(c.mailTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	m := cfg.Message(to, r.Title, body, mailer.Attachment{Name: filepath.Base(name), Content: content})
	return cfg.Send(m)
}
