// Package output renders command results as text, markdown, CSV or JSON.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeCSV      Mode = "csv"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. ModeAuto resolves to text when out is a
// terminal and to markdown otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode}
	r.mode = r.resolve()
	if r.mode == ModeText && isTerminal(out) {
		r.styles = DefaultStyles()
	} else {
		r.styles = plainStyles()
	}
	return r
}

func (r *Renderer) resolve() Mode {
	switch r.mode {
	case ModeText, ModeMarkdown, ModeCSV, ModeJSON:
		return r.mode
	case "md":
		return ModeMarkdown
	}
	if isTerminal(r.out) {
		return ModeText
	}
	return ModeMarkdown
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode returns the resolved output mode.
func (r *Renderer) EffectiveMode() Mode {
	return r.mode
}

// Styles returns the styles for text output. They are plain when the
// output is not a terminal.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the primary output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Println writes a line to the output.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warn writes a warning line to the error output.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// StatusLine writes "  ✓ name" style lines used when listing created files.
func (r *Renderer) StatusLine(name, status, detail string) {
	icon, style := "•", r.styles.Info
	switch status {
	case "success":
		icon, style = "✓", r.styles.Success
	case "error":
		icon, style = "✗", r.styles.Error
	case "skipped":
		icon, style = "-", r.styles.Muted
	}
	line := "  " + style.Render(icon) + " " + name
	if detail != "" {
		line += " " + r.styles.Muted.Render("("+detail+")")
	}
	r.Println(line)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.mode == ModeMarkdown {
		hashes := "##"
		if level <= 1 {
			hashes = "#"
		}
		r.Println(hashes + " " + text)
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Table writes headers and rows in the renderer's mode. JSON output is an
// array of objects keyed by keys, which must align with headers.
func (r *Renderer) Table(keys, headers []string, rows [][]string) error {
	if r.mode == ModeJSON {
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			rec := make(map[string]string, len(keys))
			for i, key := range keys {
				if i < len(row) {
					rec[key] = row[i]
				}
			}
			records = append(records, rec)
		}
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if r.mode == ModeCSV {
		return writeCSV(r.out, headers, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	style := table.StyleLight
	// Keep headers as declared ("UserName"), not upper-cased
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	switch r.mode {
	case ModeMarkdown:
		t.RenderMarkdown()
	default:
		t.Render()
	}
	return nil
}

// writeCSV writes RFC 4180 records. go-pretty's RenderCSV backslash-escapes
// commas inside quoted cells, which standard readers reject.
func writeCSV(out io.Writer, headers []string, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
