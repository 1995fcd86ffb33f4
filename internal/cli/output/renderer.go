// Package output renders report results for the terminal, for Markdown
// documents and for machines.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"golang.org/x/term"

	"github.com/leapstack-labs/pkginfo/internal/warehouse"
	"github.com/leapstack-labs/pkginfo/pkg/core"
	"github.com/leapstack-labs/pkginfo/pkg/report"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	// ModeAuto picks ModeText on a terminal and ModeMarkdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	// ModeTable draws a boxed table.
	ModeTable Mode = "table"
	ModeJSON  Mode = "json"
	ModeCSV   Mode = "csv"
)

// Modes lists every accepted mode, used for validation and completion.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeTable, ModeJSON, ModeCSV}

// ParseMode validates a mode name. The empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	m := Mode(strings.ToLower(s))
	if m == "md" {
		return ModeMarkdown, nil
	}
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected auto, text, markdown, table, json or csv)", s)
}

// Renderer writes reports in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
	clock  clockwork.Clock
	indent int
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, IsTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(out, isTTY),
		clock:  clockwork.NewRealClock(),
	}
}

// SetClock replaces the clock used for JSON timestamps.
func (r *Renderer) SetClock(c clockwork.Clock) { r.clock = c }

// SetIndent sets the JSON indentation width. Zero writes compact JSON.
func (r *Renderer) SetIndent(n int) { r.indent = n }

// Mode returns the effective mode, with ModeAuto resolved.
func (r *Renderer) Mode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to the output.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Warn writes a message to the error output.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning: ")+msg)
}

// Report is a finished query ready for rendering.
type Report struct {
	Table core.Table
	Stats warehouse.Stats
}

// Render writes the report in the renderer's mode. Human-readable modes
// print the job summary above the table.
func (r *Renderer) Render(rep Report) error {
	switch r.Mode() {
	case ModeJSON:
		return r.renderJSON(rep)
	case ModeCSV:
		return r.renderCSV(rep.Table)
	}
	r.renderSummary(rep.Stats)
	return r.RenderTable(rep.Table)
}

// RenderTable writes a bare table in the renderer's mode.
func (r *Renderer) RenderTable(t core.Table) error {
	switch r.Mode() {
	case ModeJSON:
		return r.encodeJSON(jsonRows(t))
	case ModeCSV:
		return r.renderCSV(t)
	case ModeTable:
		return r.renderBoxed(t)
	case ModeMarkdown:
		_, err := io.WriteString(r.out, report.Tabulate(t, true))
		return err
	default:
		_, err := io.WriteString(r.out, report.Tabulate(t, false))
		return err
	}
}

// SQL writes a query without running it.
func (r *Renderer) SQL(sql string) error {
	if r.Mode() == ModeMarkdown {
		_, err := fmt.Fprintf(r.out, "```sql\n%s```\n", sql)
		return err
	}
	_, err := io.WriteString(r.out, sql)
	return err
}

func (r *Renderer) renderSummary(stats warehouse.Stats) {
	s := Summarize(stats)
	label := r.styles.Label.Render
	r.Printf("%s %t\n", label("Served from cache:"), s.Cached)
	r.Printf("%s %s\n", label("Data processed:"), s.Processed)
	r.Printf("%s %s\n", label("Data billed:"), s.Billed)
	r.Printf("%s $%s\n", label("Estimated cost:"), s.EstimatedCost)
	r.Println("")
}

func (r *Renderer) renderCSV(table core.Table) error {
	w := csv.NewWriter(r.out)
	for _, row := range table {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type jsonQuery struct {
	Cached         bool   `json:"cached"`
	BytesProcessed int64  `json:"bytes_processed"`
	BytesBilled    int64  `json:"bytes_billed"`
	EstimatedCost  string `json:"estimated_cost"`
}

type jsonReport struct {
	LastUpdate string           `json:"last_update"`
	Query      jsonQuery        `json:"query"`
	Rows       []map[string]any `json:"rows"`
}

func (r *Renderer) renderJSON(rep Report) error {
	doc := jsonReport{
		LastUpdate: r.clock.Now().UTC().Format("2006-01-02 15:04:05"),
		Query: jsonQuery{
			Cached:         rep.Stats.Cached,
			BytesProcessed: rep.Stats.BytesProcessed,
			BytesBilled:    rep.Stats.BytesBilled,
			EstimatedCost:  EstimatedCost(rep.Stats.BytesBilled),
		},
		Rows: jsonRows(rep.Table),
	}
	return r.encodeJSON(doc)
}

func (r *Renderer) encodeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	if r.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", r.indent))
	}
	return enc.Encode(v)
}

// jsonRows turns the data rows into objects keyed by header cell.
func jsonRows(t core.Table) []map[string]any {
	header := t.Header()
	rows := make([]map[string]any, 0, len(t.Data()))
	for _, row := range t.Data() {
		obj := make(map[string]any, len(header))
		for i, col := range header {
			obj[col] = jsonValue(row[i])
		}
		rows = append(rows, obj)
	}
	return rows
}

// jsonValue emits integer cells as numbers and everything else as text.
func jsonValue(cell string) any {
	if strings.ContainsAny(cell, "%.") {
		return cell
	}
	if n, err := report.ParseCount(cell); err == nil {
		return n
	}
	return cell
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
