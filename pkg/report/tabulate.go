package report

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/leapstack-labs/pkginfo/pkg/core"
)

// ColumnKind decides how a column is formatted and aligned.
type ColumnKind uint8

// Column kinds.
const (
	// Text columns are left-aligned and printed as is.
	Text ColumnKind = iota
	// Numeric columns are right-aligned; integer cells get thousands separators.
	Numeric
)

var (
	integerPattern = regexp.MustCompile(`^-?(\d+|\d{1,3}(,\d{3})+)$`)
	percentPattern = regexp.MustCompile(`^-?\d+(\.\d+)?%$`)
)

// ClassifyColumns returns the kind of every column of the table.
//
// A column is Numeric when it has at least one non-empty data cell and every
// non-empty data cell is an integer (optionally comma-grouped) or a
// percentage. The header never takes part in the decision.
func ClassifyColumns(rows core.Table) []ColumnKind {
	kinds := make([]ColumnKind, len(rows.Header()))
	for col := range kinds {
		seen := false
		numeric := true
		for _, row := range rows.Data() {
			cell := row[col]
			if cell == "" {
				continue
			}
			seen = true
			if !integerPattern.MatchString(cell) && !percentPattern.MatchString(cell) {
				numeric = false
				break
			}
		}
		if seen && numeric {
			kinds[col] = Numeric
		}
	}
	return kinds
}

// Tabulate renders rows as a pipe-delimited table, header first.
//
// Numeric columns are right-aligned with grouped integers, other columns are
// left-aligned. A dashed separator follows the header; with markdown set the
// separators of numeric columns end in a colon so Markdown renderers
// right-align them. Every line, the last included, ends in a newline.
func Tabulate(rows core.Table, markdown bool) string {
	if len(rows) == 0 {
		return ""
	}

	kinds := ClassifyColumns(rows)
	cells := FormatCells(rows, kinds)

	widths := make([]int, len(kinds))
	for _, row := range cells {
		for col, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[col] {
				widths[col] = w
			}
		}
	}

	var b strings.Builder
	writeRow(&b, cells[0], kinds, widths)
	writeSeparator(&b, kinds, widths, markdown)
	for _, row := range cells[1:] {
		writeRow(&b, row, kinds, widths)
	}
	return b.String()
}

// FormatCells returns a copy of rows with the integer cells of numeric columns
// grouped by thousands. Header cells are left untouched.
func FormatCells(rows core.Table, kinds []ColumnKind) core.Table {
	out := rows.Clone()
	for _, row := range out[1:] {
		for col, cell := range row {
			if kinds[col] != Numeric || !integerPattern.MatchString(cell) {
				continue
			}
			if n, err := ParseCount(cell); err == nil {
				row[col] = GroupThousands(n)
			}
		}
	}
	return out
}

func writeRow(b *strings.Builder, row core.Row, kinds []ColumnKind, widths []int) {
	b.WriteString("|")
	for col, cell := range row {
		b.WriteString(" ")
		if kinds[col] == Numeric {
			b.WriteString(runewidth.FillLeft(cell, widths[col]))
		} else {
			b.WriteString(runewidth.FillRight(cell, widths[col]))
		}
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, kinds []ColumnKind, widths []int, markdown bool) {
	b.WriteString("|")
	for col, w := range widths {
		b.WriteString(" ")
		if markdown && kinds[col] == Numeric {
			b.WriteString(strings.Repeat("-", max(w-1, 1)))
			b.WriteString(":")
		} else {
			b.WriteString(strings.Repeat("-", max(w, 1)))
		}
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
